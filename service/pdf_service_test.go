package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor is a test double for TextExtractor.
type stubExtractor struct {
	pages []string
	err   error
}

func (e *stubExtractor) PageCount(_ context.Context, _ string) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	return len(e.pages), nil
}

func (e *stubExtractor) ExtractPage(_ context.Context, _ string, page int) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.pages[page-1], nil
}

func writeTempPDF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessPDF_Deterministic(t *testing.T) {
	pages := []string{
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40),
		strings.Repeat("Pack my box with five dozen liquor jugs. ", 40),
	}
	svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 300, OverlapSize: 50},
		&stubExtractor{pages: pages}, nil)
	path := writeTempPDF(t, "raw pdf bytes")

	first, err := svc.ProcessPDF(context.Background(), path)
	require.NoError(t, err)
	second, err := svc.ProcessPDF(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first.ContentHash, second.ContentHash)
	require.Equal(t, len(first.Chunks), len(second.Chunks))
	for i := range first.Chunks {
		assert.Equal(t, first.Chunks[i].Content, second.Chunks[i].Content)
		assert.Equal(t, i, first.Chunks[i].Seq)
	}
}

func TestProcessPDF_ChunkBounds(t *testing.T) {
	const window, overlap = 200, 40
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit. ", 30)
	svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: window, OverlapSize: overlap},
		&stubExtractor{pages: []string{text}}, nil)

	doc, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "bytes"))
	require.NoError(t, err)
	require.Greater(t, len(doc.Chunks), 1)

	for _, chunk := range doc.Chunks {
		assert.LessOrEqual(t, len(chunk.Content), window)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Content))
	}
	// Consecutive chunks share text: each chunk starts with the tail of
	// its predecessor
	for i := 1; i < len(doc.Chunks); i++ {
		prev := doc.Chunks[i-1].Content
		require.GreaterOrEqual(t, len(prev), overlap)
		assert.True(t, strings.HasPrefix(doc.Chunks[i].Content, prev[len(prev)-overlap:]),
			"chunk %d does not overlap its predecessor", i)
	}
}

func TestProcessPDF_ShortDocumentSingleChunk(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 1000, OverlapSize: 100},
		&stubExtractor{pages: []string{"My name is John."}}, nil)

	doc, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "bytes"))
	require.NoError(t, err)
	require.Len(t, doc.Chunks, 1)
	assert.Equal(t, "My name is John.", doc.Chunks[0].Content)
	assert.Equal(t, 0, doc.Chunks[0].Seq)
	assert.Equal(t, 1, doc.Chunks[0].Page)
}

func TestProcessPDF_PageAttribution(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 60, OverlapSize: 10},
		&stubExtractor{pages: []string{
			strings.Repeat("first page sentence. ", 5),
			strings.Repeat("second page sentence. ", 5),
		}}, nil)

	doc, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "bytes"))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Chunks[0].Page)
	assert.Equal(t, 2, doc.Chunks[len(doc.Chunks)-1].Page)
	assert.Equal(t, 2, doc.TotalPages)
}

func TestProcessPDF_MissingFile(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{},
		&stubExtractor{pages: []string{"text"}}, nil)

	_, err := svc.ProcessPDF(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, types.ErrUnreadableDocument)
}

func TestProcessPDF_ExtractionFailure(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{},
		&stubExtractor{err: errors.New("not a pdf")}, nil)

	_, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "not a pdf at all"))
	assert.ErrorIs(t, err, types.ErrUnreadableDocument)
}

func TestProcessPDF_NoExtractableText(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{},
		&stubExtractor{pages: []string{"", "  "}}, nil)

	_, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "scanned images only"))
	assert.ErrorIs(t, err, types.ErrUnreadableDocument)
}

func TestProcessPDF_HashTracksContent(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{},
		&stubExtractor{pages: []string{"same text"}}, nil)

	a, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "version one"))
	require.NoError(t, err)
	b, err := svc.ProcessPDF(context.Background(), writeTempPDF(t, "version two"))
	require.NoError(t, err)

	// Same file name, different bytes: the hash must tell them apart
	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}

func TestCleanText_Deterministic(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{}, &stubExtractor{}, nil)

	first := svc.cleanText("a \r b")
	assert.Equal(t, "a b", first)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, svc.cleanText("a \r b"))
	}
}

func TestCleanText_StripsControlCharacters(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{}, &stubExtractor{}, nil)

	assert.Equal(t, "hello world", svc.cleanText("hel\x00lo\x1b �  world\r"))
	assert.Equal(t, "one\ntwo", svc.cleanText("one\ftwo"))
	assert.Equal(t, "a b c", svc.cleanText("a    b  c"))
}

func TestGetFileNameWithoutExt(t *testing.T) {
	assert.Equal(t, "report", GetFileNameWithoutExt("/tmp/uploads/report.pdf"))
	assert.Equal(t, "report", GetFileNameWithoutExt("report.pdf"))
	assert.Equal(t, "archive.tar", GetFileNameWithoutExt("archive.tar.gz"))
}
