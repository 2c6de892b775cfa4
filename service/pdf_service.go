package service

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/docuchat/pdf-gpt-be/types"
	"go.uber.org/zap"
)

// TextExtractor pulls raw text out of a PDF file, page by page.
type TextExtractor interface {
	PageCount(ctx context.Context, path string) (int, error)
	ExtractPage(ctx context.Context, path string, page int) (string, error)
}

// PDFService turns a PDF file into the ordered chunk sequence used for
// indexing. Chunking is deterministic: the same file, window size and
// overlap always produce the same chunks.
type PDFService struct {
	extractor    TextExtractor
	maxChunkSize int // Maximum size of each text chunk
	overlapSize  int // Size of overlap between chunks
	logger       *zap.Logger
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 1000,
	OverlapSize:  100,
}

// NewPDFService creates a new PDF service with configurable chunk sizes
func NewPDFService(config types.DocumentServiceConfig, extractor TextExtractor, logger *zap.Logger) *PDFService {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultDocumentServiceConfig.MaxChunkSize
	}
	if config.OverlapSize < 0 || config.OverlapSize >= config.MaxChunkSize {
		config.OverlapSize = DefaultDocumentServiceConfig.OverlapSize
	}
	if extractor == nil {
		extractor = &PopplerExtractor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFService{
		extractor:    extractor,
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
		logger:       logger,
	}
}

// ProcessPDF reads and chunks a PDF file. The returned document carries a
// sha256 content hash so callers can tell a re-upload of the same bytes
// from a genuinely new document.
func (s *PDFService) ProcessPDF(ctx context.Context, filePath string) (*types.ProcessedDocument, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnreadableDocument, err)
	}
	hash := sha256.Sum256(raw)

	totalPages, err := s.extractor.PageCount(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnreadableDocument, err)
	}

	// Concatenate the cleaned page texts, remembering where each page
	// starts so chunks can be attributed to a page
	var builder strings.Builder
	pageStarts := make([]int, 0, totalPages)
	pageNums := make([]int, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := s.extractor.ExtractPage(ctx, filePath, pageNum)
		if err != nil {
			s.logger.Warn("failed to extract text from page",
				zap.Int("page", pageNum), zap.Error(err))
			continue // Skip failed pages instead of returning error
		}
		text = s.cleanText(text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString(" ")
		}
		pageStarts = append(pageStarts, builder.Len())
		pageNums = append(pageNums, pageNum)
		builder.WriteString(text)
	}

	fullText := builder.String()
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("%w: no extractable text", types.ErrUnreadableDocument)
	}

	title := GetFileNameWithoutExt(filePath)
	doc := &types.ProcessedDocument{
		Title:       title,
		Source:      filePath,
		ContentHash: hex.EncodeToString(hash[:]),
		TotalPages:  totalPages,
	}
	for i, span := range s.splitText(fullText) {
		page := pageForOffset(pageStarts, pageNums, span.start)
		doc.Chunks = append(doc.Chunks, types.DocumentChunk{
			Content: fullText[span.start:span.end],
			Seq:     i,
			Page:    page,
			Metadata: types.DocumentMetadata{
				Title:      title + ".pdf",
				Source:     filePath,
				PageNum:    page,
				TotalPages: totalPages,
			},
		})
	}
	return doc, nil
}

type span struct {
	start, end int
}

// splitText cuts text into overlapping windows of at most maxChunkSize
// characters. Windows prefer to end at a sentence boundary, falling back to
// a word boundary, and successive windows share overlapSize characters.
func (s *PDFService) splitText(text string) []span {
	textLen := len(text)
	if textLen <= s.maxChunkSize {
		return []span{{0, textLen}}
	}

	var spans []span
	currentPos := 0
	for currentPos < textLen {
		chunkEnd := currentPos + s.maxChunkSize
		if chunkEnd >= textLen {
			if strings.TrimSpace(text[currentPos:]) != "" {
				spans = append(spans, span{currentPos, textLen})
			}
			break
		}

		// Find nearest sentence end
		sentenceEnd := chunkEnd
		for i := chunkEnd - 1; i > currentPos; i-- {
			if text[i] == '.' || text[i] == '?' || text[i] == '!' {
				sentenceEnd = i + 1
				break
			}
		}

		// If no sentence end found, use word boundary
		if sentenceEnd == chunkEnd {
			for i := chunkEnd - 1; i > currentPos; i-- {
				if text[i] == ' ' {
					sentenceEnd = i
					break
				}
			}
		}

		if strings.TrimSpace(text[currentPos:sentenceEnd]) != "" {
			spans = append(spans, span{currentPos, sentenceEnd})
		}

		// Step back by the overlap, but always make forward progress
		next := sentenceEnd - s.overlapSize
		if next <= currentPos {
			next = sentenceEnd
		}
		currentPos = next
	}

	return spans
}

func pageForOffset(pageStarts, pageNums []int, offset int) int {
	if len(pageStarts) == 0 {
		return 1
	}
	// Index of the last page starting at or before offset
	i := sort.SearchInts(pageStarts, offset+1)
	if i == 0 {
		return pageNums[0]
	}
	return pageNums[i-1]
}

// GetFileNameWithoutExt extracts filename without extension from a file path
func GetFileNameWithoutExt(filepath string) string {
	base := filepath[strings.LastIndex(filepath, "/")+1:]
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return base
}

// Applied in declaration order, so identical input always cleans to the
// same output.
var textCleaner = strings.NewReplacer(
	"\u0000", "", // null character
	"\ufffd", "", // unicode replacement character
	"\u001b", "", // escape character
	"\r", "", // carriage return
	"\f", "\n", // form feed to newline
)

var multiSpaceRe = regexp.MustCompile(` {2,}`)

func (s *PDFService) cleanText(text string) string {
	cleaned := textCleaner.Replace(text)
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// PopplerExtractor shells out to the poppler utilities (pdfinfo and
// pdftotext) for text extraction.
type PopplerExtractor struct{}

var pagesRe = regexp.MustCompile(`Pages:\s+(\d+)`)

func (e *PopplerExtractor) PageCount(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", path)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		if matches := pagesRe.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}

	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

func (e *PopplerExtractor) ExtractPage(ctx context.Context, path string, page int) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-enc", "UTF-8", "-nopgbrk",
		path, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext for page %d: %v", page, err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("got nothing at page %d", page)
	}
	return text, nil
}
