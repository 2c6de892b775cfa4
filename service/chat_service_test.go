package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/docuchat/pdf-gpt-be/database"
	"github.com/docuchat/pdf-gpt-be/repository"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileExtractor treats the whole file as a single page of text, so tests
// can write plain text files and chat about them.
type fileExtractor struct{}

func (fileExtractor) PageCount(_ context.Context, _ string) (int, error) { return 1, nil }

func (fileExtractor) ExtractPage(_ context.Context, path string, _ int) (string, error) {
	raw, err := os.ReadFile(path)
	return string(raw), err
}

// echoGenerator records every call and answers with the full prompt, so
// tests can assert what reached the model.
type echoGenerator struct {
	prompts []string
	models  []string
}

func (g *echoGenerator) Generate(_ context.Context, prompt, model string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.models = append(g.models, model)
	return prompt, nil
}

func newTestChatService(gen Generator) *ChatService {
	pdf := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 200, OverlapSize: 20},
		fileExtractor{}, nil)
	index := NewIndexService(&fakeEmbedder{}, database.NewMemoryStore(), 4, nil)
	return NewChatService(pdf, index, gen, repository.NewMemorySessionStore(), 0, nil)
}

func TestSubmitQuestion_NoDocument(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)

	_, _, err := svc.SubmitQuestion(context.Background(), "s1", "", "What is this about?")
	assert.ErrorIs(t, err, types.ErrNoDocument)
	assert.Empty(t, gen.prompts, "no generation without a document")
}

func TestSubmitQuestion_EmptyQuestion(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	path := writeTempPDF(t, "My name is John.")

	_, _, err := svc.SubmitQuestion(context.Background(), "s1", path, "   \t  ")
	assert.ErrorIs(t, err, types.ErrEmptyQuestion)
	assert.Empty(t, gen.prompts, "no generation for a blank question")
}

func TestSubmitQuestion_AnswersFromDocument(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	path := writeTempPDF(t, "My name is John.")

	answer, state, err := svc.SubmitQuestion(context.Background(), "", path, "What is my name?")
	require.NoError(t, err)

	assert.Contains(t, answer, "John", "retrieved document content must reach the model")
	assert.Contains(t, answer, "What is my name?")
	require.NotNil(t, state)
	assert.NotEmpty(t, state.ID, "an id is assigned when none is given")
	assert.True(t, state.Ready())
	require.Len(t, state.History, 2)
	assert.Equal(t, types.RoleUser, state.History[0].Role)
	assert.Equal(t, "What is my name?", state.History[0].Content)
	assert.Equal(t, types.RoleAssistant, state.History[1].Role)
}

func TestSubmitQuestion_FollowUpSeesHistory(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()
	path := writeTempPDF(t, "My name is John.")

	_, state, err := svc.SubmitQuestion(ctx, "s1", path, "What is my name?")
	require.NoError(t, err)
	require.Len(t, state.History, 2)

	_, state, err = svc.SubmitQuestion(ctx, "s1", "", "Spell it backwards")
	require.NoError(t, err)
	require.Len(t, state.History, 4)
	// The second prompt carries the first exchange
	assert.Contains(t, gen.prompts[1], "user: What is my name?")
}

func TestSubmitQuestion_NewDocumentResetsSession(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()

	first := writeTempPDF(t, "My name is John.")
	_, state, err := svc.SubmitQuestion(ctx, "s1", first, "What is my name?")
	require.NoError(t, err)
	firstHash := state.DocumentHash
	require.Len(t, state.History, 2)

	second := writeTempPDF(t, "The capital of France is Paris.")
	answer, state, err := svc.SubmitQuestion(ctx, "s1", second, "What is the capital?")
	require.NoError(t, err)

	assert.NotEqual(t, firstHash, state.DocumentHash)
	require.Len(t, state.History, 2, "history restarts with the new document")
	assert.Equal(t, "What is the capital?", state.History[0].Content)
	assert.Contains(t, answer, "Paris")
	assert.NotContains(t, answer, "John", "old document chunks are gone after replacement")
}

func TestSubmitQuestion_SameBytesKeepHistory(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()
	path := writeTempPDF(t, "My name is John.")

	_, _, err := svc.SubmitQuestion(ctx, "s1", path, "What is my name?")
	require.NoError(t, err)

	// Re-uploading the identical file is not a new document
	_, state, err := svc.SubmitQuestion(ctx, "s1", path, "Say it again")
	require.NoError(t, err)
	require.Len(t, state.History, 4)
	assert.Equal(t, "What is my name?", state.History[0].Content)
}

func TestReset(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()
	path := writeTempPDF(t, "My name is John.")

	_, state, err := svc.SubmitQuestion(ctx, "s1", path, "What is my name?")
	require.NoError(t, err)
	require.True(t, state.Ready())

	fresh, err := svc.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, fresh)
	assert.NotEqual(t, "s1", fresh)

	// The old id now behaves like a brand new session
	_, _, err = svc.SubmitQuestion(ctx, "s1", "", "What is my name?")
	assert.ErrorIs(t, err, types.ErrNoDocument)
}

func TestSelectModel(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()
	path := writeTempPDF(t, "My name is John.")

	_, _, err := svc.SubmitQuestion(ctx, "s1", path, "What is my name?")
	require.NoError(t, err)

	state, err := svc.SelectModel(ctx, "s1", "gemini-1.5-pro")
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", state.Model)
	assert.Len(t, state.History, 2, "model switch keeps the conversation")
	assert.True(t, state.Ready(), "model switch keeps the index")

	_, _, err = svc.SubmitQuestion(ctx, "s1", "", "And my name?")
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", gen.models[len(gen.models)-1])
}

func TestSessionLocksAreReleased(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()
	path := writeTempPDF(t, "My name is John.")

	_, _, err := svc.SubmitQuestion(ctx, "s1", path, "What is my name?")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := "s1"
			if i%2 == 0 {
				session = "s2"
			}
			svc.SubmitQuestion(ctx, session, "", "Another question")
		}(i)
	}
	wg.Wait()

	// Idle sessions must not pin a lock entry
	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
}

func TestHistory(t *testing.T) {
	gen := &echoGenerator{}
	svc := newTestChatService(gen)
	ctx := context.Background()
	path := writeTempPDF(t, "My name is John.")

	_, _, err := svc.SubmitQuestion(ctx, "s1", path, "What is my name?")
	require.NoError(t, err)

	state := svc.History(ctx, "s1")
	require.NotNil(t, state)
	assert.Len(t, state.History, 2)

	unknown := svc.History(ctx, "never-seen")
	require.NotNil(t, unknown)
	assert.Empty(t, unknown.History)
	assert.False(t, unknown.Ready())
}
