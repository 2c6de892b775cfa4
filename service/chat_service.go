package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/docuchat/pdf-gpt-be/repository"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService is the session manager: it tracks which document is indexed
// for a session, the running conversation history and the selected model,
// and orchestrates ingest, retrieval, prompt composition and generation for
// each request.
//
// Requests for one session are serialized by a per-session mutex; requests
// for different sessions run concurrently. The session store itself is
// last-write-wins across processes.
type ChatService struct {
	pdfService   *PDFService
	indexService *IndexService
	generator    Generator
	store        repository.SessionStore
	ttl          time.Duration
	logger       *zap.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is refcounted so the locks map does not grow with session
// churn: the entry is dropped when the last holder unlocks.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewChatService(
	pdfService *PDFService,
	indexService *IndexService,
	generator Generator,
	store repository.SessionStore,
	ttl time.Duration,
	logger *zap.Logger,
) *ChatService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		pdfService:   pdfService,
		indexService: indexService,
		generator:    generator,
		store:        store,
		ttl:          ttl,
		logger:       logger,
	}
}

// SubmitQuestion handles one chat request. pdfPath is empty when no file
// was uploaded with the request. A session id is assigned when sessionID is
// empty. Returns the assistant's answer and the persisted session state.
func (s *ChatService) SubmitQuestion(ctx context.Context, sessionID, pdfPath, question string) (string, *types.SessionState, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	unlock := s.lockSession(sessionID)
	defer unlock()

	state := s.loadState(ctx, sessionID)

	if pdfPath != "" {
		doc, err := s.pdfService.ProcessPDF(ctx, pdfPath)
		if err != nil {
			return "", nil, err
		}
		// Re-uploading the same bytes keeps the index and the history; a
		// different document replaces the index and discards the history
		if doc.ContentHash != state.DocumentHash {
			if err := s.indexService.BuildIndex(ctx, sessionID, doc); err != nil {
				return "", nil, err
			}
			state.DocumentHash = doc.ContentHash
			state.DocumentTitle = doc.Title
			state.History = nil
			s.persist(ctx, state)
		}
	}

	if !state.Ready() {
		return "", nil, types.ErrNoDocument
	}
	if strings.TrimSpace(question) == "" {
		return "", nil, types.ErrEmptyQuestion
	}

	chunks, err := s.indexService.Retrieve(ctx, sessionID, question, 0)
	if err != nil {
		return "", nil, err
	}

	prompt := ComposePrompt(chunks, question, state.History)
	answer, err := s.generator.Generate(ctx, prompt, state.Model)
	if err != nil {
		return "", nil, err
	}

	state.AppendTurn(types.RoleUser, question)
	state.AppendTurn(types.RoleAssistant, answer)
	s.persist(ctx, state)

	return answer, state, nil
}

// Reset drops the session's index and history and hands out a fresh
// session id, so a stale reference to the old id finds an empty session.
func (s *ChatService) Reset(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		unlock := s.lockSession(sessionID)
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("failed to delete session state", zap.String("session", sessionID), zap.Error(err))
		}
		err := s.indexService.ClearNamespace(ctx, sessionID)
		unlock()
		if err != nil {
			return "", err
		}
	}
	return uuid.NewString(), nil
}

// SelectModel changes the session's active model. Index and history are
// untouched.
func (s *ChatService) SelectModel(ctx context.Context, sessionID, model string) (*types.SessionState, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	unlock := s.lockSession(sessionID)
	defer unlock()

	state := s.loadState(ctx, sessionID)
	state.Model = model
	s.persist(ctx, state)
	return state, nil
}

// History returns the persisted state for a session, empty when unknown or
// expired.
func (s *ChatService) History(ctx context.Context, sessionID string) *types.SessionState {
	unlock := s.lockSession(sessionID)
	defer unlock()
	return s.loadState(ctx, sessionID)
}

// loadState treats a missing, expired or unreadable session record as a
// fresh empty session.
func (s *ChatService) loadState(ctx context.Context, sessionID string) *types.SessionState {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, types.ErrSessionExpired) {
		s.logger.Warn("failed to load session state", zap.String("session", sessionID), zap.Error(err))
	}
	if state == nil {
		state = &types.SessionState{ID: sessionID}
	}
	return state
}

func (s *ChatService) persist(ctx context.Context, state *types.SessionState) {
	state.UpdatedAt = time.Now()
	if err := s.store.Put(ctx, state, s.ttl); err != nil {
		s.logger.Warn("failed to persist session state", zap.String("session", state.ID), zap.Error(err))
	}
}

func (s *ChatService) lockSession(id string) func() {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*sessionLock)
	}
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}
