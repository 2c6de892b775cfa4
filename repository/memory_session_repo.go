package repository

import (
	"context"
	"sync"
	"time"

	"github.com/docuchat/pdf-gpt-be/types"
)

type memoryRecord struct {
	state    types.SessionState
	expireAt time.Time
}

// MemorySessionStore keeps session state in process memory. Used when no
// MongoDB URI is configured, and in tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryRecord
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryRecord),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*types.SessionState, error) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(record.expireAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, types.ErrSessionExpired
	}
	state := record.state
	return &state, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, state *types.SessionState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = memoryRecord{
		state:    *state,
		expireAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
