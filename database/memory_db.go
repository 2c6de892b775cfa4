package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docuchat/pdf-gpt-be/types"
)

type memoryEntry struct {
	chunk  types.DocumentChunk
	vector []float32
}

// MemoryStore is an in-memory VectorIndex using brute-force cosine
// similarity. Namespaces are fully independent; there is no shared state
// between them beyond the map itself.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string][]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string][]memoryEntry),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, namespace string, chunks []types.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", types.ErrIndexWriteFailed, len(chunks), len(vectors))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.namespaces[namespace]
	for i := range chunks {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %d", types.ErrIndexWriteFailed, chunks[i].Seq)
		}
		entries = append(entries, memoryEntry{chunk: chunks[i], vector: vectors[i]})
	}
	s.namespaces[namespace] = entries
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, namespace string, vector []float32, k int) ([]types.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.namespaces[namespace]
	if len(entries) == 0 {
		return nil, nil
	}

	scored := make([]types.ScoredChunk, 0, len(entries))
	for _, e := range entries {
		scored = append(scored, types.ScoredChunk{
			Chunk: e.chunk,
			Score: cosineSimilarity(e.vector, vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Seq < scored[j].Chunk.Seq
	})
	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *MemoryStore) Clear(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
