package database

import (
	"context"

	"github.com/docuchat/pdf-gpt-be/types"
)

// VectorIndex is the namespace-isolated vector store used for retrieval.
// A namespace holds the chunks of at most one document; rebuilding a
// namespace must never leave chunks of the previous document queryable.
type VectorIndex interface {
	// Upsert inserts chunks with their embedding vectors under a namespace.
	Upsert(ctx context.Context, namespace string, chunks []types.DocumentChunk, vectors [][]float32) error

	// Query returns up to k chunks ordered by descending similarity, ties
	// broken by the chunks' original sequence. An unknown namespace yields
	// an empty result, not an error.
	Query(ctx context.Context, namespace string, vector []float32, k int) ([]types.ScoredChunk, error)

	// Clear removes every chunk stored under the namespace.
	Clear(ctx context.Context, namespace string) error
}
