package database

import (
	"context"
	"testing"

	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(seq int, content string) types.DocumentChunk {
	return types.DocumentChunk{Content: content, Seq: seq}
}

func TestMemoryStore_NamespaceIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice",
		[]types.DocumentChunk{chunk(0, "alice doc")},
		[][]float32{{1, 0}}))
	require.NoError(t, store.Upsert(ctx, "bob",
		[]types.DocumentChunk{chunk(0, "bob doc")},
		[][]float32{{1, 0}}))

	results, err := store.Query(ctx, "alice", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice doc", results[0].Chunk.Content)
}

func TestMemoryStore_UnknownNamespaceIsEmpty(t *testing.T) {
	store := NewMemoryStore()

	results, err := store.Query(context.Background(), "nobody", []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_TieBrokenByChunkOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Two chunks with identical vectors score the same; the lower Seq must
	// come first
	require.NoError(t, store.Upsert(ctx, "ns",
		[]types.DocumentChunk{chunk(0, "first"), chunk(1, "second"), chunk(2, "weak")},
		[][]float32{{1, 0}, {1, 0}, {0.5, 0.9}}))

	results, err := store.Query(ctx, "ns", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Chunk.Content)
	assert.Equal(t, "second", results[1].Chunk.Content)
	assert.Equal(t, "weak", results[2].Chunk.Content)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Greater(t, results[0].Score, results[2].Score)
}

func TestMemoryStore_LimitsToK(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	chunks := make([]types.DocumentChunk, 10)
	vectors := make([][]float32, 10)
	for i := range chunks {
		chunks[i] = chunk(i, "chunk")
		vectors[i] = []float32{1, float32(i)}
	}
	require.NoError(t, store.Upsert(ctx, "ns", chunks, vectors))

	results, err := store.Query(ctx, "ns", []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestMemoryStore_ClearThenUpsertReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ns",
		[]types.DocumentChunk{chunk(0, "old document")},
		[][]float32{{1, 0}}))
	require.NoError(t, store.Clear(ctx, "ns"))
	require.NoError(t, store.Upsert(ctx, "ns",
		[]types.DocumentChunk{chunk(0, "new document")},
		[][]float32{{1, 0}}))

	results, err := store.Query(ctx, "ns", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new document", results[0].Chunk.Content)
}

func TestMemoryStore_UpsertLengthMismatch(t *testing.T) {
	store := NewMemoryStore()

	err := store.Upsert(context.Background(), "ns",
		[]types.DocumentChunk{chunk(0, "a"), chunk(1, "b")},
		[][]float32{{1, 0}})
	assert.ErrorIs(t, err, types.ErrIndexWriteFailed)
}
