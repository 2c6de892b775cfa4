package service

import (
	"context"
	"fmt"

	"github.com/docuchat/pdf-gpt-be/database"
	"github.com/docuchat/pdf-gpt-be/types"
	"go.uber.org/zap"
)

// IndexService builds and queries the per-session vector index.
type IndexService struct {
	embedder Embedder
	index    database.VectorIndex
	topK     int
	logger   *zap.Logger
}

func NewIndexService(embedder Embedder, index database.VectorIndex, topK int, logger *zap.Logger) *IndexService {
	if topK <= 0 {
		topK = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexService{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger,
	}
}

// BuildIndex replaces whatever the namespace currently holds with the
// chunks of doc. The build is atomic: every chunk is embedded before
// anything is written, and a failed write rolls the namespace back to
// empty. The previous document's chunks are never queryable after a
// rebuild starts writing.
func (s *IndexService) BuildIndex(ctx context.Context, namespace string, doc *types.ProcessedDocument) error {
	vectors := make([][]float32, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		vector, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("%w: chunk %d: %w", types.ErrIndexBuildFailed, chunk.Seq, err)
		}
		vectors = append(vectors, vector)
	}

	if err := s.index.Clear(ctx, namespace); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIndexBuildFailed, err)
	}
	if err := s.index.Upsert(ctx, namespace, doc.Chunks, vectors); err != nil {
		// Do not leave a partially written namespace queryable
		if cerr := s.index.Clear(ctx, namespace); cerr != nil {
			s.logger.Error("failed to roll back partial index",
				zap.String("namespace", namespace), zap.Error(cerr))
		}
		return fmt.Errorf("%w: %w", types.ErrIndexBuildFailed, err)
	}

	s.logger.Info("index built",
		zap.String("namespace", namespace),
		zap.String("document", doc.Title),
		zap.Int("chunks", len(doc.Chunks)))
	return nil
}

// Retrieve returns the k most similar chunks for the query, highest score
// first, ties broken by original chunk order. A namespace with no index
// yields an empty result and no error.
func (s *IndexService) Retrieve(ctx context.Context, namespace, query string, k int) ([]types.ScoredChunk, error) {
	if k <= 0 {
		k = s.topK
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.index.Query(ctx, namespace, vector, k)
}

// ClearNamespace drops every chunk stored for the namespace.
func (s *IndexService) ClearNamespace(ctx context.Context, namespace string) error {
	return s.index.Clear(ctx, namespace)
}
