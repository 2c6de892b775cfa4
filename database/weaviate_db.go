package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docuchat/pdf-gpt-be/config"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "SessionChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "namespace", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "seq", DataType: []string{"int"}},
			{Name: "page", DataType: []string{"int"}},
		},
		// Vectors are computed by the embedding service, not by Weaviate
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore implements VectorIndex on a hosted Weaviate cluster. All
// chunks live in one class; session isolation is a filter on the namespace
// property.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create %s class: %v", CHUNK_CLASS, err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

// ReInit drops and recreates the chunk class. Destroys every namespace.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete %s class: %v", CHUNK_CLASS, err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create %s class: %v", CHUNK_CLASS, err)
	}
	return nil
}

func (s *WeaviateStore) Upsert(ctx context.Context, namespace string, chunks []types.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", types.ErrIndexWriteFailed, len(chunks), len(vectors))
	}
	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"content":   chunks[j].Content,
				"namespace": namespace,
				"title":     chunks[j].Metadata.Title,
				"source":    chunks[j].Metadata.Source,
				"seq":       chunks[j].Seq,
				"page":      chunks[j].Page,
			}
			batcher = batcher.WithObjects(&models.Object{
				Class:      CHUNK_CLASS,
				Properties: properties,
				Vector:     vectors[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("%w: batch %d-%d: %v", types.ErrIndexWriteFailed, i, end, err)
		}
	}

	return nil
}

func (s *WeaviateStore) Query(ctx context.Context, namespace string, vector []float32, k int) ([]types.ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "title"},
		{Name: "source"},
		{Name: "seq"},
		{Name: "page"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)
	where := filters.Where().
		WithPath([]string{"namespace"}).
		WithOperator(filters.Equal).
		WithValueString(namespace)

	result, err := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("query failed: %v", result.Errors[0].Message)
	}

	data := make(map[string]interface{}, len(result.Data))
	for k, v := range result.Data {
		data[k] = v
	}
	scored := parseScoredChunks(data)
	// Weaviate orders by distance already; re-sort so equal scores keep the
	// original chunk order
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Seq < scored[j].Chunk.Seq
	})
	return scored, nil
}

// parseScoredChunks reads the GraphQL Get result. Objects with a missing or
// null content field are skipped rather than failing the whole query.
func parseScoredChunks(data map[string]interface{}) []types.ScoredChunk {
	get, _ := data["Get"].(map[string]interface{})
	items, _ := get[CHUNK_CLASS].([]interface{})

	var scored []types.ScoredChunk
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		content, ok := obj["content"].(string)
		if !ok {
			continue
		}
		chunk := types.DocumentChunk{Content: content}
		if seq, ok := obj["seq"].(float64); ok {
			chunk.Seq = int(seq)
		}
		if page, ok := obj["page"].(float64); ok {
			chunk.Page = int(page)
		}
		if title, ok := obj["title"].(string); ok {
			chunk.Metadata.Title = title
		}
		if source, ok := obj["source"].(string); ok {
			chunk.Metadata.Source = source
		}
		chunk.Metadata.PageNum = chunk.Page

		var score float32
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				// cosine distance -> similarity
				score = 1 - float32(distance)
			}
		}
		scored = append(scored, types.ScoredChunk{Chunk: chunk, Score: score})
	}
	return scored
}

func (s *WeaviateStore) Clear(ctx context.Context, namespace string) error {
	where := filters.Where().
		WithPath([]string{"namespace"}).
		WithOperator(filters.Equal).
		WithValueString(namespace)

	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(CHUNK_CLASS).
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: clear namespace %s: %v", types.ErrIndexWriteFailed, namespace, err)
	}
	return nil
}
