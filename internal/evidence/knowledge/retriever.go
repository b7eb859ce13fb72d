package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const DefaultTopK = 3

// Retriever answers similarity queries over a loaded Index.
type Retriever struct {
	index    *Index
	embedder Embedder
}

func NewRetriever(index *Index, embedder Embedder) (*Retriever, error) {
	if index == nil {
		return nil, errors.New("index is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	return &Retriever{index: index, embedder: embedder}, nil
}

// Query embeds query and returns up to topK chunks, most similar first.
// A non-positive topK uses DefaultTopK.
func (r *Retriever) Query(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if strings.TrimSpace(query) == "" || len(r.index.Chunks) == 0 {
		return []string{}, nil
	}
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}
	return r.index.Nearest(vectors[0], topK), nil
}
