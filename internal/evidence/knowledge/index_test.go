package knowledge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civreg/pkg/platform/sentinel"
)

// keywordEmbedder scores texts on a fixed vocabulary.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

var vocabulary = []string{"document", "fraud", "deadline"}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, len(vocabulary))
		for j, word := range vocabulary {
			v[j] = float32(strings.Count(strings.ToLower(text), word))
		}
		out[i] = v
	}
	return out, nil
}

func quietBuilder(t *testing.T, e Embedder, opts ...BuilderOption) *Builder {
	t.Helper()
	opts = append(opts, WithBuilderLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	b, err := NewBuilder(e, opts...)
	require.NoError(t, err)
	return b
}

func TestNewBuilderRequiresEmbedder(t *testing.T) {
	_, err := NewBuilder(nil)
	require.Error(t, err)
}

func TestBuildEmbedsEveryChunkInOrder(t *testing.T) {
	embedder := &keywordEmbedder{}
	b := quietBuilder(t, embedder, WithChunking(30, 0), WithBatching(1, 2), WithModelName("test"))

	idx, err := b.Build(context.Background(), []string{
		"rules.document: national id",
		"rules.fraud: duplicate record",
		"rules.deadline: 30 days",
	})
	require.NoError(t, err)
	require.Len(t, idx.Chunks, 3)
	assert.Equal(t, "test", idx.Model)
	assert.Equal(t, "rules.document: national id", idx.Chunks[0].Text)
	assert.Equal(t, []float32{0, 1, 0}, idx.Chunks[1].Vector)
	assert.Equal(t, 3, embedder.calls)
}

func TestBuildPropagatesEmbedFailure(t *testing.T) {
	b := quietBuilder(t, &keywordEmbedder{err: sentinel.ErrUnavailable})
	_, err := b.Build(context.Background(), []string{"rules.document: x"})
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestEnsureIndexBuiltSkipsExistingArtifact(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(source, []byte("rules:\n  document: national id\n  fraud: duplicates\n"), 0o600))
	indexPath := filepath.Join(dir, "index", "knowledge.json")

	embedder := &keywordEmbedder{}
	b := quietBuilder(t, embedder)

	idx, built, err := b.EnsureIndexBuilt(context.Background(), source, indexPath)
	require.NoError(t, err)
	assert.True(t, built)
	require.Len(t, idx.Chunks, 1)
	assert.Equal(t, "rules.document: national id\nrules.fraud: duplicates", idx.Chunks[0].Text)
	calls := embedder.calls

	again, built, err := b.EnsureIndexBuilt(context.Background(), source, indexPath)
	require.NoError(t, err)
	assert.False(t, built)
	assert.Equal(t, idx, again)
	assert.Equal(t, calls, embedder.calls, "existing artifact is not re-embedded")
}

func TestEnsureIndexBuiltMissingSource(t *testing.T) {
	b := quietBuilder(t, &keywordEmbedder{})
	_, _, err := b.EnsureIndexBuilt(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), filepath.Join(t.TempDir(), "i.json"))
	require.Error(t, err)
}

func TestRetrieverQuery(t *testing.T) {
	idx := &Index{Chunks: []Chunk{
		{Text: "deadline rule", Vector: []float32{0, 0, 1}},
		{Text: "document rule", Vector: []float32{1, 0, 0}},
		{Text: "fraud rule", Vector: []float32{0, 1, 0}},
		{Text: "document and fraud", Vector: []float32{1, 1, 0}},
	}}
	r, err := NewRetriever(idx, &keywordEmbedder{})
	require.NoError(t, err)

	got, err := r.Query(context.Background(), "Required documents", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"document rule", "document and fraud"}, got)

	got, err = r.Query(context.Background(), "fraud", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultTopK)
	assert.Equal(t, "fraud rule", got[0])

	got, err = r.Query(context.Background(), "fraud", 10)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestRetrieverQueryFailure(t *testing.T) {
	idx := &Index{Chunks: []Chunk{{Text: "x", Vector: []float32{1, 0, 0}}}}
	r, err := NewRetriever(idx, &keywordEmbedder{err: errors.New("boom")})
	require.NoError(t, err)

	_, err = r.Query(context.Background(), "fraud", 3)
	require.Error(t, err)

	_, err = NewRetriever(nil, &keywordEmbedder{})
	require.Error(t, err)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.Zero(t, cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 2}))
}
