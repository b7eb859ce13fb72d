package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Chunk is one embedded piece of the knowledge base.
type Chunk struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Index is the persisted artifact: the chunks and their embeddings.
type Index struct {
	Model  string  `json:"model,omitempty"`
	Chunks []Chunk `json:"chunks"`
}

type match struct {
	text  string
	score float64
}

// Nearest returns the texts of the topK chunks by cosine similarity.
// Ties keep index order.
func (idx *Index) Nearest(vector []float32, topK int) []string {
	if idx == nil || topK <= 0 {
		return nil
	}
	matches := make([]match, 0, len(idx.Chunks))
	for _, c := range idx.Chunks {
		matches = append(matches, match{text: c.Text, score: cosine(vector, c.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if topK > len(matches) {
		topK = len(matches)
	}
	out := make([]string, 0, topK)
	for _, m := range matches[:topK] {
		out = append(out, m.text)
	}
	return out
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// LoadIndex reads a previously written artifact.
func LoadIndex(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &idx, nil
}

// Save writes the artifact atomically.
func (idx *Index) Save(path string) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Builder embeds a knowledge source into an Index.
type Builder struct {
	embedder    Embedder
	splitter    Splitter
	batchSize   int
	concurrency int
	model       string
	logger      *slog.Logger
}

type BuilderOption func(*Builder)

func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

func WithChunking(size, overlap int) BuilderOption {
	return func(b *Builder) {
		b.splitter = NewSplitter(size, overlap)
	}
}

// WithBatching sets how many chunks go in one embedding request and how
// many requests run at once.
func WithBatching(batchSize, concurrency int) BuilderOption {
	return func(b *Builder) {
		if batchSize > 0 {
			b.batchSize = batchSize
		}
		if concurrency > 0 {
			b.concurrency = concurrency
		}
	}
}

func WithModelName(model string) BuilderOption {
	return func(b *Builder) {
		b.model = model
	}
}

func NewBuilder(embedder Embedder, opts ...BuilderOption) (*Builder, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	b := &Builder{
		embedder:    embedder,
		splitter:    NewSplitter(DefaultChunkSize, DefaultChunkOverlap),
		batchSize:   32,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build splits the flattened lines and embeds every chunk.
func (b *Builder) Build(ctx context.Context, lines []string) (*Index, error) {
	texts := b.splitter.Split(strings.Join(lines, "\n"))
	idx := &Index{Model: b.model, Chunks: make([]Chunk, len(texts))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))
		g.Go(func() error {
			vectors, err := b.embedder.Embed(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), end-start)
			}
			for i, v := range vectors {
				idx.Chunks[start+i] = Chunk{Text: texts[start+i], Vector: v}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("embed knowledge base: %w", err)
	}
	b.logger.InfoContext(ctx, "knowledge index built", "chunks", len(idx.Chunks))
	return idx, nil
}

// EnsureIndexBuilt loads the artifact at indexPath, building and saving it
// from sourcePath first when it does not exist. The bool reports a build.
func (b *Builder) EnsureIndexBuilt(ctx context.Context, sourcePath, indexPath string) (*Index, bool, error) {
	if _, err := os.Stat(indexPath); err == nil {
		idx, err := LoadIndex(indexPath)
		return idx, false, err
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("stat index: %w", err)
	}

	lines, err := LoadSource(sourcePath)
	if err != nil {
		return nil, false, err
	}
	idx, err := b.Build(ctx, lines)
	if err != nil {
		return nil, false, err
	}
	if err := idx.Save(indexPath); err != nil {
		return nil, false, err
	}
	return idx, true, nil
}
