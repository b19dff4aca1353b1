package embeddings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"golang.org/x/sync/singleflight"

	"github.com/killallgit/podscribe/pkg/chunker"
	"github.com/killallgit/podscribe/pkg/transcript"
)

// ErrEmptyEmbedding is returned when the model answers without a vector
var ErrEmptyEmbedding = errors.New("model returned no embedding")

// Generator embeds fragment and query text. Models are loaded on first use,
// once per model name, and reused for the life of the process.
type Generator struct {
	cfg    Config
	loader Loader
	logger *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	models map[string]embeddings.Embedder
	dims   map[string]int
}

// Option configures a Generator
type Option func(*Generator)

// WithLoader replaces the provider based model construction
func WithLoader(loader Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// NewGenerator creates a generator; no model is loaded until first use
func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		cfg:    cfg,
		loader: LoadModel,
		logger: slog.Default().With("component", "embeddings"),
		models: make(map[string]embeddings.Embedder),
		dims:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// ModelName returns the name of the active model
func (g *Generator) ModelName() string {
	return g.cfg.ModelName()
}

func (g *Generator) model(ctx context.Context) (embeddings.Embedder, error) {
	name := g.cfg.ModelName()

	g.mu.RLock()
	m, ok := g.models[name]
	g.mu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, _ := g.group.Do(name, func() (any, error) {
		g.mu.RLock()
		cached, ok := g.models[name]
		g.mu.RUnlock()
		if ok {
			return cached, nil
		}

		g.logger.Info("loading embedding model", "model", name)
		loaded, err := g.loader(ctx, g.cfg)
		if err != nil {
			return nil, fmt.Errorf("loading embedding model %s: %w", name, err)
		}

		g.mu.Lock()
		g.models[name] = loaded
		g.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(embeddings.Embedder), nil
}

// EmbedTexts returns one vector per text, index aligned
func (g *Generator) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	m, err := g.model(ctx)
	if err != nil {
		return nil, err
	}

	batch := g.cfg.BatchSize
	if batch <= 0 {
		batch = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batch {
		end := min(start+batch, len(texts))
		out, err := m.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding texts: %w", err)
		}
		if len(out) != end-start {
			return nil, fmt.Errorf("embedding texts: model returned %d vectors for %d texts", len(out), end-start)
		}
		vectors = append(vectors, out...)
	}

	g.logger.Debug("embedded texts", "count", len(texts))
	return vectors, nil
}

// EmbedQuery embeds free-form query text
func (g *Generator) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m, err := g.model(ctx)
	if err != nil {
		return nil, err
	}
	vector, err := m.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vector) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return vector, nil
}

// Dimension returns the vector size of the active model, probing it once
func (g *Generator) Dimension(ctx context.Context) (int, error) {
	name := g.cfg.ModelName()

	g.mu.RLock()
	dim, ok := g.dims[name]
	g.mu.RUnlock()
	if ok {
		return dim, nil
	}

	probe, err := g.EmbedQuery(ctx, "dimension probe")
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	g.dims[name] = len(probe)
	g.mu.Unlock()
	return len(probe), nil
}

// FragmentEmbeddings chunks t and embeds every fragment; vectors[i] embeds
// fragments[i].Text
func (g *Generator) FragmentEmbeddings(ctx context.Context, t transcript.Transcript, maxWords int) ([][]float32, []chunker.Fragment, error) {
	fragments := chunker.Chunk(t, maxWords)
	if len(fragments) == 0 {
		return nil, nil, nil
	}

	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}

	vectors, err := g.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	return vectors, fragments, nil
}
