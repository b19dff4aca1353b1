package embeddings

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Loader constructs the model behind a configuration
type Loader func(ctx context.Context, cfg Config) (embeddings.Embedder, error)

// LoadModel builds a langchaingo embedder for the configured provider
func LoadModel(ctx context.Context, cfg Config) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case ProviderHash:
		return NewHashEmbedder(cfg.HashDimension), nil

	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.Host != "" {
			opts = append(opts, ollama.WithServerURL(cfg.Host))
		}
		client, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating ollama client: %w", err)
		}
		return newEmbedder(client, cfg)

	case ProviderOpenAI:
		token := cfg.Token
		if token == "" {
			token = "none"
		}
		opts := []openai.Option{
			openai.WithToken(token),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.Host != "" {
			opts = append(opts, openai.WithBaseURL(cfg.Host))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating openai client: %w", err)
		}
		return newEmbedder(client, cfg)
	}
	return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
}

func newEmbedder(client embeddings.EmbedderClient, cfg Config) (embeddings.Embedder, error) {
	opts := []embeddings.Option{embeddings.WithStripNewLines(true)}
	if cfg.BatchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(cfg.BatchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}
