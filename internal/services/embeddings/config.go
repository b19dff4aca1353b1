package embeddings

import (
	"errors"
	"fmt"
)

// Provider names accepted in Config.Provider
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderHash   = "hash"
)

// DefaultHashDimension is the vector size of the hash provider
const DefaultHashDimension = 384

// Config selects and configures the embedding model
type Config struct {
	// Provider is one of ollama, openai or hash
	Provider string

	// Model is the model identifier, e.g. "all-minilm" or "text-embedding-3-small"
	Model string

	// Host is the base URL of the embedding service
	Host string

	// Token authenticates against OpenAI-compatible services.
	// Local services accept "none".
	Token string

	// BatchSize bounds the number of texts per request; 0 sends one request
	BatchSize int

	// HashDimension sizes vectors of the hash provider
	HashDimension int
}

// Validate checks that the configuration names a usable provider
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI:
		if c.Model == "" {
			return errors.New("embedding model is required")
		}
	case ProviderHash:
		if c.HashDimension < 0 {
			return fmt.Errorf("invalid hash dimension %d", c.HashDimension)
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Provider)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("invalid batch size %d", c.BatchSize)
	}
	return nil
}

// ModelName identifies the model in the generator cache
func (c *Config) ModelName() string {
	if c.Provider == ProviderHash {
		dim := c.HashDimension
		if dim == 0 {
			dim = DefaultHashDimension
		}
		return fmt.Sprintf("hash-%d", dim)
	}
	return c.Provider + "/" + c.Model
}
