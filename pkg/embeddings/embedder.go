// Package embeddings provides text embedding for the semantic detection
// fallback. A real OpenAI-backed embedder and a deterministic TF-IDF mock
// share one interface; the mock keeps the cascade fully offline-capable.
package embeddings

import (
	"context"
)

// Embedder converts text to a vector representation.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Config holds embedder configuration.
type Config struct {
	Model     string `json:"model" yaml:"model"`
	Dimension int    `json:"dimension" yaml:"dimension"`
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`
}

// DefaultConfig returns the default embedding configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:     "text-embedding-3-small",
		Dimension: 512,
		MaxTokens: 8192,
	}
}
