package embeddings

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder implements Embedder over OpenAI's embedding API.
type OpenAIEmbedder struct {
	client *openai.Client
	config *Config
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder. The API key comes
// from OPENAI_API_KEY.
func NewOpenAIEmbedder(config *Config) (*OpenAIEmbedder, error) {
	if config == nil {
		config = DefaultConfig()
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		config: config,
	}, nil
}

// EmbedText converts text to a vector using the embedding API.
func (o *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len(text) > o.config.MaxTokens*4 {
		text = truncateText(text, o.config.MaxTokens)
	}

	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	}
	if o.config.Model != "" {
		req.Model = openai.EmbeddingModel(o.config.Model)
	}

	resp, err := o.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := resp.Data[0].Embedding
	result := make([]float32, len(embedding))
	for i, v := range embedding {
		result[i] = float32(v)
	}
	return result, nil
}

// truncateText cuts text to roughly maxTokens at a word boundary.
// Approximation: 4 characters per token.
func truncateText(text string, maxTokens int) string {
	maxChars := maxTokens * 4
	if len(text) <= maxChars {
		return text
	}
	truncated := text[:maxChars]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return truncated
}
