// Package llm provides the network client used when the rule pipeline cannot
// answer. All callers go through the limiter guard so transient provider
// failures retry and repeated ones trip the breaker.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/limiter"
)

// Config holds the OpenAI client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig reads settings from the environment.
func DefaultConfig() Config {
	return Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   getEnv("NLCMD_LLM_MODEL", "gpt-4o-mini"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Timeout: 30 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// OpenAIClient implements core.LLMClient over the OpenAI chat API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	guard   *limiter.Guard
	timeout time.Duration
}

var _ core.LLMClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a guarded client. Returns an error when no API key
// is configured so callers can run rules-only instead of failing at call time.
func NewOpenAIClient(cfg Config, guard *limiter.Guard) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if guard == nil {
		guard = limiter.NewGuard(limiter.DefaultGuardConfig(), nil)
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		guard:   guard,
		timeout: cfg.Timeout,
	}, nil
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string { return c.model }

// Complete sends one chat turn and returns the text of the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error) {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	var out string
	err := c.guard.Execute(ctx, c.model, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("completion returned no choices")
		}
		out = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// classifyError wraps provider errors with retryable status codes so the
// retrier can distinguish them from permanent failures.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && limiter.IsRetryableStatus(apiErr.HTTPStatusCode) {
		return limiter.NewTransientError(apiErr.HTTPStatusCode, apiErr.Message)
	}
	return err
}
