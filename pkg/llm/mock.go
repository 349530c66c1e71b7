package llm

import (
	"context"
	"sync"

	"github.com/drift-line/nlcmd/core"
)

// MockClient returns scripted responses in order. Once the script runs out
// it keeps returning the last entry. Used in tests and offline demos.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

var _ core.LLMClient = (*MockClient)(nil)

// NewMockClient creates a mock that replays the given responses.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{responses: responses}
}

// FailWith queues errors returned before any scripted responses.
func (m *MockClient) FailWith(errs ...error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
	return m
}

// Complete replays the next queued error or response.
func (m *MockClient) Complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

// Calls reports how many times Complete ran.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
