// Package tokens counts prompt and completion tokens per model. Counts feed
// the cost calculator and the energy estimator.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates the number of tokens in a piece of text.
type Counter interface {
	Count(text string) (int, error)
}

// TiktokenCounter counts with a real BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding (e.g. "cl100k_base").
func NewTiktokenCounter(encodingName string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding %s: %w", encodingName, err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the BPE token count.
func (c *TiktokenCounter) Count(text string) (int, error) {
	return len(c.encoding.Encode(text, nil, nil)), nil
}

// HeuristicCounter approximates tokens as one per four characters. Used when
// no encoding is available for a model and in tests.
type HeuristicCounter struct{}

// NewHeuristicCounter creates a character-based counter.
func NewHeuristicCounter() *HeuristicCounter {
	return &HeuristicCounter{}
}

// Count returns len(text)/4, at least 1 for non-empty text.
func (c *HeuristicCounter) Count(text string) (int, error) {
	if len(text) == 0 {
		return 0, nil
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n, nil
}

// Registry maps model identifiers to counters with a heuristic fallback.
type Registry struct {
	counters map[string]Counter
	fallback Counter
}

// NewRegistry creates an empty registry with the heuristic fallback.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]Counter),
		fallback: NewHeuristicCounter(),
	}
}

// Register binds a counter to a model identifier.
func (r *Registry) Register(model string, counter Counter) {
	r.counters[model] = counter
}

// CounterFor returns the counter for a model, or the fallback.
func (r *Registry) CounterFor(model string) Counter {
	if c, ok := r.counters[model]; ok {
		return c
	}
	return r.fallback
}

// Count counts tokens in text with the model's counter.
func (r *Registry) Count(model, text string) (int, error) {
	return r.CounterFor(model).Count(text)
}

// CountMessages sums token counts over a message list.
func (r *Registry) CountMessages(model string, messages []string) (int, error) {
	total := 0
	for _, m := range messages {
		n, err := r.Count(model, m)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// DefaultRegistry registers cl100k_base for the OpenAI chat and embedding
// models the generator can be configured with. Models without a known
// encoding fall through to the heuristic counter.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	models := []string{
		"gpt-4", "gpt-4-turbo", "gpt-4o", "gpt-4o-mini",
		"gpt-3.5-turbo",
		"text-embedding-3-small", "text-embedding-3-large",
	}
	for _, model := range models {
		if counter, err := NewTiktokenCounter("cl100k_base"); err == nil {
			r.Register(model, counter)
		}
	}
	return r
}
