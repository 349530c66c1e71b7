package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicCounter(t *testing.T) {
	c := NewHeuristicCounter()

	n, err := c.Count("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = c.Count("hi")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.Count("pokaż wszystkie pliki większe niż 100MB")
	require.NoError(t, err)
	assert.Greater(t, n, 5)
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()

	n, err := r.Count("unknown-model", "some text here")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRegistryRegisteredCounterWins(t *testing.T) {
	r := NewRegistry()
	r.Register("fixed", fixedCounter(42))

	n, err := r.Count("fixed", "anything")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestCountMessages(t *testing.T) {
	r := NewRegistry()
	r.Register("fixed", fixedCounter(10))

	n, err := r.CountMessages("fixed", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 30, n)
}

type fixedCounter int

func (f fixedCounter) Count(string) (int, error) { return int(f), nil }
