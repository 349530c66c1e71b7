package thermo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteOptimizationRequestGoesToLangevin(t *testing.T) {
	r := NewRouter(0.5)
	text := "zoptymalizuj harmonogram 5 zadań w 3 slotach"
	p := Parse(text)

	assert.Equal(t, RouteLangevin, r.Route(text, p))
}

func TestRoutePlainRequestStaysOnTemplates(t *testing.T) {
	r := NewRouter(0.5)
	text := "pokaż wszystkie pliki"
	p := Parse(text)

	assert.Equal(t, RouteTemplate, r.Route(text, p))
}

func TestRouteUnknownTypeNeverSamples(t *testing.T) {
	r := NewRouter(0.1)
	text := "zoptymalizuj coś bliżej nieokreślonego"
	p := Parse(text)

	// High complexity but no sampler-capable problem type.
	if p.ProblemType == "unknown" {
		assert.Equal(t, RouteTemplate, r.Route(text, p))
	}
}

func TestComplexityRange(t *testing.T) {
	r := NewRouter(0.5)

	texts := []string{
		"",
		"pokaż pliki",
		"zoptymalizuj 10 zadań w 5 slotach, zadanie 1 przed slotem 2",
		"balance 8 resources across 4 consumers and minimize waste",
	}
	for _, text := range texts {
		c := r.Complexity(text, Parse(text))
		assert.GreaterOrEqual(t, c, 0.0, text)
		assert.LessOrEqual(t, c, 1.0, text)
	}
}

func TestComplexityOrdering(t *testing.T) {
	r := NewRouter(0.5)

	plain := "pokaż pliki w katalogu"
	rich := "zoptymalizuj harmonogram 6 zadań w 4 slotach, zadanie 2 przed slotem 3"

	assert.Greater(t, r.Complexity(rich, Parse(rich)), r.Complexity(plain, Parse(plain)))
}

func TestEstimatorSavings(t *testing.T) {
	e := NewEstimator()

	est := e.Estimate(1000, 100, 1000)

	assert.InDelta(t, 300.0, est.LLMJoules, 1e-9)
	assert.Greater(t, est.SavingsDigitalPct, 80.0)
	assert.Greater(t, est.SavingsAnalogPct, est.SavingsDigitalPct)
	assert.Equal(t, 1000, est.SamplerSteps)
}

func TestEstimatorZeroBaseline(t *testing.T) {
	e := NewEstimator()

	est := e.Estimate(0, 100, 1000)

	assert.Zero(t, est.SavingsDigitalPct)
	assert.Zero(t, est.SavingsAnalogPct)
}
