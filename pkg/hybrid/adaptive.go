package hybrid

import (
	"context"
	"sync"

	"github.com/drift-line/nlcmd/core"
)

// AdaptiveOptions extends Options with threshold learning parameters.
type AdaptiveOptions struct {
	Options
	AdaptationRate float64
	MinThreshold   float64
	MaxThreshold   float64
}

// DefaultAdaptiveOptions returns the stock learning settings.
func DefaultAdaptiveOptions() AdaptiveOptions {
	return AdaptiveOptions{
		Options:        DefaultOptions(),
		AdaptationRate: 0.02,
		MinThreshold:   0.4,
		MaxThreshold:   0.95,
	}
}

// AdaptiveGenerator is a Generator whose confidence threshold drifts with
// feedback: confirmed-correct rule results lower it, confirmed-incorrect
// ones raise it, clamped to [MinThreshold, MaxThreshold]. Plain hill
// climbing, not a learned model.
type AdaptiveGenerator struct {
	*Generator

	mu        sync.Mutex
	threshold float64
	rate      float64
	min       float64
	max       float64
}

// NewAdaptiveGenerator wires the adaptive variant.
func NewAdaptiveGenerator(pipeline core.RulePipeline, llm core.LLMClient, stats *core.HybridStats, opts AdaptiveOptions) *AdaptiveGenerator {
	if opts.AdaptationRate <= 0 {
		opts.AdaptationRate = DefaultAdaptiveOptions().AdaptationRate
	}
	if opts.MinThreshold <= 0 {
		opts.MinThreshold = DefaultAdaptiveOptions().MinThreshold
	}
	if opts.MaxThreshold <= 0 || opts.MaxThreshold > 1 {
		opts.MaxThreshold = DefaultAdaptiveOptions().MaxThreshold
	}

	base := NewGenerator(pipeline, llm, stats, opts.Options)
	return &AdaptiveGenerator{
		Generator: base,
		threshold: base.opts.ConfidenceThreshold,
		rate:      opts.AdaptationRate,
		min:       opts.MinThreshold,
		max:       opts.MaxThreshold,
	}
}

// Generate runs the hybrid path against the current learned threshold.
func (g *AdaptiveGenerator) Generate(ctx context.Context, text string) core.HybridResult {
	return g.generate(ctx, text, g.Threshold(), g.opts.ForceLLM)
}

// Threshold returns the current learned threshold.
func (g *AdaptiveGenerator) Threshold() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.threshold
}

// Confirm feeds back whether the last rule acceptance was correct. Correct
// results make the generator slightly more willing to trust rules; incorrect
// ones make it stricter.
func (g *AdaptiveGenerator) Confirm(correct bool) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if correct {
		g.threshold -= g.rate
		if g.threshold < g.min {
			g.threshold = g.min
		}
	} else {
		g.threshold += g.rate
		if g.threshold > g.max {
			g.threshold = g.max
		}
	}
	return g.threshold
}
