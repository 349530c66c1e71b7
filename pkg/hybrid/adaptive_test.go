package hybrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drift-line/nlcmd/core"
)

func TestAdaptiveThresholdLowersOnCorrect(t *testing.T) {
	opts := DefaultAdaptiveOptions()
	opts.ConfidenceThreshold = 0.7
	g := NewAdaptiveGenerator(&stubPipeline{result: sqlRuleHit(0.9)}, nil, nil, opts)

	prev := g.Threshold()
	for i := 0; i < 50; i++ {
		cur := g.Confirm(true)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, opts.MinThreshold, g.Threshold())
}

func TestAdaptiveThresholdRaisesOnIncorrect(t *testing.T) {
	opts := DefaultAdaptiveOptions()
	opts.ConfidenceThreshold = 0.7
	g := NewAdaptiveGenerator(&stubPipeline{result: sqlRuleHit(0.9)}, nil, nil, opts)

	prev := g.Threshold()
	for i := 0; i < 50; i++ {
		cur := g.Confirm(false)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, opts.MaxThreshold, g.Threshold())
}

func TestAdaptiveGenerateUsesLearnedThreshold(t *testing.T) {
	opts := DefaultAdaptiveOptions()
	opts.ConfidenceThreshold = 0.9
	opts.MinThreshold = 0.5
	opts.AdaptationRate = 0.1

	// Confidence 0.8 sits below the starting threshold but above the floor.
	pipe := &stubPipeline{result: sqlRuleHit(0.8)}
	g := NewAdaptiveGenerator(pipe, nil, nil, opts)

	res := g.Generate(context.Background(), "pokaż users")
	assert.Equal(t, "LLM fallback not available", res.Note)

	for i := 0; i < 4; i++ {
		g.Confirm(true)
	}

	res = g.Generate(context.Background(), "pokaż users")
	assert.Empty(t, res.Note)
	assert.Equal(t, core.SourceRules, res.Source)
	assert.True(t, res.Success)
}
