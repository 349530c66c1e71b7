package hybrid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/llm"
)

// stubPipeline returns a canned result for every input.
type stubPipeline struct {
	result core.PipelineResult
	calls  int
}

func (s *stubPipeline) Process(text string) core.PipelineResult {
	s.calls++
	return s.result
}

func sqlRuleHit(confidence float64) core.PipelineResult {
	return core.PipelineResult{
		Success:    true,
		Command:    "SELECT * FROM users;",
		Domain:     "sql",
		Intent:     "select",
		Entities:   map[string]string{"table": "users"},
		Confidence: confidence,
	}
}

func TestGenerateRuleHitNoLLMCost(t *testing.T) {
	pipe := &stubPipeline{result: sqlRuleHit(0.9)}
	mock := llm.NewMockClient("should not be called")
	g := NewGenerator(pipe, mock, nil, DefaultOptions())

	res := g.Generate(context.Background(), "Pokaż dane z tabeli users")

	require.True(t, res.Success)
	assert.Equal(t, core.SourceRules, res.Source)
	assert.Equal(t, "SELECT * FROM users;", res.Command)
	assert.Zero(t, res.LLMCalls)
	assert.Zero(t, res.EstimatedCost)
	assert.Zero(t, mock.Calls())
}

func TestGenerateLowConfidenceFallsBack(t *testing.T) {
	pipe := &stubPipeline{result: sqlRuleHit(0.3)}
	mock := llm.NewMockClient("SELECT id FROM users;")
	g := NewGenerator(pipe, mock, nil, DefaultOptions())

	res := g.Generate(context.Background(), "coś z userami")

	require.True(t, res.Success)
	assert.Equal(t, core.SourceLLM, res.Source)
	assert.Equal(t, "SELECT id FROM users;", res.Command)
	assert.Equal(t, 1, res.LLMCalls)
	assert.Greater(t, res.EstimatedCost, 0.0)
}

func TestGenerateMissingAnchorEntityFallsBack(t *testing.T) {
	hit := sqlRuleHit(0.95)
	hit.Entities = map[string]string{}
	pipe := &stubPipeline{result: hit}
	mock := llm.NewMockClient("SELECT * FROM orders;")
	g := NewGenerator(pipe, mock, nil, DefaultOptions())

	res := g.Generate(context.Background(), "pokaż dane")

	assert.Equal(t, core.SourceLLM, res.Source)
	assert.Equal(t, 1, mock.Calls())
}

func TestGenerateNoLLMConfigured(t *testing.T) {
	pipe := &stubPipeline{result: sqlRuleHit(0.3)}
	g := NewGenerator(pipe, nil, nil, DefaultOptions())

	res := g.Generate(context.Background(), "coś z userami")

	assert.Equal(t, core.SourceRules, res.Source)
	assert.Equal(t, "LLM fallback not available", res.Note)
	assert.Equal(t, "SELECT * FROM users;", res.Command)
	assert.Zero(t, res.LLMCalls)
}

func TestGenerateForceLLM(t *testing.T) {
	pipe := &stubPipeline{result: sqlRuleHit(0.99)}
	mock := llm.NewMockClient("ls -la")
	opts := DefaultOptions()
	opts.ForceLLM = true
	g := NewGenerator(pipe, mock, nil, opts)

	res := g.Generate(context.Background(), "list files")

	assert.Equal(t, core.SourceLLM, res.Source)
	assert.Zero(t, pipe.calls)
}

func TestGenerateLLMErrorReported(t *testing.T) {
	pipe := &stubPipeline{result: sqlRuleHit(0.2)}
	mock := llm.NewMockClient().FailWith(errors.New("connection refused"))
	g := NewGenerator(pipe, mock, nil, DefaultOptions())

	res := g.Generate(context.Background(), "coś")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "connection refused")
	assert.Equal(t, 1, res.LLMCalls)
}

func TestGenerateStatsRecorded(t *testing.T) {
	stats := &core.HybridStats{}
	pipe := &stubPipeline{result: sqlRuleHit(0.9)}
	g := NewGenerator(pipe, nil, stats, DefaultOptions())

	g.Generate(context.Background(), "a")
	g.Generate(context.Background(), "b")

	snap := stats.Snapshot()
	assert.Equal(t, 2, snap.TotalRequests)
	assert.Equal(t, 2, snap.RuleHits)
	assert.InDelta(t, 100.0, snap.CostSavingsPercent, 1e-9)
}

func TestBareIntentsNeedNoAnchor(t *testing.T) {
	hit := core.PipelineResult{
		Success:    true,
		Command:    "docker ps",
		Domain:     "docker",
		Intent:     "ps",
		Entities:   map[string]string{},
		Confidence: 0.92,
	}
	pipe := &stubPipeline{result: hit}
	g := NewGenerator(pipe, nil, nil, DefaultOptions())

	res := g.Generate(context.Background(), "docker ps")

	assert.Equal(t, core.SourceRules, res.Source)
	assert.True(t, res.Success)
	assert.Equal(t, "docker ps", res.Command)
}

func TestGenerateForcedWithoutLLMReportsError(t *testing.T) {
	pipe := &stubPipeline{result: sqlRuleHit(0.9)}
	g := NewGenerator(pipe, nil, nil, DefaultOptions())

	res := g.GenerateForced(context.Background(), "Pokaż dane z tabeli users")

	require.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, "LLM fallback not available", res.Note)
	assert.Zero(t, pipe.calls)
}
