package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionPlanIsValid(t *testing.T) {
	plan := ExecutionPlan{Intent: "select", Confidence: 0.8}
	assert.True(t, plan.IsValid())

	assert.False(t, ExecutionPlan{Intent: "", Confidence: 0.8}.IsValid())
	assert.False(t, ExecutionPlan{Intent: "select", Confidence: 1.2}.IsValid())
	assert.False(t, ExecutionPlan{Intent: "select", Confidence: -0.1}.IsValid())
}

func TestExecutionPlanWithEntities(t *testing.T) {
	plan := ExecutionPlan{
		Intent:   "select",
		Entities: map[string]string{"table": "users", "limit": "10"},
	}

	merged := plan.WithEntities(map[string]string{"limit": "20", "order_by": "name"})

	// Superset of both, extra wins on conflict.
	assert.Equal(t, "users", merged.Entities["table"])
	assert.Equal(t, "20", merged.Entities["limit"])
	assert.Equal(t, "name", merged.Entities["order_by"])

	// Original untouched.
	assert.Equal(t, "10", plan.Entities["limit"])
}

func TestClampConfidence(t *testing.T) {
	r := DetectionResult{Confidence: 1.5}
	r.ClampConfidence()
	assert.Equal(t, 1.0, r.Confidence)

	r = DetectionResult{Confidence: -0.2}
	r.ClampConfidence()
	assert.Equal(t, 0.0, r.Confidence)

	r = DetectionResult{Confidence: math.NaN()}
	r.ClampConfidence()
	assert.Equal(t, 0.0, r.Confidence)
}

func TestHybridStatsRecordAndSnapshot(t *testing.T) {
	var stats HybridStats

	stats.Record(HybridResult{Source: SourceRules, LatencyMS: 2})
	stats.Record(HybridResult{Source: SourceRules, LatencyMS: 4})
	stats.Record(HybridResult{Source: SourceLLM, LLMCalls: 1, EstimatedCost: 0.002, LatencyMS: 300})

	snap := stats.Snapshot()
	require.Equal(t, 3, snap.TotalRequests)
	assert.Equal(t, 2, snap.RuleHits)
	assert.Equal(t, 1, snap.LLMFallbacks)
	assert.Equal(t, 1, snap.TotalLLMCalls)
	assert.InDelta(t, 2.0/3.0, snap.RuleHitRate, 1e-9)
	assert.InDelta(t, 100.0*2.0/3.0, snap.CostSavingsPercent, 1e-9)
	assert.InDelta(t, 0.002, snap.EstimatedTotalCost, 1e-9)

	stats.Reset()
	snap = stats.Snapshot()
	assert.Equal(t, 0, snap.TotalRequests)
	assert.Equal(t, 0.0, snap.RuleHitRate)
}

func TestUnknownResult(t *testing.T) {
	u := Unknown()
	assert.Equal(t, "unknown", u.Domain)
	assert.Equal(t, "unknown", u.Intent)
	assert.Equal(t, 0.0, u.Confidence)
	assert.Empty(t, u.MatchedKeyword)
}
