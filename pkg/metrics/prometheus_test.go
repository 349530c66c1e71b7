package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/v1/generate", "ok", 20*time.Millisecond)
	m.ObserveRequest("/v1/generate", "ok", 10*time.Millisecond)
	m.ObserveRequest("/v1/detect", "error", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/v1/generate", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/v1/detect", "error")))
}

func TestObserveHybrid(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHybrid("rules", "", "", 0)
	m.ObserveHybrid("rules", "", "", 0)
	m.ObserveHybrid("llm", "gpt-4o-mini", "USD", 0.002)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RuleHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMFallbackTotal))
	assert.InDelta(t, 0.002, testutil.ToFloat64(m.LLMCostTotal.WithLabelValues("gpt-4o-mini", "USD")), 1e-9)
}

func TestObserveSampler(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSampler("schedule", true, 0.5)
	m.ObserveSampler("schedule", false, 120.0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SamplerRunsTotal.WithLabelValues("schedule", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SamplerRunsTotal.WithLabelValues("schedule", "false")))
}

func TestObserveTokens(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTokens("gpt-4o-mini", 100, 40)

	assert.Equal(t, 100.0, testutil.ToFloat64(m.LLMTokensTotal.WithLabelValues("gpt-4o-mini", "prompt")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.LLMTokensTotal.WithLabelValues("gpt-4o-mini", "completion")))
}
