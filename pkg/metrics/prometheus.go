// Package metrics exposes Prometheus counters and histograms for the
// generation paths: detections, rule hits vs LLM fallbacks, sampler runs and
// outbound LLM spend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service registers.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
	DetectionsTotal  *prometheus.CounterVec
	RuleHitsTotal    prometheus.Counter
	LLMFallbackTotal prometheus.Counter
	LLMCostTotal     *prometheus.CounterVec
	LLMTokensTotal   *prometheus.CounterVec
	SamplerRunsTotal *prometheus.CounterVec
	SamplerEnergy    prometheus.Histogram
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	BreakerOpenTotal *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer in
// production; tests use a fresh registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlcmd_requests_total",
				Help: "Total generation requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nlcmd_request_latency_seconds",
				Help:    "Request latency by endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		DetectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlcmd_detections_total",
				Help: "Cascade detections by winning stage and domain",
			},
			[]string{"stage", "domain"},
		),
		RuleHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nlcmd_rule_hits_total",
				Help: "Requests answered by the rule pipeline",
			},
		),
		LLMFallbackTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nlcmd_llm_fallbacks_total",
				Help: "Requests that fell back to the LLM",
			},
		),
		LLMCostTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlcmd_llm_cost_total",
				Help: "Estimated LLM spend",
			},
			[]string{"model", "currency"},
		),
		LLMTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlcmd_llm_tokens_total",
				Help: "Token usage by model and direction",
			},
			[]string{"model", "direction"},
		),
		SamplerRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlcmd_sampler_runs_total",
				Help: "Langevin sampler runs by problem type and outcome",
			},
			[]string{"problem_type", "converged"},
		),
		SamplerEnergy: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nlcmd_sampler_best_energy",
				Help:    "Best energy of finished sampler runs",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nlcmd_detection_cache_hits_total",
				Help: "Detection cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nlcmd_detection_cache_misses_total",
				Help: "Detection cache misses",
			},
		),
		BreakerOpenTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlcmd_breaker_open_total",
				Help: "Circuit breaker opens by model",
			},
			[]string{"model"},
		),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(endpoint, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveDetection records the winning cascade stage.
func (m *Metrics) ObserveDetection(stage, domain string) {
	m.DetectionsTotal.WithLabelValues(stage, domain).Inc()
}

// ObserveHybrid records which path answered and its cost.
func (m *Metrics) ObserveHybrid(source, model, currency string, cost float64) {
	switch source {
	case "rules":
		m.RuleHitsTotal.Inc()
	case "llm":
		m.LLMFallbackTotal.Inc()
		if cost > 0 {
			m.LLMCostTotal.WithLabelValues(model, currency).Add(cost)
		}
	}
}

// ObserveTokens records token usage for one LLM call.
func (m *Metrics) ObserveTokens(model string, prompt, completion int) {
	if prompt > 0 {
		m.LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		m.LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completion))
	}
}

// ObserveSampler records one sampler run.
func (m *Metrics) ObserveSampler(problemType string, converged bool, bestEnergy float64) {
	label := "false"
	if converged {
		label = "true"
	}
	m.SamplerRunsTotal.WithLabelValues(problemType, label).Inc()
	if bestEnergy >= 0 {
		m.SamplerEnergy.Observe(bestEnergy)
	}
}
