package core

import (
	"math"
	"sync"
)

// Decision is the routing outcome for a detected request.
type Decision string

const (
	DecisionDirect        Decision = "DIRECT"
	DecisionLLMPlanner    Decision = "LLM_PLANNER"
	DecisionClarification Decision = "CLARIFICATION"
	DecisionReject        Decision = "REJECT"
)

// Source identifies which path produced a hybrid result.
type Source string

const (
	SourceRules Source = "rules"
	SourceLLM   Source = "llm"
)

// ProblemType classifies an optimization request.
type ProblemType string

const (
	ProblemSchedule ProblemType = "schedule"
	ProblemAllocate ProblemType = "allocate"
	ProblemRoute    ProblemType = "route"
	ProblemUnknown  ProblemType = "unknown"
)

// DetectionResult is the outcome of one cascade pass over the input text.
type DetectionResult struct {
	Domain         string  `json:"domain"`
	Intent         string  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	MatchedKeyword string  `json:"matched_keyword,omitempty"`
}

// ClampConfidence forces confidence into [0,1].
func (d *DetectionResult) ClampConfidence() {
	d.Confidence = clamp01(d.Confidence)
}

// Unknown is the terminal cascade result when no strategy fired.
func Unknown() DetectionResult {
	return DetectionResult{Domain: "unknown", Intent: "unknown", Confidence: 0.0}
}

// ExecutionPlan describes a resolved request before command generation.
type ExecutionPlan struct {
	Intent               string            `json:"intent"`
	Entities             map[string]string `json:"entities"`
	Confidence           float64           `json:"confidence"`
	RequiresConfirmation bool              `json:"requires_confirmation"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// IsValid reports whether the plan can be acted on.
func (p ExecutionPlan) IsValid() bool {
	return p.Intent != "" && p.Confidence >= 0 && p.Confidence <= 1
}

// WithEntities returns a copy with extra entities merged in; extra wins on conflict.
func (p ExecutionPlan) WithEntities(extra map[string]string) ExecutionPlan {
	merged := make(map[string]string, len(p.Entities)+len(extra))
	for k, v := range p.Entities {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	out := p
	out.Entities = merged
	return out
}

// RoutingResult is the single-shot decision of the DecisionRouter.
type RoutingResult struct {
	Decision         Decision          `json:"decision"`
	Reason           string            `json:"reason"`
	Confidence       float64           `json:"confidence"`
	SuggestedActions []string          `json:"suggested_actions,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Constraint is one restriction on an optimization problem.
type Constraint struct {
	Type     string  `json:"type"` // "deadline" | "order" | "capacity"
	Task     int     `json:"task,omitempty"`
	Slot     int     `json:"slot,omitempty"`
	Resource int     `json:"resource,omitempty"`
	Limit    float64 `json:"limit,omitempty"`
}

// OptimizationProblem is a parsed scheduling/allocation request.
// Not mutated after construction; consumed once by the sampler.
type OptimizationProblem struct {
	ProblemType ProblemType  `json:"problem_type"`
	Variables   []string     `json:"variables"`
	Constraints []Constraint `json:"constraints"`
	Objective   string       `json:"objective"` // "minimize" | "maximize"
}

// SamplerResult is the outcome of one Langevin chain.
type SamplerResult struct {
	Sample            []float64 `json:"sample"`
	Energy            float64   `json:"energy"`
	EntropyProduction float64   `json:"entropy_production"`
	NSteps            int       `json:"n_steps"`
	Converged         bool      `json:"converged"`
}

// HybridResult is the outcome of one rules-vs-LLM generation call.
type HybridResult struct {
	Command       string  `json:"command"`
	Domain        string  `json:"domain"`
	Source        Source  `json:"source"`
	Confidence    float64 `json:"confidence"`
	LatencyMS     float64 `json:"latency_ms"`
	Success       bool    `json:"success"`
	LLMCalls      int     `json:"llm_calls"`
	EstimatedCost float64 `json:"estimated_cost"`
	Error         string  `json:"error,omitempty"`
	Note          string  `json:"note,omitempty"`
}

// EnergyEstimate compares compute cost of pure-LLM vs hybrid generation.
// Informational only; never feeds back into routing.
type EnergyEstimate struct {
	LLMJoules         float64 `json:"llm_joules"`
	HybridJoules      float64 `json:"hybrid_joules"`
	AnalogJoules      float64 `json:"analog_joules"`
	SavingsDigitalPct float64 `json:"savings_digital_percent"`
	SavingsAnalogPct  float64 `json:"savings_analog_percent"`
	LLMTokens         int     `json:"llm_tokens"`
	HybridTokens      int     `json:"hybrid_tokens"`
	SamplerSteps      int     `json:"sampler_steps"`
}

// ThermodynamicResult wraps the optimization path outcome.
type ThermodynamicResult struct {
	Problem        OptimizationProblem `json:"problem"`
	Solution       []int               `json:"solution,omitempty"`
	Energy         float64             `json:"energy"`
	Entropy        float64             `json:"entropy_production"`
	NSamples       int                 `json:"n_samples"`
	Converged      bool                `json:"converged"`
	LatencyMS      float64             `json:"latency_ms"`
	EnergyEstimate *EnergyEstimate     `json:"energy_estimate,omitempty"`
	Route          string              `json:"route"` // "langevin" | "template"
	Errors         []string            `json:"errors,omitempty"`
}

// HybridStats is process-wide generation accounting. Updates are serialized
// on a single mutex; reads go through Snapshot.
type HybridStats struct {
	mu sync.Mutex

	TotalRequests      int     `json:"total_requests"`
	RuleHits           int     `json:"rule_hits"`
	LLMFallbacks       int     `json:"llm_fallbacks"`
	TotalLLMCalls      int     `json:"total_llm_calls"`
	TotalLatencyMS     float64 `json:"total_latency_ms"`
	EstimatedTotalCost float64 `json:"estimated_total_cost"`
}

// Record folds one hybrid result into the running totals.
func (s *HybridStats) Record(r HybridResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalRequests++
	switch r.Source {
	case SourceRules:
		s.RuleHits++
	case SourceLLM:
		s.LLMFallbacks++
	}
	s.TotalLLMCalls += r.LLMCalls
	s.TotalLatencyMS += r.LatencyMS
	s.EstimatedTotalCost += r.EstimatedCost
}

// Reset clears all counters.
func (s *HybridStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalRequests = 0
	s.RuleHits = 0
	s.LLMFallbacks = 0
	s.TotalLLMCalls = 0
	s.TotalLatencyMS = 0
	s.EstimatedTotalCost = 0
}

// StatsSnapshot is a copy of the counters plus derived rates.
type StatsSnapshot struct {
	TotalRequests      int     `json:"total_requests"`
	RuleHits           int     `json:"rule_hits"`
	LLMFallbacks       int     `json:"llm_fallbacks"`
	TotalLLMCalls      int     `json:"total_llm_calls"`
	TotalLatencyMS     float64 `json:"total_latency_ms"`
	EstimatedTotalCost float64 `json:"estimated_total_cost"`
	RuleHitRate        float64 `json:"rule_hit_rate"`
	CostSavingsPercent float64 `json:"cost_savings_percent"`
	AvgLatencyMS       float64 `json:"avg_latency_ms"`
}

// Snapshot returns a consistent copy with derived rates.
func (s *HybridStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		TotalRequests:      s.TotalRequests,
		RuleHits:           s.RuleHits,
		LLMFallbacks:       s.LLMFallbacks,
		TotalLLMCalls:      s.TotalLLMCalls,
		TotalLatencyMS:     s.TotalLatencyMS,
		EstimatedTotalCost: s.EstimatedTotalCost,
	}
	if s.TotalRequests > 0 {
		snap.RuleHitRate = float64(s.RuleHits) / float64(s.TotalRequests)
		snap.CostSavingsPercent = snap.RuleHitRate * 100.0
		snap.AvgLatencyMS = s.TotalLatencyMS / float64(s.TotalRequests)
	}
	return snap
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// Clamp01 forces a confidence value into [0,1].
func Clamp01(v float64) float64 { return clamp01(v) }
