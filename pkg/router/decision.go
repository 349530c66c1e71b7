// Package router decides how a detected intent should be executed: run it
// directly, hand it to an LLM planner, ask the user to clarify, or reject it.
package router

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/drift-line/nlcmd/core"
)

// Config holds the decision thresholds. Zero values fall back to defaults.
type Config struct {
	RejectThreshold        float64 // below this confidence the request is rejected
	ClarificationThreshold float64 // below this the user is asked to clarify
	EntityThreshold        int     // more entities than this forces the planner
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		RejectThreshold:        0.3,
		ClarificationThreshold: 0.6,
		EntityThreshold:        5,
	}
}

// multiStepKeywords mark chained requests that a single template cannot cover.
var multiStepKeywords = []string{
	"and then", "then", "foreach", "for each",
	"a potem", "a następnie", "nastepnie", "następnie", "dla każdego", "dla kazdego",
}

// analysisKeywords mark open-ended analysis work.
var analysisKeywords = []string{
	"analyze", "analyse", "compare", "trend", "correlate", "summarize",
	"przeanalizuj", "porównaj", "porownaj",
}

// relationalFields in the entity map imply cross-entity reasoning.
var relationalFields = []string{"joins", "join", "selector", "relations"}

// DecisionRouter maps (intent, entities, text, confidence) to a routing
// decision. Single-shot: no state survives between Route calls except the
// registered intent sets, which are runtime-extensible.
type DecisionRouter struct {
	mu             sync.RWMutex
	cfg            Config
	simpleIntents  map[string]bool
	complexIntents map[string]bool
	intentActions  map[string][]string
}

// NewDecisionRouter creates a router with the built-in intent sets.
func NewDecisionRouter(cfg Config) *DecisionRouter {
	if cfg.RejectThreshold <= 0 {
		cfg.RejectThreshold = DefaultConfig().RejectThreshold
	}
	if cfg.ClarificationThreshold <= 0 {
		cfg.ClarificationThreshold = DefaultConfig().ClarificationThreshold
	}
	if cfg.EntityThreshold <= 0 {
		cfg.EntityThreshold = DefaultConfig().EntityThreshold
	}

	r := &DecisionRouter{
		cfg:            cfg,
		simpleIntents:  map[string]bool{},
		complexIntents: map[string]bool{},
		intentActions:  map[string][]string{},
	}

	for _, intent := range []string{
		"select", "count", "file_search", "disk_usage", "process_list",
		"network", "ps", "images", "get", "logs",
	} {
		r.simpleIntents[intent] = true
	}
	for _, intent := range []string{
		"migration", "pipeline", "orchestrate", "report", "etl",
	} {
		r.complexIntents[intent] = true
	}

	r.intentActions["select"] = []string{"execute_query", "preview_rows"}
	r.intentActions["file_search"] = []string{"run_find", "list_matches"}
	r.intentActions["get"] = []string{"kubectl_get"}
	r.intentActions["ps"] = []string{"docker_ps"}

	return r
}

// RegisterIntentMapping sets the suggested actions for a simple intent.
func (r *DecisionRouter) RegisterIntentMapping(intent string, actions []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intentActions[intent] = append([]string(nil), actions...)
}

// AddSimpleIntent marks an intent as directly executable.
func (r *DecisionRouter) AddSimpleIntent(intent string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.simpleIntents[intent] = true
}

// AddComplexIntent marks an intent as requiring the LLM planner.
func (r *DecisionRouter) AddComplexIntent(intent string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complexIntents[intent] = true
}

// Route evaluates the transition rules in order; the first match wins.
func (r *DecisionRouter) Route(intent string, entities map[string]string, text string, confidence float64) core.RoutingResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	confidence = core.Clamp01(confidence)
	lower := strings.ToLower(text)

	if confidence < r.cfg.RejectThreshold {
		return core.RoutingResult{
			Decision:   core.DecisionReject,
			Reason:     fmt.Sprintf("confidence %.2f below reject threshold %.2f", confidence, r.cfg.RejectThreshold),
			Confidence: confidence,
		}
	}

	if confidence < r.cfg.ClarificationThreshold {
		return core.RoutingResult{
			Decision:   core.DecisionClarification,
			Reason:     fmt.Sprintf("confidence %.2f below clarification threshold %.2f", confidence, r.cfg.ClarificationThreshold),
			Confidence: confidence,
			SuggestedActions: []string{
				"ask_user_to_rephrase",
				"offer_intent_candidates",
			},
		}
	}

	if trigger, meta := r.plannerTrigger(intent, entities, lower); trigger != "" {
		return core.RoutingResult{
			Decision:   core.DecisionLLMPlanner,
			Reason:     trigger,
			Confidence: confidence,
			Metadata:   meta,
		}
	}

	if r.simpleIntents[intent] {
		return core.RoutingResult{
			Decision:         core.DecisionDirect,
			Reason:           "simple intent",
			Confidence:       confidence,
			SuggestedActions: append([]string(nil), r.intentActions[intent]...),
		}
	}

	// Nothing matched and confidence was adequate: execute directly.
	return core.RoutingResult{
		Decision:   core.DecisionDirect,
		Reason:     "default",
		Confidence: confidence,
	}
}

// plannerTrigger checks the LLM planner conditions and reports which one
// fired. Metadata keys name the trigger so callers can log or branch on it.
func (r *DecisionRouter) plannerTrigger(intent string, entities map[string]string, lower string) (string, map[string]string) {
	if r.complexIntents[intent] {
		return "complex intent", map[string]string{"complex_intent": "true"}
	}
	for _, kw := range multiStepKeywords {
		if containsWordish(lower, kw) {
			return "multi-step request", map[string]string{"multi_step": "true", "keyword": kw}
		}
	}
	for _, kw := range analysisKeywords {
		if strings.Contains(lower, kw) {
			return "analysis request", map[string]string{"analysis": "true", "keyword": kw}
		}
	}
	if len(entities) > r.cfg.EntityThreshold {
		return "entity count exceeds threshold", map[string]string{
			"entity_count":     strconv.Itoa(len(entities)),
			"entity_threshold": strconv.Itoa(r.cfg.EntityThreshold),
		}
	}
	for _, field := range relationalFields {
		if _, ok := entities[field]; ok {
			return "relational entity field", map[string]string{"relational_field": field}
		}
	}
	return "", nil
}

// containsWordish matches a keyword on word boundaries so that "then" does
// not fire inside "authentication".
func containsWordish(text, keyword string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}
