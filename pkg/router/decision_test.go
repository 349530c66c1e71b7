package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
)

func TestRouteRejectLowConfidence(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("select", nil, "show users", 0.1)

	assert.Equal(t, core.DecisionReject, res.Decision)
	assert.Contains(t, res.Reason, "reject threshold")
}

func TestRouteClarificationMidConfidence(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("unknown", nil, "do the thing", 0.4)

	assert.Equal(t, core.DecisionClarification, res.Decision)
	assert.NotEmpty(t, res.SuggestedActions)
}

func TestRouteDirectSimpleIntent(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("select", map[string]string{"table": "users"}, "show users", 0.9)

	assert.Equal(t, core.DecisionDirect, res.Decision)
	assert.Contains(t, res.SuggestedActions, "execute_query")
}

func TestRouteMultiStepGoesToPlanner(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("select", nil, "get users and then count by status", 0.9)

	require.Equal(t, core.DecisionLLMPlanner, res.Decision)
	assert.Equal(t, "true", res.Metadata["multi_step"])
}

func TestRouteMultiStepNotInsideWords(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	// "then" inside "authentication" must not count as a step separator.
	res := r.Route("select", map[string]string{"table": "auth"}, "show authentication users", 0.9)

	assert.Equal(t, core.DecisionDirect, res.Decision)
}

func TestRouteAnalysisKeyword(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("select", nil, "analyze sales per region", 0.9)

	require.Equal(t, core.DecisionLLMPlanner, res.Decision)
	assert.Equal(t, "true", res.Metadata["analysis"])
}

func TestRouteComplexIntent(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("migration", nil, "migrate the schema", 0.95)

	require.Equal(t, core.DecisionLLMPlanner, res.Decision)
	assert.Equal(t, "true", res.Metadata["complex_intent"])
}

func TestRouteEntityCountThreshold(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	entities := map[string]string{
		"a": "1", "b": "2", "c": "3", "d": "4", "e": "5", "f": "6",
	}
	res := r.Route("select", entities, "show everything", 0.9)

	require.Equal(t, core.DecisionLLMPlanner, res.Decision)
	assert.Equal(t, "6", res.Metadata["entity_count"])
}

func TestRouteRelationalField(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("select", map[string]string{"table": "users", "joins": "orders"}, "show users with orders", 0.9)

	require.Equal(t, core.DecisionLLMPlanner, res.Decision)
	assert.Equal(t, "joins", res.Metadata["relational_field"])
}

func TestRouteDefaultDirect(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("some_unlisted_intent", nil, "do it", 0.8)

	assert.Equal(t, core.DecisionDirect, res.Decision)
	assert.Equal(t, "default", res.Reason)
	assert.Empty(t, res.SuggestedActions)
}

func TestRouteOrderRejectBeatsComplex(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	// Thresholds are checked before intent sets.
	res := r.Route("migration", nil, "migrate and then verify", 0.2)

	assert.Equal(t, core.DecisionReject, res.Decision)
}

func TestRouteRuntimeExtensible(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	r.AddComplexIntent("reindex")
	res := r.Route("reindex", nil, "rebuild the index", 0.9)
	assert.Equal(t, core.DecisionLLMPlanner, res.Decision)

	r.AddSimpleIntent("ping")
	r.RegisterIntentMapping("ping", []string{"run_ping"})
	res = r.Route("ping", nil, "ping the host", 0.9)
	require.Equal(t, core.DecisionDirect, res.Decision)
	assert.Equal(t, []string{"run_ping"}, res.SuggestedActions)
}

func TestRouteConfidenceClamped(t *testing.T) {
	r := NewDecisionRouter(DefaultConfig())

	res := r.Route("select", nil, "show users", 1.7)

	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
}

func TestRouteCustomThresholds(t *testing.T) {
	r := NewDecisionRouter(Config{RejectThreshold: 0.5, ClarificationThreshold: 0.8, EntityThreshold: 2})

	assert.Equal(t, core.DecisionReject, r.Route("select", nil, "x", 0.4).Decision)
	assert.Equal(t, core.DecisionClarification, r.Route("select", nil, "x", 0.7).Decision)

	entities := map[string]string{"a": "1", "b": "2", "c": "3"}
	assert.Equal(t, core.DecisionLLMPlanner, r.Route("select", entities, "x", 0.9).Decision)
}
