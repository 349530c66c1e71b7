package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/cache"
	"github.com/drift-line/nlcmd/pkg/config"
	"github.com/drift-line/nlcmd/pkg/detect"
	"github.com/drift-line/nlcmd/pkg/entities"
	"github.com/drift-line/nlcmd/pkg/hybrid"
	"github.com/drift-line/nlcmd/pkg/metrics"
	"github.com/drift-line/nlcmd/pkg/pipeline"
	"github.com/drift-line/nlcmd/pkg/router"
	"github.com/drift-line/nlcmd/pkg/thermo"
)

// newTestServer wires the real components with a nil LLM client, so every
// generation runs rules-only.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	detector, err := detect.NewDetector(detect.DefaultOptions())
	require.NoError(t, err)

	detCache, err := cache.NewDetectionCache(cache.Config{MaxSize: 64, TTL: time.Minute})
	require.NoError(t, err)

	pipe := pipeline.NewRules(detector, nil)
	gen := hybrid.NewAdaptiveGenerator(pipe, nil, nil, hybrid.DefaultAdaptiveOptions())

	thermoGen := thermo.NewGenerator(thermo.GeneratorOptions{
		Sampler: thermo.SamplerConfig{
			Steps:    300,
			StepSize: 0.01,
			KT:       0.5,
			Chains:   4,
			Budget:   2 * time.Second,
			Seed:     7,
		},
		VoterStrategy:  thermo.VoteEnergy,
		RouteThreshold: 0.5,
	})

	return NewServer(config.Default().Server, Deps{
		Detector:  cache.NewCachedDetector(detector, detCache),
		Extractor: entities.NewExtractor(),
		Router:    router.NewDecisionRouter(router.DefaultConfig()),
		Generator: gen,
		Thermo:    thermoGen,
		Cache:     detCache,
		Metrics:   metrics.New(prometheus.NewRegistry()),
	})
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestDetectEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/detect", map[string]string{"text": "pokaż adres ip"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res core.DetectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "shell", res.Domain)
	assert.Equal(t, "network", res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)
}

func TestDetectRequiresText(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/detect", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_TEXT")
}

func TestDetectRejectsGet(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/detect", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouteEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/route", map[string]string{"text": "Pokaż dane z tabeli users"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res routeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "sql", res.Detection.Domain)
	assert.Equal(t, "users", res.Entities["table"])
	assert.Equal(t, core.DecisionDirect, res.Routing.Decision)
	assert.NotEmpty(t, res.Routing.SuggestedActions)
}

func TestRouteRejectsGibberish(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/route", map[string]string{"text": "zzz qqq xxx"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res routeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, core.DecisionReject, res.Routing.Decision)
}

func TestGenerateEndpointRulesPath(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/generate", map[string]string{"text": "docker ps"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res core.HybridResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "docker ps", res.Command)
	assert.Equal(t, core.SourceRules, res.Source)
	assert.Zero(t, res.LLMCalls)
}

func TestPlanUnavailableWithoutLLM(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/plan", map[string]string{"text": "backup then restart"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "PLANNER_UNAVAILABLE")
}

func TestSolveExplicitProblem(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/solve", map[string]interface{}{
		"problem": map[string]interface{}{
			"problem_type": "schedule",
			"variables":    []string{"task_0", "task_1"},
			"objective":    "minimize",
			"n_tasks":      2,
			"n_slots":      3,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res core.ThermodynamicResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, thermo.RouteLangevin, res.Route)
	assert.Len(t, res.Solution, 2)
	assert.Less(t, res.Energy, 50.0)
}

func TestSolveRequiresInput(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/v1/solve", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_INPUT")
}

func TestFeedbackMovesThreshold(t *testing.T) {
	s := newTestServer(t)
	before := s.deps.Generator.Threshold()

	rec := postJSON(t, s, "/v1/feedback", map[string]bool{"correct": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var res map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, before-0.02, res["confidence_threshold"], 1e-9)
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	postJSON(t, s, "/v1/generate", map[string]string{"text": "docker ps"})

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Hybrid core.StatsSnapshot `json:"hybrid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Hybrid.TotalRequests)
	assert.Equal(t, 1, res.Hybrid.RuleHits)
}
