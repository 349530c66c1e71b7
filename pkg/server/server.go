// Package server exposes the generation paths over HTTP: detection, routing,
// hybrid command generation, multi-step planning and the optimization
// sampler, plus health, stats and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/cache"
	"github.com/drift-line/nlcmd/pkg/config"
	"github.com/drift-line/nlcmd/pkg/entities"
	"github.com/drift-line/nlcmd/pkg/hybrid"
	"github.com/drift-line/nlcmd/pkg/logging"
	"github.com/drift-line/nlcmd/pkg/metrics"
	"github.com/drift-line/nlcmd/pkg/router"
	"github.com/drift-line/nlcmd/pkg/thermo"
	"github.com/drift-line/nlcmd/pkg/tracing"
)

// Detector is the cascade contract the server consumes; satisfied by both
// the raw cascade and the cached wrapper.
type Detector interface {
	Detect(text string) core.DetectionResult
}

// Deps carries the wired components. Planner may be nil when no LLM client
// is configured; the plan endpoint then returns 503.
type Deps struct {
	Detector  Detector
	Extractor *entities.Extractor
	Router    *router.DecisionRouter
	Generator *hybrid.AdaptiveGenerator
	Planner   *hybrid.Planner
	Thermo    *thermo.Generator
	Cache     *cache.DetectionCache
	Metrics   *metrics.Metrics
	Tracer    *tracing.Tracer
	Logger    *logging.Logger
}

// Server is the HTTP front of the service.
type Server struct {
	cfg    config.ServerConfig
	deps   Deps
	logger *logging.Logger
	mux    *http.ServeMux
	http   *http.Server
}

// NewServer wires the routes. Handler is exposed separately so tests can
// drive the mux through httptest without a listener.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.NewNopTracer()
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// setupRoutes configures all the HTTP routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	v1 := http.NewServeMux()
	v1.HandleFunc("/detect", s.instrument("/v1/detect", s.handleDetect))
	v1.HandleFunc("/route", s.instrument("/v1/route", s.handleRoute))
	v1.HandleFunc("/generate", s.instrument("/v1/generate", s.handleGenerate))
	v1.HandleFunc("/plan", s.instrument("/v1/plan", s.handlePlan))
	v1.HandleFunc("/solve", s.instrument("/v1/solve", s.handleSolve))
	v1.HandleFunc("/feedback", s.instrument("/v1/feedback", s.handleFeedback))
	v1.HandleFunc("/stats", s.instrument("/v1/stats", s.handleStats))

	s.mux.Handle("/v1/", http.StripPrefix("/v1", v1))
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.cfg.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// statusRecorder captures the status code for the request metric.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records latency and status for one endpoint.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		if s.deps.Metrics != nil {
			status := "ok"
			if rec.status >= 400 {
				status = "error"
			}
			s.deps.Metrics.ObserveRequest(endpoint, status, time.Since(start))
		}
	}
}

// textRequest is the common request body for the text endpoints.
type textRequest struct {
	Text     string `json:"text"`
	ForceLLM bool   `json:"force_llm,omitempty"`
}

func (s *Server) decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", "INVALID_JSON", http.StatusBadRequest)
		return req, false
	}
	if req.Text == "" {
		s.writeError(w, "Field 'text' is required", "MISSING_TEXT", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"nlcmd","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleDetect runs the cascade only.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	_, span := s.deps.Tracer.StartDetectionSpan(r.Context())
	res := s.deps.Detector.Detect(req.Text)
	tracing.RecordDetection(span, "", res.Domain, res.Intent, res.Confidence)
	span.End()

	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveDetection("cascade", res.Domain)
	}

	s.writeJSON(w, res)
}

// routeResponse bundles detection, extracted entities and the decision.
type routeResponse struct {
	Detection core.DetectionResult `json:"detection"`
	Entities  map[string]string    `json:"entities"`
	Routing   core.RoutingResult   `json:"routing"`
}

// handleRoute runs detect, extract and the decision router.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	det := s.deps.Detector.Detect(req.Text)
	ents := s.deps.Extractor.Extract(det.Domain, req.Text)
	routing := s.deps.Router.Route(det.Intent, ents, req.Text, det.Confidence)

	s.logger.LogRouting(string(routing.Decision), routing.Reason, routing.Confidence)
	s.writeJSON(w, routeResponse{Detection: det, Entities: ents, Routing: routing})
}

// handleGenerate runs the hybrid rules-then-LLM path.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	ctx, span := s.deps.Tracer.StartGenerateSpan(r.Context(), req.ForceLLM)
	defer span.End()

	var res core.HybridResult
	if req.ForceLLM {
		res = s.deps.Generator.GenerateForced(ctx, req.Text)
	} else {
		res = s.deps.Generator.Generate(ctx, req.Text)
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveHybrid(string(res.Source), "", "USD", res.EstimatedCost)
	}
	if res.Error != "" {
		tracing.RecordError(span, fmt.Errorf("%s", res.Error))
	} else {
		tracing.RecordSuccess(span)
	}

	s.writeJSON(w, res)
}

// handlePlan runs the multi-step planner. 503 when no LLM is configured.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.deps.Planner == nil {
		s.writeError(w, "Planner requires an LLM client", "PLANNER_UNAVAILABLE", http.StatusServiceUnavailable)
		return
	}
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	plan, attempts, err := s.deps.Planner.Plan(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("planning failed", "error", err, "attempts", attempts)
		s.writeError(w, err.Error(), "PLANNING_FAILED", http.StatusBadGateway)
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"plan":     plan,
		"attempts": attempts,
	})
}

// solveRequest accepts either raw text or an explicit problem.
type solveRequest struct {
	Text    string          `json:"text,omitempty"`
	Problem *thermo.Problem `json:"problem,omitempty"`
}

// handleSolve runs the optimization path.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", "INVALID_JSON", http.StatusBadRequest)
		return
	}
	if req.Text == "" && req.Problem == nil {
		s.writeError(w, "Either 'text' or 'problem' is required", "MISSING_INPUT", http.StatusBadRequest)
		return
	}

	chains := 0
	if req.Problem != nil {
		chains = len(req.Problem.Variables)
	}
	ctx, span := s.deps.Tracer.StartSamplerSpan(r.Context(), "request", chains)
	defer span.End()

	res := s.deps.Thermo.Generate(ctx, req.Text, req.Problem)

	tracing.RecordSamplerOutcome(span, res.Energy, res.Converged, res.NSamples)
	if s.deps.Metrics != nil && res.Route == thermo.RouteLangevin {
		s.deps.Metrics.ObserveSampler(string(res.Problem.ProblemType), res.Converged, res.Energy)
	}

	s.writeJSON(w, res)
}

// feedbackRequest reports whether the last generated command was right.
type feedbackRequest struct {
	Correct bool `json:"correct"`
}

// handleFeedback adjusts the adaptive confidence threshold.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", "INVALID_JSON", http.StatusBadRequest)
		return
	}

	threshold := s.deps.Generator.Confirm(req.Correct)
	s.writeJSON(w, map[string]float64{"confidence_threshold": threshold})
}

// handleStats reports generation accounting and cache statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	out := map[string]interface{}{
		"hybrid":               s.deps.Generator.Stats().Snapshot(),
		"confidence_threshold": s.deps.Generator.Threshold(),
	}
	if s.deps.Cache != nil {
		out["cache"] = s.deps.Cache.Stats()
	}

	s.writeJSON(w, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// errorResponse is the error body shape for every endpoint.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Code: code})
}
