package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/cache"
	"github.com/drift-line/nlcmd/pkg/config"
	"github.com/drift-line/nlcmd/pkg/cost"
	"github.com/drift-line/nlcmd/pkg/detect"
	"github.com/drift-line/nlcmd/pkg/entities"
	"github.com/drift-line/nlcmd/pkg/hybrid"
	"github.com/drift-line/nlcmd/pkg/limiter"
	"github.com/drift-line/nlcmd/pkg/llm"
	"github.com/drift-line/nlcmd/pkg/logging"
	"github.com/drift-line/nlcmd/pkg/metrics"
	"github.com/drift-line/nlcmd/pkg/pipeline"
	"github.com/drift-line/nlcmd/pkg/router"
	"github.com/drift-line/nlcmd/pkg/server"
	"github.com/drift-line/nlcmd/pkg/thermo"
	"github.com/drift-line/nlcmd/pkg/tokens"
	"github.com/drift-line/nlcmd/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stderr",
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	detector, err := detect.NewDetector(detect.Options{
		SchemaEntries:     detect.DefaultSchemaEntries(),
		EnableFuzzy:       cfg.Detection.EnableFuzzy,
		SemanticThreshold: cfg.Detection.SemanticThreshold,
		Logger:            logger,
	})
	if err != nil {
		log.Fatalf("failed to build detector: %v", err)
	}

	detCache, err := cache.NewDetectionCache(cache.Config{
		MaxSize: cfg.Cache.MaxSize,
		TTL:     cfg.Cache.TTL,
	})
	if err != nil {
		log.Fatalf("failed to build detection cache: %v", err)
	}

	// The LLM fallback is optional; without an API key the service runs
	// rules-only and the plan endpoint returns 503.
	var llmClient core.LLMClient
	var planner *hybrid.Planner
	if os.Getenv("OPENAI_API_KEY") != "" {
		guard := limiter.NewGuard(limiter.DefaultGuardConfig(), nil)
		client, err := llm.NewOpenAIClient(llm.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   cfg.LLM.Model,
			BaseURL: cfg.LLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}, guard)
		if err != nil {
			log.Fatalf("failed to create LLM client: %v", err)
		}
		llmClient = client
		planner = hybrid.NewPlanner(client, hybrid.PlannerOptions{})
		logger.Info("LLM fallback enabled", "model", cfg.LLM.Model)
	} else {
		logger.Info("no OPENAI_API_KEY set, running rules-only")
	}

	pipe := pipeline.NewRules(detector, logger)
	generator := hybrid.NewAdaptiveGenerator(pipe, llmClient, nil, hybrid.AdaptiveOptions{
		Options: hybrid.Options{
			ConfidenceThreshold: cfg.Hybrid.ConfidenceThreshold,
			Model:               cfg.LLM.Model,
			MaxTokens:           cfg.Hybrid.MaxTokens,
			Temperature:         0.1,
			Tokens:              tokens.DefaultRegistry(),
			Cost:                cost.NewCalculator(cfg.Pricing),
			Logger:              logger,
		},
		AdaptationRate: cfg.Hybrid.AdaptationRate,
		MinThreshold:   cfg.Hybrid.MinThreshold,
		MaxThreshold:   cfg.Hybrid.MaxThreshold,
	})

	thermoGen := thermo.NewGenerator(thermo.GeneratorOptions{
		Sampler: thermo.SamplerConfig{
			Steps:    cfg.Sampler.Steps,
			StepSize: cfg.Sampler.StepSize,
			KT:       cfg.Sampler.KT,
			Chains:   cfg.Sampler.Chains,
			Budget:   cfg.Sampler.Budget,
		},
		VoterStrategy:  thermo.VoteEnergy,
		RouteThreshold: cfg.Sampler.RouteThreshold,
		Logger:         logger,
	})

	tracer := tracing.NewNopTracer()
	if cfg.Tracing.JaegerEndpoint != "" {
		tracer, err = tracing.NewTracer(tracing.Config{
			ServiceName:    "nlcmd",
			ServiceVersion: "dev",
			JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
			Environment:    cfg.Tracing.Environment,
		})
		if err != nil {
			log.Fatalf("failed to create tracer: %v", err)
		}
	}

	srv := server.NewServer(cfg.Server, server.Deps{
		Detector:  cache.NewCachedDetector(detector, detCache),
		Extractor: entities.NewExtractor(),
		Router: router.NewDecisionRouter(router.Config{
			RejectThreshold:        cfg.Router.RejectThreshold,
			ClarificationThreshold: cfg.Router.ClarificationThreshold,
			EntityThreshold:        cfg.Router.EntityThreshold,
		}),
		Generator: generator,
		Planner:   planner,
		Thermo:    thermoGen,
		Cache:     detCache,
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Tracer:    tracer,
		Logger:    logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		tracer.Shutdown(ctx)
	}
}
