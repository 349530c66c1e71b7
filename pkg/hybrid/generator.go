// Package hybrid orchestrates the rules-first generation path with an
// optional LLM fallback, plus the adaptive threshold variant and the
// structured planner for multi-step requests.
package hybrid

import (
	"context"
	"strings"
	"time"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/cost"
	"github.com/drift-line/nlcmd/pkg/logging"
	"github.com/drift-line/nlcmd/pkg/tokens"
)

// Options configures a Generator.
type Options struct {
	// ConfidenceThreshold is the minimum rule confidence to accept without
	// LLM fallback.
	ConfidenceThreshold float64
	// ForceLLM skips the rule pipeline entirely.
	ForceLLM bool
	// Model names the fallback model for token counting and pricing.
	Model string
	// MaxTokens bounds the fallback completion.
	MaxTokens int
	// Temperature for the fallback completion.
	Temperature float32

	Tokens *tokens.Registry
	Cost   *cost.Calculator
	Logger *logging.Logger
}

// DefaultOptions returns the stock generator settings.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: 0.7,
		Model:               "gpt-4o-mini",
		MaxTokens:           256,
		Temperature:         0.1,
	}
}

const systemPrompt = `You translate natural language requests (Polish or English) into a single executable command.
Reply with the command only, no explanation, no code fences.`

// Generator runs the rule pipeline first and falls back to the LLM when the
// rule result is too weak. A nil LLM client means rules-only operation.
type Generator struct {
	pipeline core.RulePipeline
	llm      core.LLMClient
	opts     Options
	stats    *core.HybridStats
	logger   *logging.Logger
}

// NewGenerator wires the hybrid path. stats may be shared across generators;
// nil gets a private instance.
func NewGenerator(pipeline core.RulePipeline, llm core.LLMClient, stats *core.HybridStats, opts Options) *Generator {
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultOptions().ConfidenceThreshold
	}
	if opts.Model == "" {
		opts.Model = DefaultOptions().Model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if opts.Tokens == nil {
		opts.Tokens = tokens.NewRegistry()
	}
	if opts.Cost == nil {
		opts.Cost = cost.NewCalculator(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if stats == nil {
		stats = &core.HybridStats{}
	}
	return &Generator{
		pipeline: pipeline,
		llm:      llm,
		opts:     opts,
		stats:    stats,
		logger:   opts.Logger,
	}
}

// Stats returns the shared accounting instance.
func (g *Generator) Stats() *core.HybridStats { return g.stats }

// Threshold returns the current confidence threshold.
func (g *Generator) Threshold() float64 { return g.opts.ConfidenceThreshold }

// Generate produces a command for text. The rule result is accepted only
// when its confidence clears the threshold and the domain acceptance
// condition holds; otherwise the LLM fallback runs if configured.
func (g *Generator) Generate(ctx context.Context, text string) core.HybridResult {
	return g.generate(ctx, text, g.opts.ConfidenceThreshold, g.opts.ForceLLM)
}

// GenerateForced skips the rule pipeline for this call only.
func (g *Generator) GenerateForced(ctx context.Context, text string) core.HybridResult {
	return g.generate(ctx, text, g.opts.ConfidenceThreshold, true)
}

func (g *Generator) generate(ctx context.Context, text string, threshold float64, forceLLM bool) core.HybridResult {
	start := time.Now()

	var ruleRes core.PipelineResult
	if !forceLLM {
		ruleRes = g.pipeline.Process(text)
		if ruleRes.Success && ruleRes.Confidence >= threshold && acceptByDomain(ruleRes) {
			res := core.HybridResult{
				Command:    ruleRes.Command,
				Domain:     ruleRes.Domain,
				Source:     core.SourceRules,
				Confidence: ruleRes.Confidence,
				LatencyMS:  msSince(start),
				Success:    true,
			}
			g.stats.Record(res)
			return res
		}
	}

	if g.llm == nil {
		// Rules-only deployment: hand back whatever the pipeline produced.
		errMsg := ruleRes.Error
		if !ruleRes.Success && errMsg == "" {
			errMsg = "rule pipeline produced no command"
		}
		res := core.HybridResult{
			Command:    ruleRes.Command,
			Domain:     ruleRes.Domain,
			Source:     core.SourceRules,
			Confidence: ruleRes.Confidence,
			LatencyMS:  msSince(start),
			Success:    ruleRes.Success,
			Error:      errMsg,
			Note:       "LLM fallback not available",
		}
		g.stats.Record(res)
		return res
	}

	res := g.completeLLM(ctx, text, ruleRes)
	res.LatencyMS = msSince(start)
	g.stats.Record(res)
	return res
}

func (g *Generator) completeLLM(ctx context.Context, text string, ruleRes core.PipelineResult) core.HybridResult {
	user := text
	if ruleRes.Domain != "" && ruleRes.Domain != "unknown" {
		user = "Request: " + text + "\nLikely domain: " + ruleRes.Domain
	}

	callStart := time.Now()
	out, err := g.llm.Complete(ctx, systemPrompt, user, g.opts.MaxTokens, g.opts.Temperature)
	callDur := time.Since(callStart)

	promptTokens, _ := g.opts.Tokens.CountMessages(g.opts.Model, []string{systemPrompt, user})
	completionTokens, _ := g.opts.Tokens.Count(g.opts.Model, out)
	estCost := g.opts.Cost.EstimateForModel(g.opts.Model, promptTokens, completionTokens)

	res := core.HybridResult{
		Domain:        ruleRes.Domain,
		Source:        core.SourceLLM,
		Confidence:    0.5,
		LLMCalls:      1,
		EstimatedCost: estCost,
	}
	if err != nil {
		res.Success = false
		res.Error = err.Error()
		g.logger.LogLLMRequest(g.opts.Model, "error", callDur, promptTokens+completionTokens, estCost)
		return res
	}

	res.Command = strings.TrimSpace(out)
	res.Success = res.Command != ""
	if !res.Success {
		res.Error = "empty completion"
	}
	g.logger.LogLLMRequest(g.opts.Model, "ok", callDur, promptTokens+completionTokens, estCost)
	return res
}

// acceptByDomain holds the per-domain acceptance conditions: a rule result
// without its anchor entity is not trusted even at high confidence.
func acceptByDomain(r core.PipelineResult) bool {
	switch strings.ToLower(r.Domain) {
	case "sql":
		return r.Entities["table"] != ""
	case "docker", "container":
		return r.Entities["container"] != "" || r.Entities["image"] != "" || bareContainerIntent(r.Intent)
	case "kubernetes", "orchestration":
		return r.Entities["resource_type"] != "" || bareOrchestrationIntent(r.Intent)
	}
	return true
}

// bareContainerIntent lists container intents that need no target entity.
func bareContainerIntent(intent string) bool {
	return intent == "ps" || intent == "images"
}

// bareOrchestrationIntent lists orchestration intents addressed by name only.
func bareOrchestrationIntent(intent string) bool {
	return intent == "scale" || intent == "logs" || intent == "describe"
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
