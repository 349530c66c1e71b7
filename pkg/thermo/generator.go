package thermo

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/logging"
)

// GeneratorOptions configures the optimization-path generator.
type GeneratorOptions struct {
	Sampler        SamplerConfig
	VoterStrategy  string
	RouteThreshold float64
	// LLMTokenBaseline sizes the informational energy comparison: how many
	// tokens a pure-LLM solution of the same problem would burn.
	LLMTokenBaseline int
	Logger           *logging.Logger
}

// DefaultGeneratorOptions returns the stock settings.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Sampler:          DefaultSamplerConfig(),
		VoterStrategy:    VoteEnergy,
		RouteThreshold:   0.5,
		LLMTokenBaseline: 800,
	}
}

// Generator runs the optimization path end to end: parse (unless a problem
// is supplied), route, sample, vote, decode. Failures degrade to a populated
// Errors list, never a panic.
type Generator struct {
	sampler   *LangevinSampler
	voter     *MajorityVoter
	router    *Router
	estimator *Estimator
	opts      GeneratorOptions
	logger    *logging.Logger
}

// NewGenerator wires the optimization path.
func NewGenerator(opts GeneratorOptions) *Generator {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.LLMTokenBaseline <= 0 {
		opts.LLMTokenBaseline = DefaultGeneratorOptions().LLMTokenBaseline
	}
	return &Generator{
		sampler:   NewLangevinSampler(opts.Sampler),
		voter:     NewMajorityVoter(opts.VoterStrategy),
		router:    NewRouter(opts.RouteThreshold),
		estimator: NewEstimator(),
		opts:      opts,
		logger:    opts.Logger,
	}
}

// Generate solves the optimization request in text. A non-nil problem
// bypasses text parsing entirely.
func (g *Generator) Generate(ctx context.Context, text string, problem *Problem) core.ThermodynamicResult {
	start := time.Now()

	var p Problem
	if problem != nil {
		p = *problem
	} else {
		p = Parse(text)
	}

	res := core.ThermodynamicResult{
		Problem:   p.OptimizationProblem,
		Energy:    math.Inf(1),
		Converged: false,
	}

	// An explicitly supplied problem is an explicit request for the sampler;
	// only parsed text goes through the complexity gate.
	if problem != nil {
		res.Route = RouteLangevin
	} else {
		res.Route = g.router.Route(text, p)
	}
	if res.Route == RouteTemplate {
		res.LatencyMS = msSince(start)
		return res
	}

	model, err := g.modelFor(p)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		res.LatencyMS = msSince(start)
		return res
	}

	samples := g.sampler.Sample(ctx, model)
	best, err := g.voter.Vote(samples)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		res.LatencyMS = msSince(start)
		return res
	}

	res.NSamples = len(samples)
	res.Energy = best.Energy
	res.Entropy = best.EntropyProduction
	res.Converged = best.Converged
	if !math.IsInf(best.Energy, 0) {
		res.Solution = model.Decode(best.Sample)
	} else {
		res.Errors = append(res.Errors, "all chains diverged")
	}

	totalSteps := 0
	for _, s := range samples {
		totalSteps += s.NSteps
	}
	est := g.estimator.Estimate(g.opts.LLMTokenBaseline, g.opts.LLMTokenBaseline/10, totalSteps)
	res.EnergyEstimate = &est

	res.LatencyMS = msSince(start)
	g.logger.LogSampler(string(p.ProblemType), len(samples), totalSteps, best.Energy, best.Converged, time.Since(start))
	return res
}

// modelFor builds the energy model for a parsed problem. Problems without
// variables never reach the sampler.
func (g *Generator) modelFor(p Problem) (core.EnergyModel, error) {
	if len(p.Variables) == 0 {
		return nil, fmt.Errorf("problem has no variables; cannot sample")
	}
	switch p.ProblemType {
	case core.ProblemSchedule:
		if p.NTasks <= 0 || p.NSlots <= 0 {
			return nil, fmt.Errorf("schedule problem missing task or slot count")
		}
		return NewSchedulingEnergy(p.NTasks, p.NSlots, p.Constraints), nil
	case core.ProblemAllocate:
		if p.NResources <= 0 || p.NConsumers <= 0 {
			return nil, fmt.Errorf("allocation problem missing resource or consumer count")
		}
		return NewAllocationEnergy(p.NResources, p.NConsumers, p.Constraints), nil
	case core.ProblemRoute:
		return nil, fmt.Errorf("route problems have no energy model yet")
	default:
		return nil, fmt.Errorf("unknown problem type")
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
