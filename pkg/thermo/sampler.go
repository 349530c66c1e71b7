package thermo

import (
	"context"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drift-line/nlcmd/core"
)

// SamplerConfig controls the Langevin chains.
type SamplerConfig struct {
	// Steps per chain; 0 picks an adaptive count from the problem size.
	Steps int
	// StepSize is the discretization step.
	StepSize float64
	// KT is the sampling temperature.
	KT float64
	// Chains is the number of independent chains.
	Chains int
	// Budget is the wall-clock limit per chain, checked every iteration.
	Budget time.Duration
	// Seed makes chains reproducible; 0 seeds from the clock.
	Seed int64
}

// DefaultSamplerConfig returns the stock sampler settings.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		StepSize: 0.01,
		KT:       1.0,
		Chains:   8,
		Budget:   2 * time.Second,
	}
}

// LangevinSampler minimizes an energy model with discretized overdamped
// Langevin dynamics: z' = z - eta*grad(E) + sqrt(2*eta*kT)*xi. Chains are
// independent, each with its own random stream, and run in parallel; results
// are merged only at the voter boundary.
type LangevinSampler struct {
	cfg SamplerConfig
}

// NewLangevinSampler creates a sampler; zero config fields get defaults.
func NewLangevinSampler(cfg SamplerConfig) *LangevinSampler {
	def := DefaultSamplerConfig()
	if cfg.StepSize <= 0 {
		cfg.StepSize = def.StepSize
	}
	if cfg.KT <= 0 {
		cfg.KT = def.KT
	}
	if cfg.Chains <= 0 {
		cfg.Chains = def.Chains
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	return &LangevinSampler{cfg: cfg}
}

// stepsFor bounds latency on small problems and gives larger ones room.
func (s *LangevinSampler) stepsFor(dim int) int {
	if s.cfg.Steps > 0 {
		return s.cfg.Steps
	}
	steps := 300 + 30*dim
	if steps > 1500 {
		steps = 1500
	}
	return steps
}

// Sample runs all chains and returns one result per chain. Numerical
// divergence is caught per chain and reported as converged=false with the
// best finite energy seen; it never aborts the other chains.
func (s *LangevinSampler) Sample(ctx context.Context, model core.EnergyModel) []core.SamplerResult {
	dim := model.Dim()
	steps := s.stepsFor(dim)
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]core.SamplerResult, s.cfg.Chains)
	g, gctx := errgroup.WithContext(ctx)
	for chain := 0; chain < s.cfg.Chains; chain++ {
		chain := chain
		g.Go(func() error {
			results[chain] = s.runChain(gctx, model, dim, steps, seed+int64(chain))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *LangevinSampler) runChain(ctx context.Context, model core.EnergyModel, dim, steps int, seed int64) core.SamplerResult {
	rng := rand.New(rand.NewSource(seed))
	deadline := time.Now().Add(s.cfg.Budget)

	z := make([]float64, dim)
	for i := range z {
		z[i] = rng.NormFloat64() * 0.5
	}
	grad := make([]float64, dim)
	noiseScale := math.Sqrt(2 * s.cfg.StepSize * s.cfg.KT)

	bestEnergy := math.Inf(1)
	bestZ := append([]float64(nil), z...)
	entropy := 0.0

	// Trailing gradient norms for the stabilization criterion.
	const window = 20
	norms := make([]float64, 0, window)

	stepsRun := 0
	diverged := false

	for step := 0; step < steps; step++ {
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		model.Gradient(z, grad)
		gradNorm2 := 0.0
		for _, g := range grad {
			gradNorm2 += g * g
		}
		if math.IsNaN(gradNorm2) || math.IsInf(gradNorm2, 0) {
			diverged = true
			break
		}

		for i := range z {
			z[i] += -s.cfg.StepSize*grad[i] + noiseScale*rng.NormFloat64()
		}
		stepsRun++

		// Entropy production of the overdamped dynamics accumulates as
		// eta*|grad|^2/kT per step.
		entropy += s.cfg.StepSize * gradNorm2 / s.cfg.KT

		e := model.Energy(z)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			diverged = true
			break
		}
		if e < bestEnergy {
			bestEnergy = e
			copy(bestZ, z)
		}

		if len(norms) == window {
			copy(norms, norms[1:])
			norms = norms[:window-1]
		}
		norms = append(norms, math.Sqrt(gradNorm2))
	}

	converged := false
	if !diverged && stepsRun > 0 {
		converged = bestEnergy <= model.ConvergedEnergy() || gradientStabilized(norms)
	}

	return core.SamplerResult{
		Sample:            bestZ,
		Energy:            bestEnergy,
		EntropyProduction: entropy,
		NSteps:            stepsRun,
		Converged:         converged,
	}
}

// gradientStabilized reports whether the trailing gradient norms have a
// relative spread under 5%.
func gradientStabilized(norms []float64) bool {
	if len(norms) < 10 {
		return false
	}
	mean := 0.0
	for _, n := range norms {
		mean += n
	}
	mean /= float64(len(norms))
	if mean == 0 {
		return true
	}
	variance := 0.0
	for _, n := range norms {
		d := n - mean
		variance += d * d
	}
	variance /= float64(len(norms))
	return math.Sqrt(variance)/mean < 0.05
}
