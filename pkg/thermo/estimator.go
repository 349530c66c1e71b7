package thermo

import "github.com/drift-line/nlcmd/core"

// Energy cost constants. Joule figures are order-of-magnitude estimates for
// datacenter inference and an analog annealer doing the same relaxation.
const (
	joulesPerLLMToken    = 0.3
	joulesPerSamplerStep = 1e-4
	analogJoulesPerStep  = 1e-7
	joulesPerHybridToken = joulesPerLLMToken
)

// Estimator compares the compute cost of pure-LLM generation against hybrid
// generation with sampling. Purely informational; the output never feeds
// back into routing.
type Estimator struct{}

// NewEstimator creates an estimator.
func NewEstimator() *Estimator { return &Estimator{} }

// Estimate prices llmTokens of pure-LLM work against hybridTokens of LLM
// work plus samplerSteps of sampling, digitally and on analog hardware.
func (e *Estimator) Estimate(llmTokens, hybridTokens, samplerSteps int) core.EnergyEstimate {
	llmJ := float64(llmTokens) * joulesPerLLMToken
	hybridJ := float64(hybridTokens)*joulesPerHybridToken + float64(samplerSteps)*joulesPerSamplerStep
	analogJ := float64(hybridTokens)*joulesPerHybridToken + float64(samplerSteps)*analogJoulesPerStep

	est := core.EnergyEstimate{
		LLMJoules:    llmJ,
		HybridJoules: hybridJ,
		AnalogJoules: analogJ,
		LLMTokens:    llmTokens,
		HybridTokens: hybridTokens,
		SamplerSteps: samplerSteps,
	}
	if llmJ > 0 {
		est.SavingsDigitalPct = (1 - hybridJ/llmJ) * 100
		est.SavingsAnalogPct = (1 - analogJ/llmJ) * 100
	}
	return est
}
