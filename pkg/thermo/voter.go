package thermo

import (
	"fmt"
	"math"

	"github.com/drift-line/nlcmd/core"
)

// Voting strategies.
const (
	VoteEnergy   = "energy"
	VoteEntropy  = "entropy"
	VoteCombined = "combined"
)

// MajorityVoter picks the best chain result from a sampler batch. Ties break
// on first occurrence, so the choice is stable for a given input order and
// the winner is the same element regardless of how the batch is permuted.
type MajorityVoter struct {
	strategy string
}

// NewMajorityVoter creates a voter; an unknown strategy falls back to energy.
func NewMajorityVoter(strategy string) *MajorityVoter {
	switch strategy {
	case VoteEnergy, VoteEntropy, VoteCombined:
	default:
		strategy = VoteEnergy
	}
	return &MajorityVoter{strategy: strategy}
}

// Strategy returns the active strategy name.
func (v *MajorityVoter) Strategy() string { return v.strategy }

// Vote selects the winning result. An empty batch is an error.
func (v *MajorityVoter) Vote(results []core.SamplerResult) (core.SamplerResult, error) {
	if len(results) == 0 {
		return core.SamplerResult{}, fmt.Errorf("no sampler results to vote on")
	}

	switch v.strategy {
	case VoteEntropy:
		return minBy(results, func(r core.SamplerResult) float64 { return r.EntropyProduction }), nil
	case VoteCombined:
		return v.voteCombined(results), nil
	default:
		return minBy(results, func(r core.SamplerResult) float64 { return r.Energy }), nil
	}
}

// voteCombined scores each result by a weighted sum of min-max normalized
// energy and entropy and takes the minimum.
func (v *MajorityVoter) voteCombined(results []core.SamplerResult) core.SamplerResult {
	eMin, eMax := math.Inf(1), math.Inf(-1)
	sMin, sMax := math.Inf(1), math.Inf(-1)
	for _, r := range results {
		if !math.IsInf(r.Energy, 0) {
			eMin = math.Min(eMin, r.Energy)
			eMax = math.Max(eMax, r.Energy)
		}
		sMin = math.Min(sMin, r.EntropyProduction)
		sMax = math.Max(sMax, r.EntropyProduction)
	}

	const energyWeight, entropyWeight = 0.7, 0.3
	return minBy(results, func(r core.SamplerResult) float64 {
		e := normalize(r.Energy, eMin, eMax)
		s := normalize(r.EntropyProduction, sMin, sMax)
		return energyWeight*e + entropyWeight*s
	})
}

func normalize(v, min, max float64) float64 {
	if math.IsInf(v, 0) {
		return 1
	}
	if max <= min {
		return 0
	}
	return (v - min) / (max - min)
}

func minBy(results []core.SamplerResult, score func(core.SamplerResult) float64) core.SamplerResult {
	best := results[0]
	bestScore := score(results[0])
	for _, r := range results[1:] {
		if s := score(r); s < bestScore {
			best = r
			bestScore = s
		}
	}
	return best
}
