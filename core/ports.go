package core

import "context"

// DetectionStrategy is one stage of the detection cascade. The cascade calls
// TryDetect in priority order and stops at the first hit.
type DetectionStrategy interface {
	Name() string
	TryDetect(text string) (DetectionResult, bool)
}

// RulePipeline runs the deterministic detect→extract→generate path.
type RulePipeline interface {
	Process(text string) PipelineResult
}

// PipelineResult is what the rule pipeline hands to the hybrid layer.
type PipelineResult struct {
	Success    bool              `json:"success"`
	Command    string            `json:"command"`
	Domain     string            `json:"domain"`
	Intent     string            `json:"intent"`
	Entities   map[string]string `json:"entities"`
	Confidence float64           `json:"confidence"`
	Error      string            `json:"error,omitempty"`
}

// LLMClient is the network contract consumed by the hybrid layer.
// Implementations must honor ctx cancellation and return errors rather
// than panic on transport failures.
type LLMClient interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error)
}

// Embedder converts text to a vector representation.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// EnergyModel is a differentiable objective over a continuous relaxation.
type EnergyModel interface {
	// Dim returns the length of the relaxation vector.
	Dim() int
	// Energy evaluates the objective; lower is better.
	Energy(z []float64) float64
	// Gradient writes dE/dz into grad (len == Dim).
	Gradient(z, grad []float64)
	// Decode maps the relaxation to a discrete assignment.
	Decode(z []float64) []int
	// ConvergedEnergy is the problem-scaled threshold below which a final
	// energy counts as converged.
	ConvergedEnergy() float64
}
