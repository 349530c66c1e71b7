// Package pipeline wires detection, entity extraction and template
// generation into the deterministic rule path consumed by the hybrid layer.
package pipeline

import (
	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/detect"
	"github.com/drift-line/nlcmd/pkg/entities"
	"github.com/drift-line/nlcmd/pkg/logging"
	"github.com/drift-line/nlcmd/pkg/template"
)

// Rules is the detect → extract → generate pipeline. Stateless per call.
type Rules struct {
	detector  *detect.Detector
	extractor *entities.Extractor
	generator *template.Generator
	logger    *logging.Logger
}

var _ core.RulePipeline = (*Rules)(nil)

// NewRules builds the pipeline. A nil logger is replaced with a no-op one.
func NewRules(detector *detect.Detector, logger *logging.Logger) *Rules {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Rules{
		detector:  detector,
		extractor: entities.NewExtractor(),
		generator: template.NewGenerator(),
		logger:    logger,
	}
}

// Process runs the full rule path for one request. Failures are reported in
// the result, never as panics; an unrecognized intent simply comes back with
// Success=false so the hybrid layer can decide what to do next.
func (r *Rules) Process(text string) core.PipelineResult {
	det := r.detector.Detect(text)
	if det.Domain == "unknown" || det.Intent == "unknown" {
		return core.PipelineResult{
			Success:    false,
			Domain:     det.Domain,
			Intent:     det.Intent,
			Confidence: det.Confidence,
			Error:      "intent not recognized",
		}
	}

	ents := r.extractor.Extract(det.Domain, text)
	gen := r.generator.Generate(det.Domain, det.Intent, ents, nil)

	out := core.PipelineResult{
		Success:    gen.Success,
		Command:    gen.Command,
		Domain:     det.Domain,
		Intent:     det.Intent,
		Entities:   ents,
		Confidence: det.Confidence,
	}
	if !gen.Success {
		out.Error = gen.Error
	}

	r.logger.LogDetection("pipeline", det.Domain, det.Intent, det.Confidence, det.MatchedKeyword)
	return out
}
