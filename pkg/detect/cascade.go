package detect

import (
	"fmt"
	"sort"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/embeddings"
	"github.com/drift-line/nlcmd/pkg/logging"
)

// Options configures the detector cascade.
type Options struct {
	// Classifier is the optional ML stage. When nil the cascade starts at
	// the schema matcher; the explicit overrides then stay deterministic.
	Classifier    Classifier
	SchemaEntries []SchemaEntry
	Embedder      embeddings.Embedder
	// EnableFuzzy toggles the edit-distance stage.
	EnableFuzzy bool
	// SemanticThreshold is the cosine bar for the embedding fallback.
	SemanticThreshold float64
	Logger            *logging.Logger
}

// DefaultOptions returns the production cascade configuration.
func DefaultOptions() Options {
	return Options{
		SchemaEntries:     DefaultSchemaEntries(),
		EnableFuzzy:       true,
		SemanticThreshold: 0.90,
	}
}

// Detector runs the ordered strategy cascade. Strategies are tried in a
// fixed priority order; the first hit wins. Construction compiles every
// table once; Detect is safe for concurrent use.
type Detector struct {
	stages []core.DetectionStrategy
	logger *logging.Logger
}

// NewDetector assembles the cascade in its canonical order.
func NewDetector(opts Options) (*Detector, error) {
	if opts.SchemaEntries == nil {
		opts.SchemaEntries = DefaultSchemaEntries()
	}
	if opts.SemanticThreshold == 0 {
		opts.SemanticThreshold = 0.90
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Embedder == nil {
		opts.Embedder = embeddings.NewPhraseEmbedder(nil, corpusPhrases())
	}

	schemaMatcher := NewSchemaMatcher(opts.SchemaEntries)

	semantic, err := NewSemanticStage(opts.Embedder, defaultCorpus, opts.SemanticThreshold)
	if err != nil {
		return nil, fmt.Errorf("build semantic stage: %w", err)
	}

	var stages []core.DetectionStrategy
	if opts.Classifier != nil {
		stages = append(stages, &classifierStage{name: "classifier_high", classifier: opts.Classifier, minConfidence: 0.90})
	}
	stages = append(stages, newSchemaStage(schemaMatcher))
	if opts.Classifier != nil {
		stages = append(stages, &classifierStage{name: "classifier_medium", classifier: opts.Classifier, minConfidence: 0.70})
	}
	stages = append(stages,
		NewOverrideStage(),
		&keywordStage{name: "priority_keywords", rules: priorityRules},
		&keywordStage{name: "general_keywords", rules: generalRules},
	)
	if opts.EnableFuzzy {
		stages = append(stages, &fuzzyKeywordStage{
			rules:    append(append([]keywordRule{}, priorityRules...), generalRules...),
			minRatio: 0.85,
		})
	}
	stages = append(stages,
		&schemaFallbackStage{matcher: schemaMatcher},
		semantic,
	)

	return &Detector{stages: stages, logger: opts.Logger}, nil
}

// Detect runs the cascade and returns the first hit, or the unknown result
// when every stage passes.
func (d *Detector) Detect(text string) core.DetectionResult {
	for _, stage := range d.stages {
		if res, ok := stage.TryDetect(text); ok {
			res.ClampConfidence()
			d.logger.LogDetection(stage.Name(), res.Domain, res.Intent, res.Confidence, res.MatchedKeyword)
			return res
		}
	}
	return core.Unknown()
}

// DetectAll collects every stage's non-empty result, deduplicated by
// (domain, intent) keeping the highest confidence, sorted descending.
// Upstream ambiguity resolution consumes this.
func (d *Detector) DetectAll(text string) []core.DetectionResult {
	best := make(map[string]core.DetectionResult)
	for _, stage := range d.stages {
		res, ok := stage.TryDetect(text)
		if !ok || res.Domain == "" {
			continue
		}
		res.ClampConfidence()
		key := res.Domain + "/" + res.Intent
		if prev, seen := best[key]; !seen || res.Confidence > prev.Confidence {
			best[key] = res
		}
	}

	out := make([]core.DetectionResult, 0, len(best))
	for _, res := range best {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Domain+"/"+out[i].Intent < out[j].Domain+"/"+out[j].Intent
	})
	return out
}

// corpusPhrases flattens the training corpus for embedder pre-training.
func corpusPhrases() []string {
	var phrases []string
	for _, list := range defaultCorpus {
		phrases = append(phrases, list...)
	}
	return phrases
}
