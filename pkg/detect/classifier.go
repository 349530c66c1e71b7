package detect

import (
	"math"
	"strings"
	"unicode"

	"github.com/drift-line/nlcmd/core"
)

// Classifier scores text against known (domain, intent) classes.
type Classifier interface {
	Classify(text string) (core.DetectionResult, bool)
}

// classLabel is one trainable (domain, intent) class.
type classLabel struct {
	Domain string
	Intent string
}

// BagOfWordsClassifier is a term-frequency classifier over a phrase corpus.
// It stands in for a heavier ML model: deterministic, offline and cheap.
// Construct once; Classify is safe for concurrent readers.
type BagOfWordsClassifier struct {
	termWeights map[string]map[classLabel]float64
	classNorms  map[classLabel]float64
}

// NewBagOfWordsClassifier trains on phrases keyed by "domain/intent".
func NewBagOfWordsClassifier(corpus map[string][]string) *BagOfWordsClassifier {
	c := &BagOfWordsClassifier{
		termWeights: make(map[string]map[classLabel]float64),
		classNorms:  make(map[classLabel]float64),
	}

	for key, phrases := range corpus {
		parts := strings.SplitN(key, "/", 2)
		if len(parts) != 2 {
			continue
		}
		label := classLabel{Domain: parts[0], Intent: parts[1]}
		for _, phrase := range phrases {
			for _, tok := range tokenize(phrase) {
				if c.termWeights[tok] == nil {
					c.termWeights[tok] = make(map[classLabel]float64)
				}
				c.termWeights[tok][label] += 1.0
			}
		}
	}

	for _, classes := range c.termWeights {
		for label, w := range classes {
			c.classNorms[label] += w * w
		}
	}
	for label, n := range c.classNorms {
		c.classNorms[label] = math.Sqrt(n)
	}

	return c
}

// DefaultClassifier trains on the built-in phrase corpus.
func DefaultClassifier() *BagOfWordsClassifier {
	return NewBagOfWordsClassifier(defaultCorpus)
}

// Classify scores the text against every class and returns the best match.
func (c *BagOfWordsClassifier) Classify(text string) (core.DetectionResult, bool) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return core.DetectionResult{}, false
	}

	scores := make(map[classLabel]float64)
	matchedTokens := make(map[classLabel]int)
	for _, tok := range tokens {
		for label, w := range c.termWeights[tok] {
			scores[label] += w
			matchedTokens[label]++
		}
	}
	if len(scores) == 0 {
		return core.DetectionResult{}, false
	}

	var best classLabel
	bestScore := -1.0
	for label, s := range scores {
		norm := c.classNorms[label]
		if norm == 0 {
			continue
		}
		// Cosine-style score scaled by query coverage, so a one-word
		// brush against a large class does not dominate.
		coverage := float64(matchedTokens[label]) / float64(len(tokens))
		s = (s / norm) * coverage
		if s > bestScore {
			best, bestScore = label, s
		}
	}

	confidence := core.Clamp01(bestScore)
	if confidence <= 0 {
		return core.DetectionResult{}, false
	}
	return core.DetectionResult{
		Domain:     best.Domain,
		Intent:     best.Intent,
		Confidence: confidence,
	}, true
}

// classifierStage adapts a Classifier into one cascade stage with a
// minimum-confidence bar. The same classifier backs both the high bar
// (first stage) and the medium fallback later in the order.
type classifierStage struct {
	name          string
	classifier    Classifier
	minConfidence float64
}

func (s *classifierStage) Name() string { return s.name }

func (s *classifierStage) TryDetect(text string) (core.DetectionResult, bool) {
	res, ok := s.classifier.Classify(text)
	if !ok || res.Confidence < s.minConfidence {
		return core.DetectionResult{}, false
	}
	return res, true
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	filtered := tokens[:0]
	for _, tok := range tokens {
		if len(tok) >= 2 {
			filtered = append(filtered, tok)
		}
	}
	return filtered
}
