package detect

import (
	"strings"

	"github.com/drift-line/nlcmd/core"
)

// keywordStage walks a keyword table and fires on substring presence.
// Priority and general tables are separate stage instances so the cascade
// order stays explicit.
type keywordStage struct {
	name  string
	rules []keywordRule
}

func (s *keywordStage) Name() string { return s.name }

func (s *keywordStage) TryDetect(text string) (core.DetectionResult, bool) {
	lower := strings.ToLower(text)
	for _, rule := range s.rules {
		if strings.Contains(lower, rule.Keyword) {
			return core.DetectionResult{
				Domain:         rule.Domain,
				Intent:         rule.Intent,
				Confidence:     rule.Confidence,
				MatchedKeyword: rule.Keyword,
			}, true
		}
	}
	return core.DetectionResult{}, false
}

// fuzzyKeywordStage runs edit-distance matching against the keyword table,
// catching typos the substring stages miss ("dokcer ps", "znajdz plki").
type fuzzyKeywordStage struct {
	rules    []keywordRule
	minRatio float64
}

func (s *fuzzyKeywordStage) Name() string { return "fuzzy_keywords" }

func (s *fuzzyKeywordStage) TryDetect(text string) (core.DetectionResult, bool) {
	bestRatio := 0.0
	var bestRule keywordRule

	for _, rule := range s.rules {
		ratio := bestTokenRatio(text, rule.Keyword)
		if ratio > bestRatio {
			bestRatio = ratio
			bestRule = rule
		}
	}

	if bestRatio < s.minRatio {
		return core.DetectionResult{}, false
	}
	return core.DetectionResult{
		Domain:         bestRule.Domain,
		Intent:         bestRule.Intent,
		Confidence:     core.Clamp01(bestRule.Confidence * bestRatio),
		MatchedKeyword: bestRule.Keyword,
	}, true
}
