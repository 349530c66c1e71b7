package detect

import (
	"strings"

	"github.com/drift-line/nlcmd/core"
)

// SchemaEntry binds a known schema phrase (a table, command or resource the
// deployment actually has) to its (domain, intent).
type SchemaEntry struct {
	Phrase string
	Domain string
	Intent string
}

// SchemaMatch is the raw outcome of matching against the schema.
type SchemaMatch struct {
	Matched    bool
	Entry      SchemaEntry
	Confidence float64
}

// SchemaMatcher fuzzy-matches input text against known schema phrases.
// Entries come from whatever schema source the host system provides; the
// matcher itself is read-only after construction.
type SchemaMatcher struct {
	entries []SchemaEntry
}

// NewSchemaMatcher creates a matcher over the given entries.
func NewSchemaMatcher(entries []SchemaEntry) *SchemaMatcher {
	return &SchemaMatcher{entries: entries}
}

// Match returns the best-scoring entry. Matched is true when the best ratio
// clears the floor below which a match is meaningless.
func (m *SchemaMatcher) Match(text string) SchemaMatch {
	const matchFloor = 0.55

	best := SchemaMatch{}
	for _, e := range m.entries {
		ratio := bestTokenRatio(text, e.Phrase)
		if ratio > best.Confidence {
			best = SchemaMatch{Entry: e, Confidence: ratio}
		}
	}
	best.Matched = best.Confidence >= matchFloor
	return best
}

// schemaStage is the high-bar schema strategy: accept on strong ratio, or on
// a moderate ratio when the normalized phrase literally occurs in the input.
type schemaStage struct {
	matcher      *SchemaMatcher
	highBar      float64 // accept outright
	substringBar float64 // accept with substring corroboration
}

func newSchemaStage(m *SchemaMatcher) *schemaStage {
	return &schemaStage{matcher: m, highBar: 0.85, substringBar: 0.70}
}

func (s *schemaStage) Name() string { return "schema" }

func (s *schemaStage) TryDetect(text string) (core.DetectionResult, bool) {
	match := s.matcher.Match(text)
	if !match.Matched {
		return core.DetectionResult{}, false
	}

	accept := match.Confidence >= s.highBar
	if !accept && match.Confidence >= s.substringBar {
		normPhrase := strings.ToLower(strings.TrimSpace(match.Entry.Phrase))
		accept = strings.Contains(strings.ToLower(text), normPhrase)
	}
	if !accept {
		return core.DetectionResult{}, false
	}

	return core.DetectionResult{
		Domain:         match.Entry.Domain,
		Intent:         match.Entry.Intent,
		Confidence:     core.Clamp01(match.Confidence),
		MatchedKeyword: match.Entry.Phrase,
	}, true
}

// schemaFallbackStage is the low-bar tail of the cascade: any schema match
// counts, regardless of confidence.
type schemaFallbackStage struct {
	matcher *SchemaMatcher
}

func (s *schemaFallbackStage) Name() string { return "schema_fallback" }

func (s *schemaFallbackStage) TryDetect(text string) (core.DetectionResult, bool) {
	match := s.matcher.Match(text)
	if !match.Matched {
		return core.DetectionResult{}, false
	}
	return core.DetectionResult{
		Domain:         match.Entry.Domain,
		Intent:         match.Entry.Intent,
		Confidence:     core.Clamp01(match.Confidence),
		MatchedKeyword: match.Entry.Phrase,
	}, true
}

// DefaultSchemaEntries is a starter schema for deployments without a live
// schema source.
func DefaultSchemaEntries() []SchemaEntry {
	return []SchemaEntry{
		{Phrase: "pokaż dane z tabeli users", Domain: "sql", Intent: "select"},
		{Phrase: "show data from table users", Domain: "sql", Intent: "select"},
		{Phrase: "znajdź pliki w katalogu", Domain: "shell", Intent: "file_search"},
		{Phrase: "find files in directory", Domain: "shell", Intent: "file_search"},
		{Phrase: "pokaż działające kontenery", Domain: "docker", Intent: "ps"},
		{Phrase: "list running containers", Domain: "docker", Intent: "ps"},
		{Phrase: "pokaż pody", Domain: "kubernetes", Intent: "get"},
		{Phrase: "list pods", Domain: "kubernetes", Intent: "get"},
	}
}
