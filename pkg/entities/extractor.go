// Package entities extracts structured fields from raw natural-language text.
// Each domain has an independent extractor; all patterns are compiled once at
// package init and are safe for unlimited concurrent readers.
package entities

import "strings"

// Extractor dispatches to the per-domain extraction functions.
type Extractor struct{}

// NewExtractor creates an entity extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract populates a flat string-keyed map for the given domain.
// Unknown domains return an empty map, never nil.
func (e *Extractor) Extract(domain, text string) map[string]string {
	switch strings.ToLower(domain) {
	case "sql":
		return ExtractSQL(text)
	case "shell":
		return ExtractShell(text)
	case "docker", "container":
		return ExtractContainer(text)
	case "kubernetes", "orchestration":
		return ExtractOrchestration(text)
	default:
		return map[string]string{}
	}
}
