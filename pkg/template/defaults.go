package template

import (
	"sort"
	"strings"
	"time"
)

// defaultHandler fills intent defaults into the accumulator before template
// substitution. Handlers are pure functions of (entities, acc): they read
// extracted entities and write only missing keys.
type defaultHandler func(entities map[string]string, acc map[string]string)

// categoryHandlers dispatches by intent prefix. One O(1) lookup plus one
// handler per category replaces a conditional ladder over every intent.
var categoryHandlers = map[string]defaultHandler{
	"backup_":      backupDefaults,
	"system_":      systemDefaults,
	"dev_":         devDefaults,
	"security_":    securityDefaults,
	"text_search_": textSearchDefaults,
	"network_":     networkDefaults,
	"disk_":        diskDefaults,
	"process_":     processDefaults,
	"service_":     serviceDefaults,
}

// browserIntents is the fixed set handled outside the prefix scheme.
var browserIntents = map[string]defaultHandler{
	"browser_open":       browserDefaults,
	"browser_search":     browserDefaults,
	"browser_screenshot": browserDefaults,
}

// sortedPrefixes is built once so longest-prefix wins deterministically.
var sortedPrefixes = func() []string {
	out := make([]string, 0, len(categoryHandlers))
	for p := range categoryHandlers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// applyDefaults runs the matching category handler for the intent.
func applyDefaults(intent string, entities map[string]string, acc map[string]string) {
	if h, ok := browserIntents[intent]; ok {
		h(entities, acc)
		return
	}
	for _, prefix := range sortedPrefixes {
		if strings.HasPrefix(intent, prefix) {
			categoryHandlers[prefix](entities, acc)
			return
		}
	}
}

func setIfMissing(acc map[string]string, key, value string) {
	if _, ok := acc[key]; !ok {
		acc[key] = value
	}
}

func backupDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "path", ".")
	setIfMissing(acc, "archive", "backup_"+time.Now().Format("20060102")+".tar.gz")
}

func systemDefaults(entities, acc map[string]string) {
	// System-level intents always require confirmation downstream.
	setIfMissing(acc, "requires_confirmation", "true")
}

func devDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "scope", ".")
}

func securityDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "scope", "/")
	setIfMissing(acc, "requires_confirmation", "true")
}

func textSearchDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "scope", ".")
	if q := entities["query"]; q != "" {
		setIfMissing(acc, "query", q)
	}
}

func networkDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "interface", "")
}

func diskDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "human_flag", "-h")
}

func processDefaults(entities, acc map[string]string) {
	setIfMissing(acc, "sort_key", "-%cpu")
	setIfMissing(acc, "limit", "10")
}

func serviceDefaults(entities, acc map[string]string) {
	if p := entities["process"]; p != "" {
		setIfMissing(acc, "service", p)
	}
}

func browserDefaults(entities, acc map[string]string) {
	if u := entities["url"]; u != "" {
		setIfMissing(acc, "url", u)
	}
	if q := entities["query"]; q != "" {
		setIfMissing(acc, "query", q)
	}
	setIfMissing(acc, "output", "screenshot.png")
}
