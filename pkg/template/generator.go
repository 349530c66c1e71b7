// Package template turns (domain, intent, entities) triples into concrete
// command strings. Defaults are applied through a category dispatch table
// keyed by intent prefix; per-domain normalization runs before substitution.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of one generation call.
type Result struct {
	Command  string `json:"command"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Missing  string `json:"missing,omitempty"`
	Template string `json:"template,omitempty"`
}

// Generator renders command templates. Stateless after construction; safe
// for concurrent use.
type Generator struct {
	templates map[string]string
}

// NewGenerator creates a generator over the built-in template table.
func NewGenerator() *Generator {
	return &Generator{templates: commandTemplates}
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Generate renders the template for (domain, intent) after defaults and
// normalization. Unknown pairs yield a marked failure, never a no-op.
func (g *Generator) Generate(domain, intent string, entities, context map[string]string) Result {
	key := strings.ToLower(domain) + "/" + intent
	tmpl, ok := g.templates[key]
	if !ok {
		return Result{
			Success: false,
			Error:   fmt.Sprintf("no template registered for domain %q intent %q", domain, intent),
		}
	}
	if entities == nil {
		entities = map[string]string{}
	}

	// Accumulator starts from the extracted entities; handlers and
	// normalizers only fill gaps or rewrite composite fields.
	acc := make(map[string]string, len(entities)+8)
	for k, v := range entities {
		acc[k] = v
	}

	applyDefaults(intent, entities, acc)

	var normErr error
	switch strings.ToLower(domain) {
	case "sql":
		normalizeSQL(entities, acc)
	case "shell":
		normalizeShell(intent, entities, acc)
	case "docker", "container":
		normErr = normalizeContainer(intent, entities, acc)
	case "kubernetes", "orchestration":
		normErr = normalizeOrchestration(entities, acc)
	case "dsl":
		normalizeDSL(entities, context, acc)
	}
	if normErr != nil {
		return Result{Success: false, Error: normErr.Error(), Template: tmpl}
	}

	command := tmpl
	var missing []string
	command = placeholderRe.ReplaceAllStringFunc(command, func(ph string) string {
		name := ph[1 : len(ph)-1]
		if v, ok := acc[name]; ok && v != "" {
			return v
		}
		if _, ok := acc[name]; ok {
			// Present but empty: optional fragment, collapses away.
			return ""
		}
		missing = append(missing, name)
		return ph
	})

	if len(missing) > 0 {
		return Result{
			Success:  false,
			Error:    fmt.Sprintf("missing entities for %s: %s", key, strings.Join(missing, ", ")),
			Missing:  strings.Join(missing, ","),
			Template: tmpl,
		}
	}

	return Result{Command: strings.TrimSpace(command), Success: true, Template: tmpl}
}

// Supports reports whether a template exists for (domain, intent).
func (g *Generator) Supports(domain, intent string) bool {
	_, ok := g.templates[strings.ToLower(domain)+"/"+intent]
	return ok
}
