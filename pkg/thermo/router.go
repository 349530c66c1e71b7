package thermo

import (
	"regexp"
	"strings"

	"github.com/drift-line/nlcmd/core"
)

// Routes returned by the router.
const (
	RouteLangevin = "langevin"
	RouteTemplate = "template"
)

// optimizationWords contribute to the complexity score.
var optimizationWords = []string{
	"optimize", "zoptymalizuj", "optymaliz",
	"minimize", "zminimalizuj", "minimaliz",
	"maximize", "zmaksymalizuj", "maksymaliz",
	"balance", "zbalansuj", "zrównoważ", "zrownowaz",
	"harmonogram", "schedule", "przydziel",
}

var numberRe = regexp.MustCompile(`\d+`)

// Router chooses between the sampler path and the classic template path
// from a complexity heuristic over the text and parsed problem.
type Router struct {
	threshold float64
}

// NewRouter creates a router; threshold defaults to 0.5.
func NewRouter(threshold float64) *Router {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}
	return &Router{threshold: threshold}
}

// Complexity scores the request in [0,1] from optimization keywords,
// constraint count and numeric density.
func (r *Router) Complexity(text string, problem Problem) float64 {
	lower := strings.ToLower(text)
	score := 0.0

	for _, w := range optimizationWords {
		if strings.Contains(lower, w) {
			score += 0.25
			break
		}
	}
	if problem.ProblemType != core.ProblemUnknown {
		score += 0.25
	}

	score += 0.1 * float64(len(problem.Constraints))

	fields := strings.Fields(lower)
	if len(fields) > 0 {
		numbers := len(numberRe.FindAllString(lower, -1))
		score += 0.5 * float64(numbers) / float64(len(fields))
	}

	return core.Clamp01(score)
}

// Route picks the path for a request. Only the sampler-capable problem types
// go to langevin, and only above the complexity threshold.
func (r *Router) Route(text string, problem Problem) string {
	switch problem.ProblemType {
	case core.ProblemSchedule, core.ProblemAllocate, core.ProblemRoute:
	default:
		return RouteTemplate
	}
	if r.Complexity(text, problem) >= r.threshold {
		return RouteLangevin
	}
	return RouteTemplate
}
