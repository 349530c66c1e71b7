// Package thermo implements the optimization path: problem parsing, energy
// models over a continuous relaxation, Langevin sampling, candidate voting
// and the complexity-based route choice.
package thermo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/drift-line/nlcmd/core"
)

// Problem pairs the parsed optimization problem with its dimensions. The
// embedded OptimizationProblem is what callers see; the counts drive energy
// model construction.
type Problem struct {
	core.OptimizationProblem

	NTasks     int `json:"n_tasks,omitempty"`
	NSlots     int `json:"n_slots,omitempty"`
	NResources int `json:"n_resources,omitempty"`
	NConsumers int `json:"n_consumers,omitempty"`
}

var (
	// "5 zadań w 3 slotach" / "5 tasks in 3 slots"
	taskSlotRe = regexp.MustCompile(`(?i)(\d+)\s+(?:zada\p{L}*|tasks?)\s+(?:w|in|na|into)\s+(\d+)\s+(?:slot\p{L}*|slots?)`)
	// "4 zasoby" / "4 resources", "3 konsumentów" / "3 consumers"
	resourceRe = regexp.MustCompile(`(?i)(\d+)\s+(?:zasob\p{L}*|zasób\p{L}*|resources?)`)
	consumerRe = regexp.MustCompile(`(?i)(\d+)\s+(?:konsument\p{L}*|odbiorc\p{L}*|consumers?)`)
	// "zadanie 2 przed slotem 3" / "task 2 before slot 3", 1-based in text
	deadlineRe = regexp.MustCompile(`(?i)(?:zadanie|task)\s+(\d+)\s+(?:przed|before)\s+(?:slotem|slot)\s+(\d+)`)
)

var scheduleWords = []string{"harmonogram", "zaplanuj", "schedule", "slot"}
var allocateWords = []string{"przydziel", "rozdziel", "alloc", "allocate", "zasob", "resource"}
var maximizeWords = []string{"maksymalizuj", "maximize", "zmaksymalizuj"}

// Parse scans free text for an optimization problem. Text the parser cannot
// place yields ProblemUnknown with empty variables; the sampler is never
// attempted on such problems.
func Parse(text string) Problem {
	lower := strings.ToLower(text)

	p := Problem{
		OptimizationProblem: core.OptimizationProblem{
			ProblemType: core.ProblemUnknown,
			Objective:   "minimize",
		},
	}
	for _, w := range maximizeWords {
		if strings.Contains(lower, w) {
			p.Objective = "maximize"
			break
		}
	}

	if m := taskSlotRe.FindStringSubmatch(text); m != nil {
		p.ProblemType = core.ProblemSchedule
		p.NTasks, _ = strconv.Atoi(m[1])
		p.NSlots, _ = strconv.Atoi(m[2])
		for i := 0; i < p.NTasks; i++ {
			p.Variables = append(p.Variables, fmt.Sprintf("task_%d", i))
		}
		p.Constraints = parseDeadlines(text, p.NTasks, p.NSlots)
		return p
	}

	res := resourceRe.FindStringSubmatch(text)
	cons := consumerRe.FindStringSubmatch(text)
	if res != nil && cons != nil {
		p.ProblemType = core.ProblemAllocate
		p.NResources, _ = strconv.Atoi(res[1])
		p.NConsumers, _ = strconv.Atoi(cons[1])
		for c := 0; c < p.NConsumers; c++ {
			for r := 0; r < p.NResources; r++ {
				p.Variables = append(p.Variables, fmt.Sprintf("alloc_%d_%d", c, r))
			}
		}
		for r := 0; r < p.NResources; r++ {
			p.Constraints = append(p.Constraints, core.Constraint{
				Type:     "capacity",
				Resource: r,
				Limit:    1.0,
			})
		}
		return p
	}

	// Keyword-only fallback: the category is recognizable but the counts are
	// not, so variables stay empty and the caller reports a parse failure.
	if containsAny(lower, scheduleWords) {
		p.ProblemType = core.ProblemSchedule
	} else if containsAny(lower, allocateWords) {
		p.ProblemType = core.ProblemAllocate
	}
	return p
}

// parseDeadlines extracts "zadanie K przed slotem S" constraints. Text
// indices are 1-based; the stored Constraint uses a 0-based Task index and a
// 0-based Slot bound meaning the task must decode to a slot strictly below
// Slot.
func parseDeadlines(text string, nTasks, nSlots int) []core.Constraint {
	var out []core.Constraint
	for _, m := range deadlineRe.FindAllStringSubmatch(text, -1) {
		task, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		task--
		if task < 0 || task >= nTasks || slot < 1 || slot > nSlots {
			continue
		}
		out = append(out, core.Constraint{Type: "deadline", Task: task, Slot: slot - 1})
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
