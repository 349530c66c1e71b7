package hybrid

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/logging"
)

// PlanStep is one command in a multi-step plan.
type PlanStep struct {
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
}

// Plan is the structured output of the LLM planner.
type Plan struct {
	Steps []PlanStep `json:"steps"`
}

// PlannerOptions configures the structured planner.
type PlannerOptions struct {
	MaxRetries  int
	MaxTokens   int
	Temperature float32
	Logger      *logging.Logger
}

// DefaultPlannerOptions returns the stock planner settings.
func DefaultPlannerOptions() PlannerOptions {
	return PlannerOptions{
		MaxRetries:  2,
		MaxTokens:   512,
		Temperature: 0.1,
	}
}

const plannerPrompt = `You plan multi-step command sequences for natural language requests (Polish or English).
Respond with strict JSON: {"steps":[{"command":"...","description":"..."}]}.
No prose, no code fences, valid JSON only.`

// Planner asks the LLM for a structured multi-step plan and retries with
// accumulated error context when the response does not parse.
type Planner struct {
	llm    core.LLMClient
	opts   PlannerOptions
	logger *logging.Logger
}

// NewPlanner creates a planner over the given client.
func NewPlanner(llm core.LLMClient, opts PlannerOptions) *Planner {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultPlannerOptions().MaxRetries
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultPlannerOptions().MaxTokens
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Planner{llm: llm, opts: opts, logger: opts.Logger}
}

// Plan requests a structured plan for text. On a malformed response the
// request is retried with the previous error appended so the model can
// correct itself; after MaxRetries the last error is returned.
func (p *Planner) Plan(ctx context.Context, text string) (*Plan, int, error) {
	if p.llm == nil {
		return nil, 0, fmt.Errorf("no LLM client configured")
	}

	user := "Request: " + text
	calls := 0
	var lastErr error

	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, calls, err
		}

		prompt := user
		if lastErr != nil {
			prompt = user + "\nYour previous response was invalid: " + lastErr.Error() + "\nReturn corrected JSON."
		}

		out, err := p.llm.Complete(ctx, plannerPrompt, prompt, p.opts.MaxTokens, p.opts.Temperature)
		calls++
		if err != nil {
			lastErr = err
			continue
		}

		plan, err := parsePlan(out)
		if err != nil {
			lastErr = err
			continue
		}
		return plan, calls, nil
	}

	return nil, calls, fmt.Errorf("planner failed after %d attempts: %w", calls, lastErr)
}

// parsePlan decodes the model output, tolerating code fences the prompt
// forbids but models still emit.
func parsePlan(out string) (*Plan, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)

	var plan Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		return nil, fmt.Errorf("invalid plan JSON: %w", err)
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}
	for i, step := range plan.Steps {
		if strings.TrimSpace(step.Command) == "" {
			return nil, fmt.Errorf("step %d has an empty command", i)
		}
	}
	return &plan, nil
}
