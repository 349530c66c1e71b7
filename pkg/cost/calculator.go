// Package cost prices LLM fallback calls so the hybrid layer can report
// estimated spend and the savings from rule hits.
package cost

import (
	"fmt"
	"math"
)

// Pricing is the per-1k-token price of one model.
type Pricing struct {
	InputPer1K  float64 `yaml:"input_per_1k" json:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k" json:"output_per_1k"`
	Currency    string  `yaml:"currency" json:"currency"`
}

// Usage is the token usage of one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the priced breakdown of one call.
type Result struct {
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
	Currency     string  `json:"currency"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
}

// Calculator prices calls against a model pricing table.
type Calculator struct {
	table map[string]Pricing
}

// NewCalculator creates a calculator over the given pricing table. A nil
// table gets the built-in defaults.
func NewCalculator(table map[string]Pricing) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{table: table}
}

// DefaultTable holds list prices for the models the generator ships with.
func DefaultTable() map[string]Pricing {
	return map[string]Pricing{
		"gpt-4o":        {InputPer1K: 0.0025, OutputPer1K: 0.01, Currency: "USD"},
		"gpt-4o-mini":   {InputPer1K: 0.00015, OutputPer1K: 0.0006, Currency: "USD"},
		"gpt-4-turbo":   {InputPer1K: 0.01, OutputPer1K: 0.03, Currency: "USD"},
		"gpt-3.5-turbo": {InputPer1K: 0.0005, OutputPer1K: 0.0015, Currency: "USD"},
	}
}

// Calc prices a usage against a pricing, rounded to micro-units.
func Calc(u Usage, p Pricing) (inputCost, outputCost, total float64) {
	inputCost = round6(float64(u.PromptTokens) * p.InputPer1K / 1000.0)
	outputCost = round6(float64(u.CompletionTokens) * p.OutputPer1K / 1000.0)
	total = round6(inputCost + outputCost)
	return inputCost, outputCost, total
}

// ForModel prices a usage for a named model.
func (c *Calculator) ForModel(model string, u Usage) (*Result, error) {
	p, ok := c.table[model]
	if !ok {
		return nil, fmt.Errorf("no pricing for model %s", model)
	}
	in, out, total := Calc(u, p)
	return &Result{
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    total,
		Currency:     p.Currency,
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
	}, nil
}

// EstimateForModel prices a call from token counts alone. Unknown models
// price at zero rather than failing the calling request.
func (c *Calculator) EstimateForModel(model string, promptTokens, completionTokens int) float64 {
	p, ok := c.table[model]
	if !ok {
		return 0
	}
	_, _, total := Calc(Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}, p)
	return total
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
