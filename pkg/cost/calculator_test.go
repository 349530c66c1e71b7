package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalc(t *testing.T) {
	p := Pricing{InputPer1K: 0.01, OutputPer1K: 0.03, Currency: "USD"}

	in, out, total := Calc(Usage{PromptTokens: 1000, CompletionTokens: 500}, p)

	assert.InDelta(t, 0.01, in, 1e-9)
	assert.InDelta(t, 0.015, out, 1e-9)
	assert.InDelta(t, 0.025, total, 1e-9)
}

func TestForModel(t *testing.T) {
	c := NewCalculator(nil)

	res, err := c.ForModel("gpt-4o-mini", Usage{PromptTokens: 2000, CompletionTokens: 1000})
	require.NoError(t, err)
	assert.Equal(t, "USD", res.Currency)
	assert.InDelta(t, 0.0009, res.TotalCost, 1e-9)

	_, err = c.ForModel("no-such-model", Usage{})
	assert.Error(t, err)
}

func TestEstimateForModelUnknownIsZero(t *testing.T) {
	c := NewCalculator(nil)

	assert.Zero(t, c.EstimateForModel("no-such-model", 100, 100))
	assert.Greater(t, c.EstimateForModel("gpt-4o", 100, 100), 0.0)
}
