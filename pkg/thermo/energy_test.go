package thermo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
)

// oneHot builds a relaxation vector assigning each task its slot.
func oneHot(nTasks, nSlots int, slots []int) []float64 {
	z := make([]float64, nTasks*nSlots)
	for t, s := range slots {
		z[t*nSlots+s] = 1.0
	}
	return z
}

func TestSchedulingEnergyNonOverlapBeatsCollision(t *testing.T) {
	m := NewSchedulingEnergy(3, 5, nil)

	spread := m.Energy(oneHot(3, 5, []int{0, 1, 2}))
	collided := m.Energy(oneHot(3, 5, []int{0, 0, 0}))

	assert.Less(t, spread, 50.0)
	assert.GreaterOrEqual(t, collided, 100.0)
	assert.Less(t, spread, collided)
}

func TestSchedulingEnergyPerPairPenalty(t *testing.T) {
	m := NewSchedulingEnergy(3, 5, nil)

	onePair := m.Energy(oneHot(3, 5, []int{0, 0, 2}))
	threePairs := m.Energy(oneHot(3, 5, []int{1, 1, 1}))

	// One colliding pair vs three.
	assert.InDelta(t, 100.0, onePair, 1.0)
	assert.InDelta(t, 300.0, threePairs, 1.0)
}

func TestSchedulingEnergyDeadline(t *testing.T) {
	constraints := []core.Constraint{{Type: "deadline", Task: 0, Slot: 1}}
	m := NewSchedulingEnergy(2, 5, constraints)

	onTime := m.Energy(oneHot(2, 5, []int{0, 2}))
	late := m.Energy(oneHot(2, 5, []int{3, 2}))

	assert.Less(t, onTime, 1.0)
	// Three slots past the bound at 10 per slot.
	assert.InDelta(t, 30.0, late-onTime, 0.1)
}

func TestSchedulingDecode(t *testing.T) {
	m := NewSchedulingEnergy(2, 3, nil)

	z := []float64{0.1, 0.9, 0.3, 0.7, 0.2, 0.1}
	assert.Equal(t, []int{1, 0}, m.Decode(z))
}

func TestSchedulingGradientZeroAtUniform(t *testing.T) {
	m := NewSchedulingEnergy(3, 5, nil)

	z := make([]float64, m.Dim())
	grad := make([]float64, m.Dim())
	m.Gradient(z, grad)

	for i, g := range grad {
		assert.InDelta(t, 0.0, g, 1e-9, "grad[%d]", i)
	}
}

func TestSchedulingGradientPushesOffCollision(t *testing.T) {
	m := NewSchedulingEnergy(2, 3, nil)

	// Both tasks piled on slot 0: the gradient on the occupied entries must
	// be positive so a descent step moves mass away.
	z := oneHot(2, 3, []int{0, 0})
	for i := range z {
		z[i] *= 4
	}
	grad := make([]float64, m.Dim())
	m.Gradient(z, grad)

	assert.Greater(t, grad[0], 0.0)
	assert.Greater(t, grad[3], 0.0)
	for _, g := range grad {
		assert.False(t, math.IsNaN(g))
	}
}

func TestAllocationEnergyCapacityExcess(t *testing.T) {
	m := NewAllocationEnergy(2, 2, nil)

	empty := make([]float64, m.Dim())
	full := []float64{1, 1, 1, 1}

	assert.InDelta(t, 0.0, m.Energy(empty), 1e-9)
	// Each resource carries load 2 against capacity 1: 10*1^2 per resource.
	assert.InDelta(t, 20.0, m.Energy(full), 0.1)
}

func TestAllocationEnergyClipsInput(t *testing.T) {
	m := NewAllocationEnergy(2, 2, nil)

	wild := []float64{5, -3, 7, -1}
	clipped := []float64{1, 0, 1, 0}

	// Clipping makes the penalty terms identical; only L2 differs.
	wildE := m.Energy(wild)
	clippedE := m.Energy(clipped)
	assert.Greater(t, wildE, clippedE)
	assert.False(t, math.IsInf(wildE, 0))
}

func TestAllocationEnergyCustomCapacity(t *testing.T) {
	constraints := []core.Constraint{
		{Type: "capacity", Resource: 0, Limit: 2.0},
		{Type: "capacity", Resource: 1, Limit: 2.0},
	}
	m := NewAllocationEnergy(2, 2, constraints)

	full := []float64{1, 1, 1, 1}
	assert.Less(t, m.Energy(full), 1.0)
}

func TestAllocationDecode(t *testing.T) {
	m := NewAllocationEnergy(2, 2, nil)

	z := []float64{0.9, 0.1, 0.2, 0.8}
	assert.Equal(t, []int{1, 0, 0, 1}, m.Decode(z))
}

func TestAllocationGradientFinite(t *testing.T) {
	m := NewAllocationEnergy(3, 4, nil)

	z := make([]float64, m.Dim())
	for i := range z {
		z[i] = 0.5
	}
	grad := make([]float64, m.Dim())
	m.Gradient(z, grad)

	for _, g := range grad {
		require.False(t, math.IsNaN(g) || math.IsInf(g, 0))
	}
	// Loads of 4 against capacity 1 push every interior entry down.
	assert.Greater(t, grad[0], 0.0)
}
