package thermo

import (
	"math"

	"github.com/drift-line/nlcmd/core"
)

// Penalty weights shared by the energy models.
const (
	overlapPenalty  = 100.0 // per colliding task pair
	deadlinePenalty = 10.0  // per slot past the deadline
	capacityPenalty = 10.0  // quadratic in excess over capacity
	fairnessPenalty = 1.0
	l2Weight        = 0.01
)

// SchedulingEnergy scores task-to-slot assignments. The relaxation vector z
// has one block of nSlots entries per task; Decode takes the argmax of each
// block. Energy evaluates the decoded assignment (overlap and deadline
// penalties plus L2); Gradient descends the softmax relaxation of the same
// objective so the sampler has a smooth landscape to move on.
type SchedulingEnergy struct {
	nTasks    int
	nSlots    int
	deadlines []core.Constraint
}

var _ core.EnergyModel = (*SchedulingEnergy)(nil)

// NewSchedulingEnergy builds the model. Non-deadline constraints are ignored.
func NewSchedulingEnergy(nTasks, nSlots int, constraints []core.Constraint) *SchedulingEnergy {
	m := &SchedulingEnergy{nTasks: nTasks, nSlots: nSlots}
	for _, c := range constraints {
		if c.Type == "deadline" && c.Task >= 0 && c.Task < nTasks {
			m.deadlines = append(m.deadlines, c)
		}
	}
	return m
}

// Dim returns nTasks*nSlots.
func (m *SchedulingEnergy) Dim() int { return m.nTasks * m.nSlots }

// Decode returns the argmax slot per task.
func (m *SchedulingEnergy) Decode(z []float64) []int {
	out := make([]int, m.nTasks)
	for t := 0; t < m.nTasks; t++ {
		best, bestVal := 0, math.Inf(-1)
		for s := 0; s < m.nSlots; s++ {
			if v := z[t*m.nSlots+s]; v > bestVal {
				best, bestVal = s, v
			}
		}
		out[t] = best
	}
	return out
}

// Energy evaluates the decoded assignment.
func (m *SchedulingEnergy) Energy(z []float64) float64 {
	slots := m.Decode(z)

	e := 0.0
	for a := 0; a < m.nTasks; a++ {
		for b := a + 1; b < m.nTasks; b++ {
			if slots[a] == slots[b] {
				e += overlapPenalty
			}
		}
	}
	for _, c := range m.deadlines {
		if slots[c.Task] >= c.Slot {
			e += deadlinePenalty * float64(slots[c.Task]-c.Slot+1)
		}
	}
	for _, v := range z {
		e += l2Weight * v * v
	}
	return e
}

// Gradient writes the gradient of the softmax-relaxed objective into grad.
// With p_t = softmax(z_t), the relaxed overlap term is
// Σ_{a<b} w Σ_s p_a[s]p_b[s] and the relaxed deadline term weights the
// probability mass past the bound.
func (m *SchedulingEnergy) Gradient(z, grad []float64) {
	probs := make([][]float64, m.nTasks)
	for t := 0; t < m.nTasks; t++ {
		probs[t] = softmax(z[t*m.nSlots : (t+1)*m.nSlots])
	}

	// dE/dp per task, then back through the softmax jacobian.
	dEdp := make([][]float64, m.nTasks)
	for t := range dEdp {
		dEdp[t] = make([]float64, m.nSlots)
	}

	for a := 0; a < m.nTasks; a++ {
		for b := 0; b < m.nTasks; b++ {
			if a == b {
				continue
			}
			for s := 0; s < m.nSlots; s++ {
				dEdp[a][s] += overlapPenalty * probs[b][s]
			}
		}
	}
	for _, c := range m.deadlines {
		for s := c.Slot; s < m.nSlots; s++ {
			dEdp[c.Task][s] += deadlinePenalty * float64(s-c.Slot+1)
		}
	}

	for t := 0; t < m.nTasks; t++ {
		p := probs[t]
		dot := 0.0
		for s := 0; s < m.nSlots; s++ {
			dot += dEdp[t][s] * p[s]
		}
		for s := 0; s < m.nSlots; s++ {
			i := t*m.nSlots + s
			grad[i] = p[s]*(dEdp[t][s]-dot) + 2*l2Weight*z[i]
		}
	}
}

// ConvergedEnergy is safely below a single collision, scaled by the small
// regularization floor of the problem size.
func (m *SchedulingEnergy) ConvergedEnergy() float64 {
	return overlapPenalty/2 + l2Weight*float64(m.Dim())
}

// AllocationEnergy scores consumer-to-resource allocations. The relaxation
// decodes into an [nConsumers x nResources] matrix clipped to [0,1]; energy
// is quadratic capacity excess per resource plus a fairness term over
// per-consumer totals.
type AllocationEnergy struct {
	nResources int
	nConsumers int
	capacity   []float64
}

var _ core.EnergyModel = (*AllocationEnergy)(nil)

// NewAllocationEnergy builds the model; capacity constraints set per-resource
// limits, default 1.0.
func NewAllocationEnergy(nResources, nConsumers int, constraints []core.Constraint) *AllocationEnergy {
	m := &AllocationEnergy{
		nResources: nResources,
		nConsumers: nConsumers,
		capacity:   make([]float64, nResources),
	}
	for r := range m.capacity {
		m.capacity[r] = 1.0
	}
	for _, c := range constraints {
		if c.Type == "capacity" && c.Resource >= 0 && c.Resource < nResources && c.Limit > 0 {
			m.capacity[c.Resource] = c.Limit
		}
	}
	return m
}

// Dim returns nConsumers*nResources.
func (m *AllocationEnergy) Dim() int { return m.nConsumers * m.nResources }

// Decode rounds the clipped allocation to a binary matrix, flattened
// consumer-major.
func (m *AllocationEnergy) Decode(z []float64) []int {
	out := make([]int, len(z))
	for i, v := range z {
		if clip01(v) >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Energy evaluates capacity excess and fairness over the clipped allocation.
func (m *AllocationEnergy) Energy(z []float64) float64 {
	e := 0.0

	for r := 0; r < m.nResources; r++ {
		load := 0.0
		for c := 0; c < m.nConsumers; c++ {
			load += clip01(z[c*m.nResources+r])
		}
		if excess := load - m.capacity[r]; excess > 0 {
			e += capacityPenalty * excess * excess
		}
	}

	// Fairness: variance of per-consumer totals.
	totals := make([]float64, m.nConsumers)
	mean := 0.0
	for c := 0; c < m.nConsumers; c++ {
		for r := 0; r < m.nResources; r++ {
			totals[c] += clip01(z[c*m.nResources+r])
		}
		mean += totals[c]
	}
	mean /= float64(m.nConsumers)
	for _, tot := range totals {
		d := tot - mean
		e += fairnessPenalty * d * d / float64(m.nConsumers)
	}

	for _, v := range z {
		e += l2Weight * v * v
	}
	return e
}

// Gradient writes the analytic gradient; entries clipped outside (0,1) get
// only the L2 component since the clip is flat there.
func (m *AllocationEnergy) Gradient(z, grad []float64) {
	totals := make([]float64, m.nConsumers)
	loads := make([]float64, m.nResources)
	for c := 0; c < m.nConsumers; c++ {
		for r := 0; r < m.nResources; r++ {
			v := clip01(z[c*m.nResources+r])
			totals[c] += v
			loads[r] += v
		}
	}
	mean := 0.0
	for _, tot := range totals {
		mean += tot
	}
	mean /= float64(m.nConsumers)

	n := float64(m.nConsumers)
	for c := 0; c < m.nConsumers; c++ {
		for r := 0; r < m.nResources; r++ {
			i := c*m.nResources + r
			g := 2 * l2Weight * z[i]
			if z[i] > 0 && z[i] < 1 {
				if excess := loads[r] - m.capacity[r]; excess > 0 {
					g += 2 * capacityPenalty * excess
				}
				g += fairnessPenalty * 2 * (totals[c] - mean) / n
			}
			grad[i] = g
		}
	}
}

// ConvergedEnergy scales with the fairness floor of the problem.
func (m *AllocationEnergy) ConvergedEnergy() float64 {
	return 1.0 + l2Weight*float64(m.Dim())
}

func softmax(z []float64) []float64 {
	out := make([]float64, len(z))
	max := math.Inf(-1)
	for _, v := range z {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
