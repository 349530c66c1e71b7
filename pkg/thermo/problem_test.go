package thermo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
)

func TestParseSchedulePolish(t *testing.T) {
	p := Parse("zaplanuj 5 zadań w 3 slotach")

	assert.Equal(t, core.ProblemSchedule, p.ProblemType)
	assert.Equal(t, 5, p.NTasks)
	assert.Equal(t, 3, p.NSlots)
	assert.Len(t, p.Variables, 5)
	assert.Equal(t, "task_0", p.Variables[0])
	assert.Equal(t, "minimize", p.Objective)
}

func TestParseScheduleEnglish(t *testing.T) {
	p := Parse("schedule 3 tasks in 5 slots")

	assert.Equal(t, core.ProblemSchedule, p.ProblemType)
	assert.Equal(t, 3, p.NTasks)
	assert.Equal(t, 5, p.NSlots)
}

func TestParseDeadline(t *testing.T) {
	p := Parse("4 zadania w 6 slotach, zadanie 2 przed slotem 3")

	require.Len(t, p.Constraints, 1)
	c := p.Constraints[0]
	assert.Equal(t, "deadline", c.Type)
	assert.Equal(t, 1, c.Task)
	assert.Equal(t, 2, c.Slot)
}

func TestParseDeadlineOutOfRangeDropped(t *testing.T) {
	p := Parse("2 tasks in 3 slots, task 9 before slot 2")

	assert.Empty(t, p.Constraints)
}

func TestParseAllocation(t *testing.T) {
	p := Parse("przydziel 4 zasoby do 3 konsumentów")

	assert.Equal(t, core.ProblemAllocate, p.ProblemType)
	assert.Equal(t, 4, p.NResources)
	assert.Equal(t, 3, p.NConsumers)
	assert.Len(t, p.Variables, 12)
	assert.Len(t, p.Constraints, 4)
	assert.Equal(t, "capacity", p.Constraints[0].Type)
}

func TestParseUnknown(t *testing.T) {
	p := Parse("pokaż wszystkie pliki")

	assert.Equal(t, core.ProblemUnknown, p.ProblemType)
	assert.Empty(t, p.Variables)
}

func TestParseKeywordOnlyHasNoVariables(t *testing.T) {
	p := Parse("zaplanuj coś na jutro")

	assert.Equal(t, core.ProblemSchedule, p.ProblemType)
	assert.Empty(t, p.Variables)
}

func TestParseMaximizeObjective(t *testing.T) {
	p := Parse("maximize throughput for 2 tasks in 4 slots")

	assert.Equal(t, "maximize", p.Objective)
}
