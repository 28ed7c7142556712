package planner

import "strings"

const (
	lowEnergyThreshold = 5
	lowEnergyTasks     = 2
	highEnergyTasks    = 5
	maxSelectedTasks   = 3

	// PlanPrefix starts every morning suggestion, including the empty one.
	PlanPrefix = "Focus deeply on: "
)

// ScoreTasks picks a positional prefix of the backlog sized by energy level.
func ScoreTasks(s State) State {
	n := highEnergyTasks
	if s.EnergyLevel < lowEnergyThreshold {
		n = lowEnergyTasks
	}
	s.SelectedTasks = head(s.Tasks, n)
	return s
}

// LimitToThree caps the selection at three tasks.
func LimitToThree(s State) State {
	s.SelectedTasks = head(s.SelectedTasks, maxSelectedTasks)
	return s
}

// GeneratePlan writes the focus statement for the selected tasks.
func GeneratePlan(s State) State {
	s.Suggestion = PlanPrefix + strings.Join(s.SelectedTasks, ", ")
	return s
}

func head(in []string, n int) []string {
	if n > len(in) {
		n = len(in)
	}
	return copyStrings(in[:n])
}
