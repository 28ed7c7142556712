package planner

import "math"

// Evening suggestions. The spelling of SuggestIncrease is kept as-is because
// stored check-ins and downstream consumers match on the exact text.
const (
	SuggestIncrease = "Increase difficulty tommorow."
	SuggestMaintain = "Maintain pace but reduce distractions."
	SuggestReduce   = "Reduce workload and eliminate distractions."
)

// AnalyzePerformance sets Score to the completion percentage of the selected
// tasks. The value is rounded half to even and is not clamped, so completing
// more tasks than were selected yields a score above 100.
func AnalyzePerformance(s State) State {
	if len(s.SelectedTasks) == 0 {
		s.Score = 0
		return s
	}
	rate := float64(len(s.CompletedTasks)) / float64(len(s.SelectedTasks))
	s.Score = int(math.RoundToEven(rate * 100))
	return s
}

// SuggestImprovement maps the score to one of three fixed suggestions.
// Only an exact 100 asks for more; anything from 60 up, including scores
// over 100, keeps the pace.
func SuggestImprovement(s State) State {
	switch {
	case s.Score == 100:
		s.Suggestion = SuggestIncrease
	case s.Score >= 60:
		s.Suggestion = SuggestMaintain
	default:
		s.Suggestion = SuggestReduce
	}
	return s
}
