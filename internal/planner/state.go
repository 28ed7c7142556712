// Package planner implements the morning and evening planning pipelines over a
// single day's State.
//
// Both pipelines are plain ordered compositions of stages. Each stage receives
// a State value and returns a new one; callers never observe partial updates.
package planner

import (
	"fmt"
	"math"
)

// State is the record threaded through both pipelines. One State covers one day.
type State struct {
	EnergyLevel    int      `json:"energy_level" yaml:"energy_level"`
	SleepHours     float64  `json:"sleep_hours" yaml:"sleep_hours"`
	Tasks          []string `json:"tasks" yaml:"tasks"`
	SelectedTasks  []string `json:"selected_tasks" yaml:"selected_tasks"`
	CompletedTasks []string `json:"completed_tasks" yaml:"completed_tasks"`
	Distractions   []string `json:"distractions" yaml:"distractions"`
	Score          int      `json:"score" yaml:"score"`
	Suggestion     string   `json:"suggestion" yaml:"suggestion"`
}

// NewState builds the start-of-day record. Energy is self-reported and is not
// range checked; sleep hours must be a finite number.
func NewState(energy int, sleepHours float64, tasks []string) (State, error) {
	s := State{
		EnergyLevel: energy,
		SleepHours:  sleepHours,
		Tasks:       copyStrings(tasks),
	}
	s = s.Clone()
	if err := Validate(s); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate checks the fields that can be malformed at the boundary.
func Validate(s State) error {
	if math.IsNaN(s.SleepHours) || math.IsInf(s.SleepHours, 0) {
		return fmt.Errorf("sleep_hours must be a finite number, got %v", s.SleepHours)
	}
	return nil
}

// Clone returns a deep copy so the result shares no slices with s.
func (s State) Clone() State {
	c := s
	c.Tasks = copyStrings(s.Tasks)
	c.SelectedTasks = copyStrings(s.SelectedTasks)
	c.CompletedTasks = copyStrings(s.CompletedTasks)
	c.Distractions = copyStrings(s.Distractions)
	return c
}

// copyStrings always returns a non-nil slice so encoded records carry [] rather than null.
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
