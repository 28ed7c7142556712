package planner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// dayFile is the on-disk shape of a day's task source. Only the start-of-day
// inputs are read; pipeline outputs are never taken from a file.
type dayFile struct {
	EnergyLevel    *int     `yaml:"energy_level"`
	SleepHours     *float64 `yaml:"sleep_hours"`
	Tasks          []string `yaml:"tasks"`
	CompletedTasks []string `yaml:"completed_tasks"`
	Distractions   []string `yaml:"distractions"`
}

// LoadDayFile reads a YAML day file and returns the start-of-day State.
func LoadDayFile(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read day file: %w", err)
	}
	return ParseDay(data)
}

// ParseDay decodes a YAML day document. energy_level and sleep_hours are
// required; a non-numeric value for either fails decoding.
func ParseDay(data []byte) (State, error) {
	var f dayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return State{}, fmt.Errorf("parse day yaml: %w", err)
	}
	if f.EnergyLevel == nil {
		return State{}, fmt.Errorf("energy_level is required")
	}
	if f.SleepHours == nil {
		return State{}, fmt.Errorf("sleep_hours is required")
	}
	s, err := NewState(*f.EnergyLevel, *f.SleepHours, f.Tasks)
	if err != nil {
		return State{}, err
	}
	s.CompletedTasks = copyStrings(f.CompletedTasks)
	s.Distractions = copyStrings(f.Distractions)
	return s, nil
}
