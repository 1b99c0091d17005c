package model

import (
	"maps"
	"slices"
	"time"
)

// Weekdays are the accepted TargetDays values, Sunday first.
var Weekdays = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// HabitColors are the accepted Color values.
var HabitColors = []string{"blue", "red", "green", "purple", "orange"}

const DefaultHabitColor = "blue"

// Habit is a tracked routine. CompletedDates and Values are keyed by YYYY-MM-DD;
// Values is only written for quantitative habits.
type Habit struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Color          string            `json:"color"`
	TargetDays     []string          `json:"targetDays"`
	IsQuantitative bool              `json:"isQuantitative"`
	Unit           string            `json:"unit,omitempty"`
	CompletedDates map[string]bool   `json:"completedDates"`
	Values         map[string]string `json:"values"`
	CreatedAt      time.Time         `json:"createdAt"`
}

func (h Habit) Clone() Habit {
	out := h
	out.TargetDays = slices.Clone(h.TargetDays)
	out.CompletedDates = maps.Clone(h.CompletedDates)
	out.Values = maps.Clone(h.Values)
	if out.CompletedDates == nil {
		out.CompletedDates = map[string]bool{}
	}
	if out.Values == nil {
		out.Values = map[string]string{}
	}
	return out
}
