package model

import "time"

type CompletedSession struct {
	ID              int64     `json:"id"`
	DurationMinutes int       `json:"durationMinutes"`
	CompletedAt     time.Time `json:"completedAt"`
	LabelID         *int64    `json:"labelId,omitempty"`
	LabelName       string    `json:"labelName,omitempty"`
}

type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SessionFilter struct {
	From    *time.Time
	To      *time.Time
	LabelID *int64
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LabelStats struct {
	LabelName string `json:"labelName"`
	Count     int    `json:"count"`
	Minutes   int    `json:"minutes"`
}

type SessionStats struct {
	TotalFocusSessions int          `json:"totalFocusSessions"`
	TotalFocusMinutes  int          `json:"totalFocusMinutes"`
	SessionsPerDay     []DayCount   `json:"sessionsPerDay"`
	SessionsByLabel    []LabelStats `json:"sessionsByLabel"`
}
