package model

import (
	"slices"
	"time"
)

const DefaultReminderTime = "09:00"

// ReviewItem is one entry of the spaced-repetition list. The item lives in the
// collection only while ReviewCount < len(Schedule) under the retire policy.
type ReviewItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"createdAt"`
	Schedule       []int     `json:"schedule"`
	ReviewCount    int       `json:"reviewCount"`
	NextReviewDate time.Time `json:"nextReviewDate"`
	ReminderTime   string    `json:"reminderTime"`
	ReminderID     string    `json:"reminderId,omitempty"`
}

func (r ReviewItem) Clone() ReviewItem {
	out := r
	out.Schedule = slices.Clone(r.Schedule)
	return out
}
