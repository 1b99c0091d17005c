package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type SessionStatus int

const (
	StatusFocus SessionStatus = iota + 1
	StatusBreak
	StatusLongBreak
)

var (
	statusNames  = [...]string{StatusFocus: "Focus", StatusBreak: "Break", StatusLongBreak: "Long Break"}
	statusByName = map[string]SessionStatus{
		"Focus":      StatusFocus,
		"Break":      StatusBreak,
		"Long Break": StatusLongBreak,
	}
)

func (s SessionStatus) Valid() bool {
	return s >= StatusFocus && s <= StatusLongBreak
}

func (s SessionStatus) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("SessionStatus(%d)", int(s))
}

func (s SessionStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("model: invalid session status: %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *SessionStatus) UnmarshalText(text []byte) error {
	v, ok := statusByName[string(text)]
	if !ok {
		return fmt.Errorf("model: invalid session status: %q", text)
	}
	*s = v
	return nil
}

func (s SessionStatus) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("model: invalid session status: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}

const (
	DefaultFocusMinutes           = 25
	DefaultBreakMinutes           = 5
	DefaultLongBreakMinutes       = 15
	DefaultSessionsUntilLongBreak = 4
)

type TimerSettings struct {
	FocusMinutes           int  `json:"focusMinutes"`
	BreakMinutes           int  `json:"breakMinutes"`
	LongBreakMinutes       int  `json:"longBreakMinutes"`
	SessionsUntilLongBreak int  `json:"sessionsUntilLongBreak"`
	AutoContinue           bool `json:"autoContinue"`
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusMinutes:           DefaultFocusMinutes,
		BreakMinutes:           DefaultBreakMinutes,
		LongBreakMinutes:       DefaultLongBreakMinutes,
		SessionsUntilLongBreak: DefaultSessionsUntilLongBreak,
	}
}

// TimerState is the persisted form of the timer engine. EndTime is set iff IsActive.
// Minutes and Seconds are authoritative only while the timer is not active.
type TimerState struct {
	Status            SessionStatus `json:"status"`
	SessionCount      int           `json:"sessionCount"`
	IsActive          bool          `json:"isActive"`
	EndTime           *time.Time    `json:"endTime,omitempty"`
	Minutes           int           `json:"minutes"`
	Seconds           int           `json:"seconds"`
	CurrentReminderID string        `json:"currentReminderId,omitempty"`
	SelectedLabelID   *int64        `json:"selectedLabelId,omitempty"`
	Settings          TimerSettings `json:"settings"`
}

// Clone returns a deep copy. Pointer fields are copied by value.
func (s TimerState) Clone() TimerState {
	out := s
	if s.EndTime != nil {
		v := *s.EndTime
		out.EndTime = &v
	}
	if s.SelectedLabelID != nil {
		v := *s.SelectedLabelID
		out.SelectedLabelID = &v
	}
	return out
}
