// Package clock abstracts wall time so timer behavior can be driven in tests.
package clock

import "time"

// Timer represents a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock provides time-related operations.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// System is the Clock backed by the standard library.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
