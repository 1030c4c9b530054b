package editor

import (
	"time"
)

// Clock abstracts timer creation so the autosave debounce can run against
// virtual time in tests instead of sleeping.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable delayed task.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// task from firing.
	Stop() bool
}

type realClock struct{}

// NewClock returns a Clock backed by the system timer.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
