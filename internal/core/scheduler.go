package core

import "time"

// Timer is a cancellable deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler is the clock every timed behaviour goes through, so tests can drive
// TTLs and grace periods without sleeping.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemScheduler struct{}

func (SystemScheduler) Now() time.Time { return time.Now() }

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
