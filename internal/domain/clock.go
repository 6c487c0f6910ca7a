package domain

import "time"

// Clock supplies the current time. Services take a Clock instead of calling
// time.Now directly so tests can pin time-dependent decisions (registration
// closing, cancellation window, sweep) to fixed instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
