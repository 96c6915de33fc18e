// Package clock abstracts wall-clock access so countdowns and
// leaderboard window boundaries are deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System implements Clock using the system clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock pinned to a settable instant.
type Fixed struct {
	Time time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Time
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.Time = f.Time.Add(d)
}
