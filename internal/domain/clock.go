package domain

import "time"

// Clock provides the current time. Implementations may be real (production)
// or deterministic (testing).
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

var _ Clock = RealClock{}
