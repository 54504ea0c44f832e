package clock

import "time"

// Clock provides the current time as an injectable dependency, so game
// record dates can be fixed in tests
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock with the wall clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
