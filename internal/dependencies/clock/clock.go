package clock

import "time"

// Clock supplies wall-clock time to the signer and account resolver.
// Tests substitute a fixed clock so signatures are reproducible.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Unix returns the clock's current time in whole seconds since the epoch
func Unix(c Clock) int64 {
	return c.Now().Unix()
}
