package effects

import (
	"context"
	"time"
)

// SystemClock implements the Clock effect with the wall clock.
type SystemClock struct{}

// NewSystemClock creates the stock Clock effect implementation.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current wall-clock time.
func (*SystemClock) Now(ctx context.Context) time.Time {
	return time.Now()
}

// FixedClock implements the Clock effect with a constant reading. It is
// intended for tests and deterministic replays.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed reading.
func (c *FixedClock) Now(ctx context.Context) time.Time {
	return c.At
}
