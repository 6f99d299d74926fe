// internal/ticks/clock.go

package ticks

import (
	"time"
)

// Clock yields a wrapping 32-bit millisecond counter suitable as a tick
// source. Reads are safe from multiple goroutines.
type Clock struct {
	base time.Time
}

// NewClock creates a clock whose counter starts at 1, so a fresh clock never
// reads the Eternity sentinel.
func NewClock() *Clock {
	return &Clock{base: time.Now().Add(-time.Millisecond)}
}

// Now returns the current tick.
func (c *Clock) Now() uint32 {
	return uint32(time.Since(c.base) / time.Millisecond)
}
