// internal/ticks/ticks.go

// Package ticks implements modular arithmetic on wrapping 32-bit millisecond
// counters. A tick compares against another through the sign of their 32-bit
// difference, so the ordering stays correct across the 2^32 wrap as long as
// two compared ticks are less than 2^31 ms apart.
package ticks

// Eternity is the sentinel tick meaning "never". A timer set to Eternity is
// disabled.
const Eternity uint32 = 0

// IsSet reports whether t carries a real date rather than the sentinel.
func IsSet(t uint32) bool { return t != Eternity }

// IsLT reports whether a is strictly before b on the wrapping tick line.
func IsLT(a, b uint32) bool { return int32(a-b) < 0 }

// IsExpired reports whether t is set and has passed relative to now.
func IsExpired(t, now uint32) bool { return IsSet(t) && !IsLT(now, t) }

// Add returns now+ms, skipping over the Eternity sentinel so that a real
// deadline never reads as "disabled".
func Add(now, ms uint32) uint32 {
	t := now + ms
	if !IsSet(t) {
		t++
	}
	return t
}

// First returns the earlier of two ticks, ignoring unset ones.
func First(a, b uint32) uint32 {
	if !IsSet(a) {
		return b
	}
	if !IsSet(b) {
		return a
	}
	if IsLT(a, b) {
		return a
	}
	return b
}
