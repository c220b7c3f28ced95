package main

import (
	"time"
)

var _ Clocker = (*Clock)(nil) // ensure Clock implements Clocker.

// Clocker is an interface for reading the current time. The session store
// compares it against token expiry claims, so tests can freeze it.
type Clocker interface {
	Now() time.Time
}

// Clock implements the Clocker interface over the system wall clock.
type Clock struct{}

// NewClock provides a ready to use UTC clock. Expiry claims are absolute
// instants, the host timezone never takes part in the comparison.
func NewClock() *Clock {
	return &Clock{}
}

// Now provides the current time in UTC.
func (ck *Clock) Now() time.Time {
	return time.Now().UTC()
}
