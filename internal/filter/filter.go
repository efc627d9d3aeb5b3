// Package filter decides whether an activity's registration window is worth reporting.
//
// An activity is eligible when registration is open right now, or when it opens within
// the next Window.Days whole days (7 by default). The current time is always passed in;
// nothing in this package reads the wall clock.
//
// Example usage:
//
//	w := filter.DefaultWindow()
//	if w.IsEligible(rec.RegisterStart, rec.RegisterEnd, time.Now()) {
//	    // report it
//	}
package filter

import (
	"math"
	"time"
)

// DefaultDays is the look-ahead used when none is configured
const DefaultDays = 7

const day = 24 * time.Hour

// Window holds the eligibility criteria
type Window struct {
	// Days is the inclusive look-ahead for registrations that have not opened yet
	Days int `json:"days"`
}

// DefaultWindow returns the 7-day window
func DefaultWindow() Window {
	return Window{Days: DefaultDays}
}

// IsEligible reports whether an activity with the given registration window should be
// reported at now.
//
// Eligible iff registerStart <= now <= registerEnd, or 0 <= DaysUntil(now, registerStart) <= Days.
func (w Window) IsEligible(registerStart, registerEnd, now time.Time) bool {
	if !now.Before(registerStart) && !now.After(registerEnd) {
		return true
	}
	days := DaysUntil(now, registerStart)
	return days >= 0 && days <= w.Days
}

// IsEligible applies the default 7-day window
func IsEligible(registerStart, registerEnd, now time.Time) bool {
	return DefaultWindow().IsEligible(registerStart, registerEnd, now)
}

// DaysUntil returns the number of whole days from now until t, rounded toward negative
// infinity. A start one hour in the past is -1, not 0.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	return int(math.Floor(float64(d) / float64(day)))
}
