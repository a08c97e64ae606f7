// Package gps tracks the receiver's most recent position fix and decodes the
// NMEA sentence stream that feeds it.
package gps

import (
	"sync"
	"time"

	"github.com/banshee-data/wardrive/internal/timeutil"
)

// Fix is a snapshot of the tracker's position state.
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Valid     bool    `json:"valid"`
}

// Coordinates returns the fix coordinates, or zeros when the fix is not valid.
func (f Fix) Coordinates() (lat, lon float64) {
	if !f.Valid {
		return 0, 0
	}
	return f.Latitude, f.Longitude
}

// Tracker holds the latest known-good fix. It is written by the NMEA feed and
// read by the capture cycle, so every access goes through mu and readers only
// ever receive copies.
type Tracker struct {
	mu        sync.Mutex
	fix       Fix
	lastValid time.Time
	clock     timeutil.Clock
}

// NewTracker returns a tracker with no fix.
func NewTracker() *Tracker {
	return NewTrackerWithClock(timeutil.RealClock{})
}

// NewTrackerWithClock returns a tracker that timestamps valid updates with c.
func NewTrackerWithClock(c timeutil.Clock) *Tracker {
	return &Tracker{clock: c}
}

// Update records a decoded fix. Updates without a valid lock are ignored so a
// momentary loss of signal keeps the last good coordinates.
func (t *Tracker) Update(valid bool, lat, lon float64) {
	if !valid {
		return
	}
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.fix = Fix{Latitude: lat, Longitude: lon, Valid: true}
	t.lastValid = now
}

// CurrentFix returns a copy of the latest fix.
func (t *Tracker) CurrentFix() Fix {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fix
}

// LastValid returns when the last valid fix arrived, or the zero time.
func (t *Tracker) LastValid() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastValid
}
