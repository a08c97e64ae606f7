package gps

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/adrianmo/go-nmea"

	"github.com/banshee-data/wardrive/internal/monitoring"
)

// FixUpdater receives decoded fixes. *Tracker implements it.
type FixUpdater interface {
	Update(valid bool, lat, lon float64)
}

// Feed decodes NMEA sentences from a line stream and forwards position fixes.
type Feed struct {
	updater FixUpdater

	sentences atomic.Uint64
	fixes     atomic.Uint64
	rejected  atomic.Uint64
}

// FeedStats counts the lines a Feed has handled.
type FeedStats struct {
	Sentences uint64 `json:"sentences"`
	Fixes     uint64 `json:"fixes"`
	Rejected  uint64 `json:"rejected"`
}

// NewFeed returns a Feed that forwards fixes to u.
func NewFeed(u FixUpdater) *Feed {
	return &Feed{updater: u}
}

// Run consumes lines until ctx is done or lines is closed.
func (f *Feed) Run(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			f.HandleLine(line)
		}
	}
}

// HandleLine decodes a single line. Lines that are not well-formed sentences
// with a valid checksum are counted and dropped.
func (f *Feed) HandleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	s, err := nmea.Parse(line)
	if err != nil {
		f.rejected.Add(1)
		monitoring.Verbosef("gps: dropping sentence %q: %v", line, err)
		return
	}
	f.sentences.Add(1)

	switch m := s.(type) {
	case nmea.RMC:
		f.fixes.Add(1)
		f.updater.Update(m.Validity == nmea.ValidRMC, m.Latitude, m.Longitude)
	case nmea.GGA:
		f.fixes.Add(1)
		f.updater.Update(m.FixQuality != nmea.Invalid, m.Latitude, m.Longitude)
	}
}

// Stats returns the feed counters.
func (f *Feed) Stats() FeedStats {
	return FeedStats{
		Sentences: f.sentences.Load(),
		Fixes:     f.fixes.Load(),
		Rejected:  f.rejected.Load(),
	}
}
