package capture

import (
	"context"
	"time"

	"github.com/banshee-data/wardrive/internal/gps"
	"github.com/banshee-data/wardrive/internal/monitoring"
	"github.com/banshee-data/wardrive/internal/timeutil"
)

// Scanner is the access point scan primitive.
type Scanner interface {
	// Scan returns the access points observed in one pass, in discovery order.
	Scan(ctx context.Context) ([]Sighting, error)
	// Release frees whatever the last Scan retained.
	Release()
}

// FixSource provides position snapshots. *gps.Tracker implements it.
type FixSource interface {
	CurrentFix() gps.Fix
}

// Store is the append-only record log.
type Store interface {
	Append(line string) error
}

// Archive receives every discovery that was written to the Store.
type Archive interface {
	RecordDiscovery(d Discovery) error
}

// CycleReport summarises one capture pass.
type CycleReport struct {
	Found     int           `json:"found"`
	New       int           `json:"new"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	ScanErr   error         `json:"-"`
}

// Cycle runs the scan, dedup, geotag and append pass. It must only be driven
// from one goroutine at a time.
type Cycle struct {
	Scanner Scanner
	Fixes   FixSource
	Store   Store
	Seen    *SeenSet

	// Archive is optional.
	Archive Archive
	// Clock defaults to the real clock.
	Clock timeutil.Clock
}

// NewCycle returns a Cycle with an empty seen set of the given capacity.
func NewCycle(scanner Scanner, fixes FixSource, store Store, seenCapacity int) *Cycle {
	return &Cycle{
		Scanner: scanner,
		Fixes:   fixes,
		Store:   store,
		Seen:    NewSeenSet(seenCapacity),
		Clock:   timeutil.RealClock{},
	}
}

// RunOnce performs a single pass. Scan and storage failures are logged and
// never abort the pass.
func (c *Cycle) RunOnce(ctx context.Context) CycleReport {
	start := c.now()
	report := CycleReport{StartedAt: start}
	defer c.Scanner.Release()

	sightings, err := c.Scanner.Scan(ctx)
	if err != nil {
		monitoring.Logf("capture: scan failed: %v", err)
		report.ScanErr = err
		report.Duration = c.now().Sub(start)
		return report
	}
	report.Found = len(sightings)

	for _, s := range sightings {
		if c.Seen.Contains(s.Address) {
			continue
		}
		c.Seen.Insert(s.Address)

		fix := c.Fixes.CurrentFix()
		if err := c.Store.Append(Format(s, fix)); err != nil {
			monitoring.Logf("capture: failed to log %s (%q): %v", s.Address, s.SSID, err)
			continue
		}
		report.New++
		monitoring.Verbosef("capture: new network %s %q %s ch=%d rssi=%d", s.Address, s.SSID, s.Security, s.Channel, s.RSSI)

		if c.Archive != nil {
			d := Discovery{Sighting: s, Fix: fix, DiscoveredAt: c.now()}
			if err := c.Archive.RecordDiscovery(d); err != nil {
				monitoring.Logf("capture: failed to archive %s: %v", s.Address, err)
			}
		}
	}

	report.Duration = c.now().Sub(start)
	return report
}

func (c *Cycle) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}
