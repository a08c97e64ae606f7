package capture

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/banshee-data/wardrive/internal/monitoring"
	"github.com/banshee-data/wardrive/internal/timeutil"
)

// DefaultScanErrorBackoff is how long the scheduler rests after a failed scan.
const DefaultScanErrorBackoff = 500 * time.Millisecond

// Stats is a snapshot of scheduler progress, safe to read from any goroutine.
type Stats struct {
	Cycles        uint64      `json:"cycles"`
	TotalNew      uint64      `json:"total_new"`
	SeenLen       int         `json:"seen_len"`
	SeenCap       int         `json:"seen_cap"`
	Last          CycleReport `json:"last"`
	LastScanError string      `json:"last_scan_error,omitempty"`
}

// CycleRecorder persists cycle reports. *db.DB implements it.
type CycleRecorder interface {
	RecordCycle(r CycleReport) error
}

// Scheduler runs a Cycle back-to-back on its own goroutine so the discovery
// rate is bounded by the scanner rather than a timer. Reports are handed to
// the status side through a one-slot mailbox that never blocks the capture
// loop; a report nobody picked up is replaced by the next one.
type Scheduler struct {
	cycle   *Cycle
	clock   timeutil.Clock
	backoff time.Duration
	reports chan CycleReport
	stats   atomic.Pointer[Stats]

	// Recorder, when set, receives every cycle report on the capture
	// goroutine before the mailbox publish.
	Recorder CycleRecorder
}

// NewScheduler returns a scheduler for c. A backoff that is not positive
// selects DefaultScanErrorBackoff.
func NewScheduler(c *Cycle, backoff time.Duration) *Scheduler {
	if backoff <= 0 {
		backoff = DefaultScanErrorBackoff
	}
	clock := c.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	s := &Scheduler{
		cycle:   c,
		clock:   clock,
		backoff: backoff,
		reports: make(chan CycleReport, 1),
	}
	s.stats.Store(&Stats{SeenCap: c.Seen.Cap()})
	return s
}

// Reports returns the mailbox the scheduler publishes each cycle report to.
func (s *Scheduler) Reports() <-chan CycleReport {
	return s.reports
}

// Stats returns the latest progress snapshot.
func (s *Scheduler) Stats() Stats {
	return *s.stats.Load()
}

// Run drives the cycle until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r := s.cycle.RunOnce(ctx)
		s.record(r)
		s.archive(r)
		s.publish(r)

		if r.ScanErr != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.clock.After(s.backoff):
			}
		}
	}
}

func (s *Scheduler) record(r CycleReport) {
	prev := s.stats.Load()
	next := &Stats{
		Cycles:   prev.Cycles + 1,
		TotalNew: prev.TotalNew + uint64(r.New),
		SeenLen:  s.cycle.Seen.Len(),
		SeenCap:  s.cycle.Seen.Cap(),
		Last:     r,
	}
	if r.ScanErr != nil {
		next.LastScanError = r.ScanErr.Error()
	}
	s.stats.Store(next)
}

func (s *Scheduler) archive(r CycleReport) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.RecordCycle(r); err != nil {
		monitoring.Logf("capture: failed to archive cycle: %v", err)
	}
}

func (s *Scheduler) publish(r CycleReport) {
	select {
	case s.reports <- r:
		return
	default:
	}
	// Drop the stale report and retry once; the status side only needs the
	// latest one.
	select {
	case <-s.reports:
	default:
	}
	select {
	case s.reports <- r:
	default:
	}
}
