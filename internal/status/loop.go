package status

import (
	"context"
	"time"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/monitoring"
	"github.com/banshee-data/wardrive/internal/timeutil"
)

// DefaultHeartbeat is the LED blink period.
const DefaultHeartbeat = time.Second

// Loop is the foreground status task. It hands every report from the
// capture mailbox to Reporter and turns the LED off on each heartbeat tick,
// so a "new networks" flash lasts at most one period. It never touches
// capture state directly.
type Loop struct {
	Reports   <-chan capture.CycleReport
	Reporter  Reporter
	LED       LED
	Heartbeat time.Duration
	Clock     timeutil.Clock
}

// Run processes reports until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	period := l.Heartbeat
	if period <= 0 {
		period = DefaultHeartbeat
	}
	clock := l.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	ticker := clock.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.setLED(false)
			return ctx.Err()
		case r := <-l.Reports:
			if l.Reporter != nil {
				l.Reporter.Report(r)
			}
		case <-ticker.C():
			l.setLED(false)
		}
	}
}

func (l *Loop) setLED(on bool) {
	if l.LED == nil {
		return
	}
	if err := l.LED.Set(on); err != nil {
		monitoring.Logf("status: led: %v", err)
	}
}
