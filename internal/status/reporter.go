package status

import (
	"fmt"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/monitoring"
)

// Reporter consumes cycle reports. Implementations never fail the capture
// pipeline; errors are logged and dropped.
type Reporter interface {
	Report(r capture.CycleReport)
}

// Text returns the display text for r.
func Text(r capture.CycleReport) string {
	if r.Found == 0 {
		return "No networks found"
	}
	return fmt.Sprintf("Found: %d\nNew: %d", r.Found, r.New)
}

// DeviceReporter renders reports to a display and lights the LED while new
// networks are arriving.
type DeviceReporter struct {
	Display Display
	LED     LED
}

func (d *DeviceReporter) Report(r capture.CycleReport) {
	if d.Display != nil {
		if err := d.Display.Render(Text(r)); err != nil {
			monitoring.Logf("status: display: %v", err)
		}
	}
	if d.LED != nil {
		if err := d.LED.Set(r.New > 0); err != nil {
			monitoring.Logf("status: led: %v", err)
		}
	}
}
