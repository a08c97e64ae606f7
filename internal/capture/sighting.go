package capture

import (
	"time"

	"github.com/banshee-data/wardrive/internal/gps"
)

// Sighting is one access point observed during a scan pass.
type Sighting struct {
	Address  NetworkAddress
	SSID     string
	RSSI     int
	Security SecurityKind
	Channel  int
}

// Discovery is a sighting that was new to the seen set and was written to the
// record log, together with the fix it was tagged with.
type Discovery struct {
	Sighting
	Fix          gps.Fix
	DiscoveredAt time.Time
}
