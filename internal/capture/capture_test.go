package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/banshee-data/wardrive/internal/gps"
)

// fakeScanner returns one scripted batch per Scan call and then empty batches.
type fakeScanner struct {
	mu       sync.Mutex
	batches  [][]Sighting
	errs     []error
	scans    int
	releases int
}

func (f *fakeScanner) Scan(ctx context.Context) ([]Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.scans
	f.scans++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.batches) {
		return f.batches[i], nil
	}
	return nil, nil
}

func (f *fakeScanner) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

func (f *fakeScanner) counts() (scans, releases int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scans, f.releases
}

type memStore struct {
	lines  []string
	failOn map[string]bool
}

var errStoreFull = errors.New("no space left on device")

func (m *memStore) Append(line string) error {
	if m.failOn[line] {
		return errStoreFull
	}
	m.lines = append(m.lines, line)
	return nil
}

type staticFix gps.Fix

func (f staticFix) CurrentFix() gps.Fix { return gps.Fix(f) }

type memArchive struct {
	discoveries []Discovery
	err         error
}

func (a *memArchive) RecordDiscovery(d Discovery) error {
	if a.err != nil {
		return a.err
	}
	a.discoveries = append(a.discoveries, d)
	return nil
}

func addr(last byte) NetworkAddress {
	return NetworkAddress{0x02, 0x00, 0x00, 0x00, 0x00, last}
}

func sighting(last byte, ssid string) Sighting {
	return Sighting{Address: addr(last), SSID: ssid, RSSI: -60 - int(last), Security: SecurityWPA2PSK, Channel: 6}
}
