// Package testutil provides shared test helpers for HTTP handlers and the
// discovery archive.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/db"
	"github.com/banshee-data/wardrive/internal/gps"
	"github.com/banshee-data/wardrive/internal/timeutil"
)

// Epoch is the fixed start time used by archive fixtures.
var Epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// DecodeJSON unmarshals a recorded response body into v.
func DecodeJSON(t testing.TB, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// NewTestDB opens a migrated archive in a temp dir with an open session and
// a mock clock starting at Epoch.
func NewTestDB(t testing.TB) (*db.DB, *timeutil.MockClock) {
	t.Helper()
	archive, err := db.NewDB(filepath.Join(t.TempDir(), "wardrive.db"))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	clock := timeutil.NewMockClock(Epoch)
	archive.SetClock(clock)
	if _, err := archive.StartSession("test"); err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return archive, clock
}

// Discovery builds a discovery for addr with the given signal and fix.
func Discovery(addr string, rssi int, fix gps.Fix) capture.Discovery {
	a, err := capture.ParseNetworkAddress(addr)
	if err != nil {
		panic(err)
	}
	return capture.Discovery{
		Sighting: capture.Sighting{
			Address:  a,
			SSID:     "net-" + addr[len(addr)-2:],
			Security: capture.SecurityWPA2PSK,
			Channel:  6,
			RSSI:     rssi,
		},
		Fix:          fix,
		DiscoveredAt: Epoch,
	}
}
