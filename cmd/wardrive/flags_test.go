package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wardrive/internal/config"
	"github.com/banshee-data/wardrive/internal/status"
)

// newFlagSet mirrors the subset of main's flags the override tests exercise.
func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("wardrive", flag.ContinueOnError)
	fs.String("iface", "wlan0", "")
	fs.Bool("scan-dump", false, "")
	fs.Duration("scan-backoff", 500*time.Millisecond, "")
	fs.Int("seen-capacity", 100, "")
	fs.String("db", "wardrive.db", "")
	fs.Bool("disable-gps", false, "")
	fs.Duration("heartbeat", time.Second, "")
	fs.Int("gps-baud", 9600, "")
	return fs
}

func TestFlagDefaultsMatchConfigDefaults(t *testing.T) {
	cfg := &config.WardriveConfig{}

	assert.Equal(t, cfg.GetWifiInterface(), *iface)
	assert.Equal(t, cfg.GetScanCommand(), *scanCommand)
	assert.Equal(t, cfg.GetScanErrorBackoff(), *scanBackoff)
	assert.Equal(t, cfg.GetSeenCapacity(), *seenCap)
	assert.Equal(t, cfg.GetLogPath(), *logPath)
	assert.Equal(t, cfg.GetGPSPort(), *gpsPort)
	assert.Equal(t, cfg.GetGPSBaudRate(), *gpsBaud)
	assert.Equal(t, cfg.GetDBPath(), *dbPath)
	assert.Equal(t, cfg.GetListen(), *listen)
	assert.Equal(t, cfg.GetHeartbeatInterval(), *heartbeat)
	assert.False(t, *disableGPS)
}

func TestApplyFlagOverrides_OnlyExplicitFlags(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"-iface", "wlan1",
		"-scan-dump",
		"-seen-capacity", "250",
		"-db", "",
		"-heartbeat", "2s",
	}))

	cfg := &config.WardriveConfig{LogPath: ptr("/media/usb/wardrive.csv"), GPSBaudRate: ptr(38400)}
	require.NoError(t, applyFlagOverrides(fs, cfg))

	assert.Equal(t, "wlan1", cfg.GetWifiInterface())
	assert.True(t, cfg.GetScanDump())
	assert.Equal(t, 250, cfg.GetSeenCapacity())
	assert.Equal(t, "", cfg.GetDBPath(), "explicit empty -db disables the archive")
	assert.Equal(t, 2*time.Second, cfg.GetHeartbeatInterval())

	// Values from the file survive when the flag was not given.
	assert.Equal(t, "/media/usb/wardrive.csv", cfg.GetLogPath())
	assert.Equal(t, 38400, cfg.GetGPSBaudRate())
	assert.False(t, cfg.GetGPSDisabled())
}

func TestApplyFlagOverrides_Invalid(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"-seen-capacity", "0"}))

	err := applyFlagOverrides(fs, &config.WardriveConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seen_capacity")
}

func TestOpenStatus(t *testing.T) {
	display, led := openStatus(&config.WardriveConfig{})
	assert.IsType(t, status.LogDisplay{}, display)
	assert.IsType(t, status.NopLED{}, led)

	cfg := &config.WardriveConfig{
		DisplayPath: ptr("/run/wardrive/display.txt"),
		LEDPath:     ptr("/sys/class/leds/led0/brightness"),
	}
	display, led = openStatus(cfg)
	if fd, ok := display.(status.FileDisplay); assert.True(t, ok) {
		assert.Equal(t, "/run/wardrive/display.txt", fd.Path)
	}
	if sl, ok := led.(status.SysfsLED); assert.True(t, ok) {
		assert.Equal(t, "/sys/class/leds/led0/brightness", sl.Path)
	}
}

func TestOpenGPS_Disabled(t *testing.T) {
	m := openGPS(&config.WardriveConfig{GPSDisabled: ptr(true)})
	defer m.Close()
	assert.NoError(t, m.Initialize())
}

func TestOpenGPS_MissingPortDegrades(t *testing.T) {
	m := openGPS(&config.WardriveConfig{GPSPort: ptr("/dev/does-not-exist-wardrive")})
	defer m.Close()
	assert.NoError(t, m.Initialize(), "a missing port falls back to the disabled transport")
}
