package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/banshee-data/wardrive/internal/config"
)

var (
	configPath  = flag.String("config", "", "Path to JSON configuration file (built-in defaults when empty)")
	showVersion = flag.Bool("version", false, "Print version and exit")
	devMode     = flag.Bool("dev", false, "Replay canned NMEA sentences instead of opening the GPS port")

	iface       = flag.String("iface", "wlan0", "Wireless interface to scan")
	scanCommand = flag.String("scan-command", "iw", "Scan utility binary")
	scanDump    = flag.Bool("scan-dump", false, "Read cached scan results instead of triggering a scan")
	scanBackoff = flag.Duration("scan-backoff", 500*time.Millisecond, "Rest period after a failed scan")
	seenCap     = flag.Int("seen-capacity", 100, "Number of recently seen networks remembered for deduplication")
	logPath     = flag.String("log", "wardrive.csv", "Record log path")

	gpsPort    = flag.String("gps-port", "/dev/serial0", "GPS serial device")
	gpsBaud    = flag.Int("gps-baud", 9600, "GPS baud rate")
	disableGPS = flag.Bool("disable-gps", false, "Run without a GPS receiver; records carry zero coordinates")

	dbPath      = flag.String("db", "wardrive.db", "Archive database path (empty disables the archive)")
	listen      = flag.String("listen", ":8080", "Diagnostics listen address (empty disables the server)")
	ledPath     = flag.String("led", "", "LED brightness file, e.g. /sys/class/leds/led0/brightness")
	displayPath = flag.String("display", "", "Status display text file (status goes to the log when empty)")
	heartbeat   = flag.Duration("heartbeat", time.Second, "LED heartbeat period")
	verbose     = flag.Bool("verbose", false, "Log every sentence and discovery")
)

// applyFlagOverrides copies every flag that was set explicitly on fs into
// cfg, so flags win over the config file and unset flags leave it alone.
func applyFlagOverrides(fs *flag.FlagSet, cfg *config.WardriveConfig) error {
	fs.Visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		v := getter.Get()

		switch f.Name {
		case "iface":
			cfg.WifiInterface = ptr(v.(string))
		case "scan-command":
			cfg.ScanCommand = ptr(v.(string))
		case "scan-dump":
			cfg.ScanDump = ptr(v.(bool))
		case "scan-backoff":
			cfg.ScanErrorBackoff = ptr(v.(time.Duration).String())
		case "seen-capacity":
			cfg.SeenCapacity = ptr(v.(int))
		case "log":
			cfg.LogPath = ptr(v.(string))
		case "gps-port":
			cfg.GPSPort = ptr(v.(string))
		case "gps-baud":
			cfg.GPSBaudRate = ptr(v.(int))
		case "disable-gps":
			cfg.GPSDisabled = ptr(v.(bool))
		case "db":
			cfg.DBPath = ptr(v.(string))
		case "listen":
			cfg.Listen = ptr(v.(string))
		case "led":
			cfg.LEDPath = ptr(v.(string))
		case "display":
			cfg.DisplayPath = ptr(v.(string))
		case "heartbeat":
			cfg.HeartbeatInterval = ptr(v.(time.Duration).String())
		case "verbose":
			cfg.Verbose = ptr(v.(bool))
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
