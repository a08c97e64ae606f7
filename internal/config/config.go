package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/wardrive.defaults.json"

// WardriveConfig is the device configuration. Every field is optional; the
// Get* accessors supply the default for anything the file leaves out, so
// partial configs are safe.
type WardriveConfig struct {
	// Scanning
	WifiInterface    *string `json:"wifi_interface,omitempty"`
	ScanCommand      *string `json:"scan_command,omitempty"`
	ScanDump         *bool   `json:"scan_dump,omitempty"`
	ScanErrorBackoff *string `json:"scan_error_backoff,omitempty"` // duration string like "500ms"
	SeenCapacity     *int    `json:"seen_capacity,omitempty"`

	// Record log
	LogPath *string `json:"log_path,omitempty"`

	// GPS receiver
	GPSPort     *string `json:"gps_port,omitempty"`
	GPSBaudRate *int    `json:"gps_baud_rate,omitempty"`
	GPSDataBits *int    `json:"gps_data_bits,omitempty"`
	GPSStopBits *int    `json:"gps_stop_bits,omitempty"`
	GPSParity   *string `json:"gps_parity,omitempty"`
	GPSDisabled *bool   `json:"gps_disabled,omitempty"`

	// Archive and diagnostics. An empty db_path disables the archive.
	DBPath *string `json:"db_path,omitempty"`
	Listen *string `json:"listen,omitempty"`

	// Status peripherals. Empty paths fall back to the process log and no LED.
	LEDPath           *string `json:"led_path,omitempty"`
	DisplayPath       *string `json:"display_path,omitempty"`
	HeartbeatInterval *string `json:"heartbeat_interval,omitempty"`

	Verbose *bool `json:"verbose,omitempty"`
}

// LoadConfig loads a WardriveConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadConfig(path string) (*WardriveConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &WardriveConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *WardriveConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *WardriveConfig) Validate() error {
	if c.SeenCapacity != nil && *c.SeenCapacity < 1 {
		return fmt.Errorf("seen_capacity must be at least 1, got %d", *c.SeenCapacity)
	}
	if c.GPSBaudRate != nil && *c.GPSBaudRate < 0 {
		return fmt.Errorf("gps_baud_rate must be non-negative, got %d", *c.GPSBaudRate)
	}
	if c.WifiInterface != nil && *c.WifiInterface == "" {
		return fmt.Errorf("wifi_interface must not be empty")
	}

	for name, v := range map[string]*string{
		"scan_error_backoff": c.ScanErrorBackoff,
		"heartbeat_interval": c.HeartbeatInterval,
	} {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %s", name, d)
		}
	}
	return nil
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func durationOr(p *string, def time.Duration) time.Duration {
	if p == nil || *p == "" {
		return def
	}
	d, err := time.ParseDuration(*p)
	if err != nil {
		return def
	}
	return d
}

// GetWifiInterface returns the wireless interface to scan on.
func (c *WardriveConfig) GetWifiInterface() string {
	if c.WifiInterface == nil || *c.WifiInterface == "" {
		return "wlan0"
	}
	return *c.WifiInterface
}

// GetScanCommand returns the scan utility binary.
func (c *WardriveConfig) GetScanCommand() string {
	if c.ScanCommand == nil || *c.ScanCommand == "" {
		return "iw"
	}
	return *c.ScanCommand
}

// GetScanDump reports whether cached scan results are read instead of
// triggering a scan.
func (c *WardriveConfig) GetScanDump() bool {
	return c.ScanDump != nil && *c.ScanDump
}

// GetScanErrorBackoff returns the rest period after a failed scan. Zero leaves
// the choice to the scheduler default.
func (c *WardriveConfig) GetScanErrorBackoff() time.Duration {
	return durationOr(c.ScanErrorBackoff, 500*time.Millisecond)
}

// GetSeenCapacity returns the dedup ring capacity.
func (c *WardriveConfig) GetSeenCapacity() int {
	if c.SeenCapacity == nil {
		return 100
	}
	return *c.SeenCapacity
}

// GetLogPath returns the record log path.
func (c *WardriveConfig) GetLogPath() string {
	if c.LogPath == nil || *c.LogPath == "" {
		return "wardrive.csv"
	}
	return *c.LogPath
}

// GetGPSPort returns the GPS serial device.
func (c *WardriveConfig) GetGPSPort() string {
	return stringOr(c.GPSPort, "/dev/serial0")
}

// GetGPSBaudRate returns the GPS baud rate.
func (c *WardriveConfig) GetGPSBaudRate() int {
	if c.GPSBaudRate == nil || *c.GPSBaudRate == 0 {
		return 9600
	}
	return *c.GPSBaudRate
}

// GetGPSDataBits returns the GPS data bits, 0 meaning the transport default.
func (c *WardriveConfig) GetGPSDataBits() int {
	if c.GPSDataBits == nil {
		return 0
	}
	return *c.GPSDataBits
}

// GetGPSStopBits returns the GPS stop bits, 0 meaning the transport default.
func (c *WardriveConfig) GetGPSStopBits() int {
	if c.GPSStopBits == nil {
		return 0
	}
	return *c.GPSStopBits
}

// GetGPSParity returns the GPS parity, "" meaning the transport default.
func (c *WardriveConfig) GetGPSParity() string {
	return stringOr(c.GPSParity, "")
}

// GetGPSDisabled reports whether capture runs without a GPS receiver.
func (c *WardriveConfig) GetGPSDisabled() bool {
	return c.GPSDisabled != nil && *c.GPSDisabled
}

// GetDBPath returns the archive path; "" disables the archive.
func (c *WardriveConfig) GetDBPath() string {
	return stringOr(c.DBPath, "wardrive.db")
}

// GetListen returns the diagnostics server address; "" disables it.
func (c *WardriveConfig) GetListen() string {
	return stringOr(c.Listen, ":8080")
}

// GetLEDPath returns the LED brightness file; "" disables the LED.
func (c *WardriveConfig) GetLEDPath() string {
	return stringOr(c.LEDPath, "")
}

// GetDisplayPath returns the display text file; "" renders to the log.
func (c *WardriveConfig) GetDisplayPath() string {
	return stringOr(c.DisplayPath, "")
}

// GetHeartbeatInterval returns the LED heartbeat period.
func (c *WardriveConfig) GetHeartbeatInterval() time.Duration {
	return durationOr(c.HeartbeatInterval, time.Second)
}

// GetVerbose reports whether per-event logging is enabled.
func (c *WardriveConfig) GetVerbose() bool {
	return c.Verbose != nil && *c.Verbose
}
