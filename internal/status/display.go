// Package status surfaces capture results on the device's display and LED.
package status

import (
	"fmt"
	"strings"

	"github.com/banshee-data/wardrive/internal/fsutil"
	"github.com/banshee-data/wardrive/internal/monitoring"
)

// Display renders a block of status text.
type Display interface {
	Render(text string) error
}

// LED is a single on/off indicator.
type LED interface {
	Set(on bool) error
}

// FileDisplay rewrites a text file on every render. A panel daemon polls
// the file and draws it.
type FileDisplay struct {
	FS   fsutil.FileSystem
	Path string
}

func (d FileDisplay) Render(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := d.FS.WriteFile(d.Path, []byte(text), 0644); err != nil {
		return fmt.Errorf("render %s: %w", d.Path, err)
	}
	return nil
}

// LogDisplay writes each render to the diagnostic log, one line per render.
// It is used when no panel is attached.
type LogDisplay struct{}

func (LogDisplay) Render(text string) error {
	monitoring.Logf("status: %s", strings.ReplaceAll(strings.TrimSpace(text), "\n", " | "))
	return nil
}

// SysfsLED drives a kernel LED through its brightness attribute, for
// example /sys/class/leds/led0/brightness.
type SysfsLED struct {
	FS   fsutil.FileSystem
	Path string
}

func (l SysfsLED) Set(on bool) error {
	v := []byte("0\n")
	if on {
		v = []byte("1\n")
	}
	if err := l.FS.WriteFile(l.Path, v, 0644); err != nil {
		return fmt.Errorf("set led %s: %w", l.Path, err)
	}
	return nil
}

// NopLED ignores every update.
type NopLED struct{}

func (NopLED) Set(bool) error { return nil }
