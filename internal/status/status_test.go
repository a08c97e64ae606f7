package status

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/fsutil"
	"github.com/banshee-data/wardrive/internal/monitoring"
	"github.com/banshee-data/wardrive/internal/timeutil"
)

type recDisplay struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (d *recDisplay) Render(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, text)
	return d.err
}

type recLED struct {
	mu     sync.Mutex
	states []bool
	err    error
}

func (l *recLED) Set(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, on)
	return l.err
}

func (l *recLED) last() (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.states) == 0 {
		return false, 0
	}
	return l.states[len(l.states)-1], len(l.states)
}

func TestText(t *testing.T) {
	assert.Equal(t, "No networks found", Text(capture.CycleReport{}))
	assert.Equal(t, "Found: 3\nNew: 2", Text(capture.CycleReport{Found: 3, New: 2}))
	assert.Equal(t, "Found: 5\nNew: 0", Text(capture.CycleReport{Found: 5}))
}

func TestDeviceReporter(t *testing.T) {
	d := &recDisplay{}
	l := &recLED{}
	r := &DeviceReporter{Display: d, LED: l}

	r.Report(capture.CycleReport{Found: 4, New: 1})
	r.Report(capture.CycleReport{Found: 4, New: 0})
	r.Report(capture.CycleReport{})

	assert.Equal(t, []string{"Found: 4\nNew: 1", "Found: 4\nNew: 0", "No networks found"}, d.texts)
	assert.Equal(t, []bool{true, false, false}, l.states)
}

func TestDeviceReporter_SwallowsErrors(t *testing.T) {
	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, format)
	})
	defer monitoring.SetLogger(nil)

	d := &recDisplay{err: errors.New("i2c nack")}
	l := &recLED{err: errors.New("permission denied")}
	r := &DeviceReporter{Display: d, LED: l}

	assert.NotPanics(t, func() { r.Report(capture.CycleReport{Found: 1, New: 1}) })
	assert.Len(t, d.texts, 1)
	assert.Len(t, l.states, 1)
	assert.Len(t, logged, 2)
}

func TestDeviceReporter_NilPeripherals(t *testing.T) {
	r := &DeviceReporter{}
	assert.NotPanics(t, func() { r.Report(capture.CycleReport{Found: 1, New: 1}) })
}

func TestFileDisplayAndSysfsLED(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	disp := FileDisplay{FS: mfs, Path: "/run/wardrive/display.txt"}
	require.NoError(t, disp.Render("Found: 1\nNew: 1"))
	data, err := mfs.ReadFile("/run/wardrive/display.txt")
	require.NoError(t, err)
	assert.Equal(t, "Found: 1\nNew: 1\n", string(data))

	require.NoError(t, disp.Render("No networks found\n"))
	data, _ = mfs.ReadFile("/run/wardrive/display.txt")
	assert.Equal(t, "No networks found\n", string(data), "render replaces the previous text")

	led := SysfsLED{FS: mfs, Path: "/sys/class/leds/led0/brightness"}
	require.NoError(t, led.Set(true))
	data, _ = mfs.ReadFile("/sys/class/leds/led0/brightness")
	assert.Equal(t, "1\n", string(data))
	require.NoError(t, led.Set(false))
	data, _ = mfs.ReadFile("/sys/class/leds/led0/brightness")
	assert.Equal(t, "0\n", string(data))

	mfs.FailWrites(errors.New("read-only"))
	assert.Error(t, led.Set(true))
	assert.Error(t, disp.Render("x"))
	assert.NoError(t, NopLED{}.Set(true))
}

func TestLogDisplay(t *testing.T) {
	var got string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		got = strings.TrimSpace(strings.ReplaceAll(format, "%s", v[0].(string)))
	})
	defer monitoring.SetLogger(nil)

	require.NoError(t, LogDisplay{}.Render("Found: 2\nNew: 1"))
	assert.Equal(t, "status: Found: 2 | New: 1", got)
}

func TestLoop(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	reports := make(chan capture.CycleReport, 1)
	d := &recDisplay{}
	l := &recLED{}
	loop := &Loop{
		Reports:   reports,
		Reporter:  &DeviceReporter{Display: d, LED: l},
		LED:       l,
		Heartbeat: time.Second,
		Clock:     clock,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	reports <- capture.CycleReport{Found: 3, New: 1}
	assert.Eventually(t, func() bool {
		on, n := l.last()
		return on && n == 1
	}, time.Second, 5*time.Millisecond, "new networks light the LED")

	clock.Advance(time.Second)
	assert.Eventually(t, func() bool {
		on, n := l.last()
		return !on && n == 2
	}, time.Second, 5*time.Millisecond, "heartbeat turns the LED off")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	on, _ := l.last()
	assert.False(t, on)
	assert.Equal(t, []string{"Found: 3\nNew: 1"}, d.texts)
}
