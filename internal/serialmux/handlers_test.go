package serialmux

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/banshee-data/wardrive/internal/monitoring"
)

type logCapture struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCapture) logf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *logCapture) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

func TestHandleReceiverMessage(t *testing.T) {
	var logs logCapture
	monitoring.SetLogger(logs.logf)
	defer monitoring.SetLogger(nil)

	HandleReceiverMessage("$PMTK001,314,3*36")
	HandleReceiverMessage("$PMTK001,220,2*31")
	HandleReceiverMessage("$PMTK001,bad*00")
	HandleReceiverMessage("$GPTXT,01,01,02,ANTSTATUS=OK*3B")
	HandleReceiverMessage("$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A")

	got := logs.joined()
	if strings.Contains(got, "PMTK314") {
		t.Errorf("successful ack should only be logged verbosely: %q", got)
	}
	for _, want := range []string{"PMTK220 action failed", "not an MTK acknowledgement", "ANTSTATUS=OK"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected log to contain %q, got %q", want, got)
		}
	}
	if strings.Contains(got, "GPRMC") {
		t.Errorf("position sentences are not logged here: %q", got)
	}
}

func TestWatchReceiverMessages(t *testing.T) {
	var logs logCapture
	monitoring.SetLogger(logs.logf)
	defer monitoring.SetLogger(nil)

	port := NewTestableSerialPort()
	port.BlockReads = true
	mux := NewSerialMux(port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchDone := make(chan error, 1)
	go func() { watchDone <- WatchReceiverMessages(ctx, mux) }()
	go mux.Monitor(ctx)

	time.Sleep(20 * time.Millisecond)
	port.AddReadData([]byte("$PMTK001,220,1*32\r\n"))

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(logs.joined(), "unsupported command") {
		if time.Now().After(deadline) {
			t.Fatalf("ack was not logged, got %q", logs.joined())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Closing the mux ends the subscription.
	mux.Close()
	select {
	case err := <-watchDone:
		if err != nil {
			t.Errorf("expected nil after close, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
