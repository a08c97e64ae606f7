// Package wifi implements the access point scan primitive on top of the
// Linux `iw` utility.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/banshee-data/wardrive/internal/capture"
)

// ErrScanFailed wraps every failure to enumerate access points.
var ErrScanFailed = errors.New("wifi scan failed")

// DefaultCommand is the scan utility invoked by Scanner.
const DefaultCommand = "iw"

// Scanner triggers a scan on one wireless interface and parses the result.
type Scanner struct {
	Interface string
	Command   string
	// Dump reads the kernel's cached scan results instead of triggering a new
	// scan, which does not require CAP_NET_ADMIN.
	Dump   bool
	Runner CommandRunner

	mu   sync.Mutex
	last []byte
}

// NewScanner returns a Scanner for iface using the local iw binary.
func NewScanner(iface string) *Scanner {
	return &Scanner{
		Interface: iface,
		Command:   DefaultCommand,
		Runner:    ExecRunner{},
	}
}

// Args returns the command line arguments for one scan.
func (s *Scanner) Args() []string {
	args := []string{"dev", s.Interface, "scan"}
	if s.Dump {
		args = append(args, "dump")
	}
	return args
}

// Scan runs one scan pass.
func (s *Scanner) Scan(ctx context.Context) ([]capture.Sighting, error) {
	if s.Interface == "" {
		return nil, fmt.Errorf("%w: no interface configured", ErrScanFailed)
	}
	cmd := s.Command
	if cmd == "" {
		cmd = DefaultCommand
	}

	out, err := s.Runner.Run(ctx, cmd, s.Args()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}

	s.mu.Lock()
	s.last = out
	s.mu.Unlock()

	return ParseScan(out), nil
}

// Release drops the raw output retained from the last scan.
func (s *Scanner) Release() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}

// LastOutput returns the raw output of the last scan that has not been
// released yet.
func (s *Scanner) LastOutput() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

var _ capture.Scanner = (*Scanner)(nil)
