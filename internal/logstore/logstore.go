// Package logstore implements the append-only record log on top of a
// fsutil.FileSystem.
package logstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/fsutil"
)

// DefaultPath is the record log location used when none is configured.
const DefaultPath = "wardrive.csv"

// ErrWriteFailed wraps every failed append.
var ErrWriteFailed = errors.New("record log write failed")

// Store appends formatted records to a single text file. The header is
// written once, only when the file does not exist yet. Every Append opens,
// writes and closes the file so a remounted medium recovers on the next call.
type Store struct {
	FS     fsutil.FileSystem
	Path   string
	Header string

	mu      sync.Mutex
	appends int64
	failed  int64
}

// New returns a Store writing capture.LogHeader-prefixed records to path.
func New(fs fsutil.FileSystem, path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{FS: fs, Path: path, Header: capture.LogHeader}
}

// Append writes one record line.
func (s *Store) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.append(line); err != nil {
		s.failed++
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.Path, err)
	}
	s.appends++
	return nil
}

func (s *Store) append(line string) error {
	if dir := filepath.Dir(s.Path); dir != "." && !s.FS.Exists(dir) {
		return fmt.Errorf("directory %s not mounted", dir)
	}
	if !s.FS.Exists(s.Path) && s.Header != "" {
		if err := s.FS.AppendFile(s.Path, []byte(s.Header), 0644); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	return s.FS.AppendFile(s.Path, []byte(line), 0644)
}

// Stats reports how many appends succeeded and failed since creation.
func (s *Store) Stats() (appended, failed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends, s.failed
}

var _ capture.Store = (*Store)(nil)
