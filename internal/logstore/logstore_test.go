package logstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/fsutil"
	"github.com/banshee-data/wardrive/internal/gps"
)

func TestStore_HeaderWrittenOnce(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/sd", 0755))
	s := New(mfs, "/sd/wardrive.csv")

	require.NoError(t, s.Append("a, [OPEN], 1, -50, 0.0000, 0.0000\n"))
	require.NoError(t, s.Append("b, [WEP], 6, -70, 0.0000, 0.0000\n"))

	data, err := mfs.ReadFile("/sd/wardrive.csv")
	require.NoError(t, err)
	assert.Equal(t, capture.LogHeader+
		"a, [OPEN], 1, -50, 0.0000, 0.0000\n"+
		"b, [WEP], 6, -70, 0.0000, 0.0000\n", string(data))

	appended, failed := s.Stats()
	assert.EqualValues(t, 2, appended)
	assert.EqualValues(t, 0, failed)
}

func TestStore_ExistingFileGetsNoHeader(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("wardrive.csv", []byte("old line\n"), 0644))

	s := New(mfs, "")
	require.NoError(t, s.Append("new line\n"))

	data, err := mfs.ReadFile("wardrive.csv")
	require.NoError(t, err)
	assert.Equal(t, "old line\nnew line\n", string(data))
}

func TestStore_WriteFailure(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	s := New(mfs, "log.csv")

	busy := errors.New("medium busy")
	mfs.FailWrites(busy)
	err := s.Append("x\n")
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.ErrorIs(t, err, busy)

	mfs.FailWrites(nil)
	require.NoError(t, s.Append("y\n"))

	data, err := mfs.ReadFile("log.csv")
	require.NoError(t, err)
	assert.Equal(t, capture.LogHeader+"y\n", string(data), "failed record is skipped, header still written once")

	appended, failed := s.Stats()
	assert.EqualValues(t, 1, appended)
	assert.EqualValues(t, 1, failed)
}

func TestStore_UnmountedDirectory(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	s := New(mfs, "/sd/wardrive.csv")

	err := s.Append("x\n")
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.False(t, mfs.Exists("/sd/wardrive.csv"))

	// The medium shows up later; the next append recovers.
	require.NoError(t, mfs.MkdirAll("/sd", 0755))
	require.NoError(t, s.Append("y\n"))
	assert.True(t, mfs.Exists("/sd/wardrive.csv"))
}

func TestStore_OSFileSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardrive.csv")
	s := New(fsutil.OSFileSystem{}, path)

	require.NoError(t, s.Append("one\n"))
	require.NoError(t, s.Append("two\n"))

	// A fresh Store over the same file must not repeat the header.
	s2 := New(fsutil.OSFileSystem{}, path)
	require.NoError(t, s2.Append("three\n"))

	data, err := fsutil.OSFileSystem{}.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, capture.LogHeader+"one\ntwo\nthree\n", string(data))
}

func TestStore_FormattedRecord(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	s := New(mfs, "log.csv")

	s1 := capture.Sighting{SSID: "net", Security: capture.SecurityOpen, Channel: 11, RSSI: -40}
	s1.Address[5] = 1
	require.NoError(t, s.Append(capture.Format(s1, gps.Fix{})))

	data, err := mfs.ReadFile("log.csv")
	require.NoError(t, err)
	assert.Equal(t, capture.LogHeader+"net, [OPEN], 11, -40, 0.0000, 0.0000\n", string(data))
}
