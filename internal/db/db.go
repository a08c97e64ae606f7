package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/timeutil"
)

// DB is the sighting archive. It mirrors every discovery written to the
// record log and every cycle report, tagged with the session of the process
// that produced them.
type DB struct {
	*sql.DB

	path  string
	clock timeutil.Clock

	mu        sync.RWMutex
	sessionID string
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// NewDB opens (creating if needed) the archive at path and brings its schema
// up to date with the embedded migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens the archive without touching its schema.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps PRAGMAs and the session row consistent.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return &DB{DB: sqlDB, path: path, clock: timeutil.RealClock{}}, nil
}

// SetClock replaces the clock used for session start times.
func (db *DB) SetClock(c timeutil.Clock) {
	db.clock = c
}

// StartSession records a new capture session and makes it current. Every
// discovery and cycle recorded afterwards belongs to it.
func (db *DB) StartSession(version string) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO sessions (session_id, started_at, version) VALUES (?, ?, ?)`,
		id, db.clock.Now().UnixNano(), version,
	)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	db.mu.Lock()
	db.sessionID = id
	db.mu.Unlock()
	return id, nil
}

// SessionID returns the current session, or "" before StartSession.
func (db *DB) SessionID() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sessionID
}

func (db *DB) currentSession() (string, error) {
	id := db.SessionID()
	if id == "" {
		return "", fmt.Errorf("no session started")
	}
	return id, nil
}

// RecordDiscovery archives one newly discovered network.
func (db *DB) RecordDiscovery(d capture.Discovery) error {
	session, err := db.currentSession()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO discoveries (
			session_id, bssid, ssid, security, channel, rssi,
			latitude, longitude, fix_valid, discovered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session, d.Address.String(), d.SSID, d.Security.String(), d.Channel, d.RSSI,
		d.Fix.Latitude, d.Fix.Longitude, d.Fix.Valid, d.DiscoveredAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record discovery %s: %w", d.Address, err)
	}
	return nil
}

// RecordCycle archives one cycle report.
func (db *DB) RecordCycle(r capture.CycleReport) error {
	session, err := db.currentSession()
	if err != nil {
		return err
	}
	var scanErr string
	if r.ScanErr != nil {
		scanErr = r.ScanErr.Error()
	}
	_, err = db.Exec(
		`INSERT INTO cycles (session_id, found, new, scan_error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session, r.Found, r.New, scanErr,
		r.StartedAt.UnixNano(), r.StartedAt.Add(r.Duration).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record cycle: %w", err)
	}
	return nil
}

// Cycle is an archived cycle report.
type Cycle struct {
	SessionID string        `json:"session_id"`
	Found     int           `json:"found"`
	New       int           `json:"new"`
	ScanError string        `json:"scan_error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// RecentCycles returns up to limit of the most recent cycles, oldest first.
func (db *DB) RecentCycles(limit int) ([]Cycle, error) {
	rows, err := db.Query(`
		SELECT session_id, found, new, scan_error, started_at, finished_at FROM (
			SELECT id, session_id, found, new, scan_error, started_at, finished_at
			FROM cycles ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var (
			c                 Cycle
			started, finished int64
		)
		if err := rows.Scan(&c.SessionID, &c.Found, &c.New, &c.ScanError, &started, &finished); err != nil {
			return nil, err
		}
		c.StartedAt = time.Unix(0, started).UTC()
		c.Duration = time.Duration(finished - started)
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// Discovery is an archived discovery row.
type Discovery struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	BSSID        string    `json:"bssid"`
	SSID         string    `json:"ssid"`
	Security     string    `json:"security"`
	Channel      int       `json:"channel"`
	RSSI         int       `json:"rssi"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	FixValid     bool      `json:"fix_valid"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

const discoveryColumns = `id, session_id, bssid, ssid, security, channel, rssi,
	latitude, longitude, fix_valid, discovered_at`

// Discoveries returns up to limit discoveries, newest first.
func (db *DB) Discoveries(limit int) ([]Discovery, error) {
	return db.queryDiscoveries(
		`SELECT `+discoveryColumns+` FROM discoveries ORDER BY id DESC LIMIT ?`, limit)
}

// LocatedDiscoveries returns every discovery that was tagged with a valid
// fix, oldest first.
func (db *DB) LocatedDiscoveries() ([]Discovery, error) {
	return db.queryDiscoveries(
		`SELECT ` + discoveryColumns + ` FROM discoveries WHERE fix_valid = 1 ORDER BY id ASC`)
}

func (db *DB) queryDiscoveries(query string, args ...any) ([]Discovery, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Discovery
	for rows.Next() {
		var (
			d  Discovery
			at int64
		)
		if err := rows.Scan(
			&d.ID, &d.SessionID, &d.BSSID, &d.SSID, &d.Security, &d.Channel, &d.RSSI,
			&d.Latitude, &d.Longitude, &d.FixValid, &at,
		); err != nil {
			return nil, err
		}
		d.DiscoveredAt = time.Unix(0, at).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

// DiscoveryStats summarises the archive.
type DiscoveryStats struct {
	Total      int            `json:"total"`
	Located    int            `json:"located"`
	Sessions   int            `json:"sessions"`
	BySecurity map[string]int `json:"by_security"`
	// RSSI holds every discovery's signal strength in dBm.
	RSSI []float64 `json:"-"`
}

// DiscoveryStats aggregates all discoveries across sessions.
func (db *DB) DiscoveryStats() (*DiscoveryStats, error) {
	stats := &DiscoveryStats{BySecurity: map[string]int{}}

	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&stats.Sessions); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT security, rssi, fix_valid FROM discoveries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			security string
			rssi     int
			located  bool
		)
		if err := rows.Scan(&security, &rssi, &located); err != nil {
			return nil, err
		}
		stats.Total++
		if located {
			stats.Located++
		}
		stats.BySecurity[security]++
		stats.RSSI = append(stats.RSSI, float64(rssi))
	}
	return stats, rows.Err()
}

var _ capture.Archive = (*DB)(nil)
