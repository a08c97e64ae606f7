// Package api serves the read-only diagnostics endpoints of a running capture
// device: live status, archive summaries and the GPS console.
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/wardrive/internal/capture"
	"github.com/banshee-data/wardrive/internal/db"
	"github.com/banshee-data/wardrive/internal/gps"
	"github.com/banshee-data/wardrive/internal/httputil"
	"github.com/banshee-data/wardrive/internal/monitoring"
	"github.com/banshee-data/wardrive/internal/serialmux"
	"github.com/banshee-data/wardrive/internal/timeutil"
	"github.com/banshee-data/wardrive/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

const (
	defaultDiscoveryLimit = 100
	maxDiscoveryLimit     = 1000
)

// FixSource is the read side of the GPS tracker.
type FixSource interface {
	CurrentFix() gps.Fix
	LastValid() time.Time
}

// CaptureStats reports scheduler progress.
type CaptureStats interface {
	Stats() capture.Stats
}

type Server struct {
	m       serialmux.SerialMuxInterface
	db      *db.DB
	fixes   FixSource
	capture CaptureStats
	feed    *gps.Feed
	clock   timeutil.Clock
	started time.Time
}

// NewServer returns a server over the given subsystems. db may be nil when the
// archive is disabled; archive endpoints then answer 503.
func NewServer(m serialmux.SerialMuxInterface, db *db.DB, fixes FixSource, stats CaptureStats) *Server {
	s := &Server{
		m:       m,
		db:      db,
		fixes:   fixes,
		capture: stats,
	}
	s.SetClock(timeutil.RealClock{})
	return s
}

// SetClock replaces the clock used for uptime and fix age.
func (s *Server) SetClock(c timeutil.Clock) {
	s.clock = c
	s.started = c.Now()
}

// SetFeed exposes NMEA decode counters on /api/status.
func (s *Server) SetFeed(f *gps.Feed) {
	s.feed = f
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns a mux with the API routes and the GPS and archive admin
// routes mounted.
func (s *Server) ServeMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.showStatus)
	mux.HandleFunc("/api/summary", s.showSummary)
	mux.HandleFunc("/api/discoveries", s.listDiscoveries)
	mux.HandleFunc("/api/cycles", s.listCycles)
	mux.HandleFunc("/command", s.sendCommandHandler)
	mux.HandleFunc("/debug/cycles", s.handleCyclesChart)

	if s.m != nil {
		s.m.AttachAdminRoutes(mux)
	}
	if s.db != nil {
		if err := s.db.AttachAdminRoutes(mux); err != nil {
			return nil, fmt.Errorf("failed to attach archive routes: %w", err)
		}
	}
	return mux, nil
}

func (s *Server) sendCommandHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.m == nil {
		http.Error(w, "GPS receiver not configured", http.StatusServiceUnavailable)
		return
	}

	command := r.FormValue("command")
	if command == "" {
		http.Error(w, "Missing command", http.StatusBadRequest)
		return
	}
	if err := s.m.SendCommand(command); err != nil {
		http.Error(w, "Failed to send command", http.StatusInternalServerError)
		return
	}
	io.WriteString(w, "Command sent successfully")
}

// Status is the /api/status payload.
type Status struct {
	Version   version.Info   `json:"version"`
	Uptime    float64        `json:"uptime_seconds"`
	Fix       gps.Fix        `json:"fix"`
	LastFixAt *time.Time     `json:"last_fix_at,omitempty"`
	FixAge    *float64       `json:"fix_age_seconds,omitempty"`
	Capture   *capture.Stats `json:"capture,omitempty"`
	GPS       *gps.FeedStats `json:"gps,omitempty"`
	Session   string         `json:"session_id,omitempty"`
}

func (s *Server) status() Status {
	now := s.clock.Now()
	st := Status{
		Version: version.Current(),
		Uptime:  now.Sub(s.started).Seconds(),
	}
	if s.fixes != nil {
		st.Fix = s.fixes.CurrentFix()
		if last := s.fixes.LastValid(); !last.IsZero() {
			age := now.Sub(last).Seconds()
			st.LastFixAt = &last
			st.FixAge = &age
		}
	}
	if s.capture != nil {
		stats := s.capture.Stats()
		st.Capture = &stats
	}
	if s.feed != nil {
		fs := s.feed.Stats()
		st.GPS = &fs
	}
	if s.db != nil {
		st.Session = s.db.SessionID()
	}
	return st
}

func (s *Server) showStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.status())
}

func (s *Server) listDiscoveries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "archive disabled")
		return
	}

	var (
		rows []db.Discovery
		err  error
	)
	if r.URL.Query().Get("located") == "1" {
		rows, err = s.db.LocatedDiscoveries()
	} else {
		limit, perr := httputil.QueryInt(r, "limit", defaultDiscoveryLimit, maxDiscoveryLimit)
		if perr != nil {
			httputil.BadRequest(w, perr.Error())
			return
		}
		rows, err = s.db.Discoveries(limit)
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve discoveries: %v", err))
		return
	}
	if rows == nil {
		rows = []db.Discovery{}
	}
	httputil.WriteJSONOK(w, rows)
}

func (s *Server) listCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "archive disabled")
		return
	}
	limit, err := httputil.QueryInt(r, "limit", defaultCycleLimit, maxCycleLimit)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	cycles, err := s.db.RecentCycles(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve cycles: %v", err))
		return
	}
	if cycles == nil {
		cycles = []db.Cycle{}
	}
	httputil.WriteJSONOK(w, cycles)
}
