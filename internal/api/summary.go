package api

import (
	"fmt"
	"net/http"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/wardrive/internal/httputil"
)

// SignalSummary describes the distribution of discovery signal strengths in
// dBm.
type SignalSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summary is the /api/summary payload.
type Summary struct {
	Total      int            `json:"total"`
	Located    int            `json:"located"`
	Sessions   int            `json:"sessions"`
	BySecurity map[string]int `json:"by_security"`
	Signal     *SignalSummary `json:"signal,omitempty"`
}

// summarizeSignal returns nil for an empty sample. values is sorted in place.
func summarizeSignal(values []float64) *SignalSummary {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	sum := &SignalSummary{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, values, nil),
	}
	if len(values) > 1 {
		sum.StdDev = stat.StdDev(values, nil)
	}
	return sum
}

func (s *Server) showSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "archive disabled")
		return
	}

	stats, err := s.db.DiscoveryStats()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve summary: %v", err))
		return
	}
	httputil.WriteJSONOK(w, Summary{
		Total:      stats.Total,
		Located:    stats.Located,
		Sessions:   stats.Sessions,
		BySecurity: stats.BySecurity,
		Signal:     summarizeSignal(stats.RSSI),
	})
}
