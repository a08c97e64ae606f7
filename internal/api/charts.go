package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/wardrive/internal/httputil"
)

const (
	defaultCycleLimit = 200
	maxCycleLimit     = 5000
)

// handleCyclesChart renders found and new counts for recent cycles as an
// HTML bar chart.
func (s *Server) handleCyclesChart(w http.ResponseWriter, r *http.Request) {
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
		httputil.InternalServerError(w, fmt.Sprintf("failed to load cycles: %v", err))
		return
	}

	xs := make([]string, 0, len(cycles))
	found := make([]opts.BarData, 0, len(cycles))
	fresh := make([]opts.BarData, 0, len(cycles))
	failed := 0
	for _, c := range cycles {
		xs = append(xs, c.StartedAt.Format("15:04:05"))
		found = append(found, opts.BarData{Value: c.Found})
		fresh = append(fresh, opts.BarData{Value: c.New})
		if c.ScanError != "" {
			failed++
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Wardrive Cycles", Theme: "dark", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Capture Cycles", Subtitle: fmt.Sprintf("cycles=%d failed=%d", len(cycles), failed)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "networks", NameLocation: "middle", NameGap: 30}),
	)
	bar.SetXAxis(xs).
		AddSeries("found", found, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"})).
		AddSeries("new", fresh, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
