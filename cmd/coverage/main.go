// Command coverage plots where networks were discovered. It reads located
// discoveries from an archive file or from a running device's diagnostics
// server and writes a longitude/latitude scatter plot.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/wardrive/internal/db"
	"github.com/banshee-data/wardrive/internal/httputil"
)

var (
	dbPath    = flag.String("db", "wardrive.db", "Archive database to read")
	deviceURL = flag.String("url", "", "Read from a running device instead, e.g. http://wardrive.local:8080")
	outPath   = flag.String("out", "coverage.png", "Output image (.png, .svg or .pdf)")
	width     = flag.Float64("width", 10, "Image width in inches")
	height    = flag.Float64("height", 10, "Image height in inches")
)

// securityGroup buckets a security label into a plot series.
func securityGroup(security string) string {
	security = strings.Trim(security, "[]")
	switch {
	case security == "OPEN":
		return "open"
	case strings.Contains(security, "WEP"):
		return "wep"
	default:
		return "protected"
	}
}

var groupStyle = []struct {
	name  string
	color color.RGBA
}{
	{"protected", color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}},
	{"wep", color.RGBA{R: 0xff, G: 0xa0, B: 0x00, A: 0xff}},
	{"open", color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}},
}

// buildPlot returns a scatter plot with one point per located discovery,
// coloured by security group.
func buildPlot(discoveries []db.Discovery) (*plot.Plot, error) {
	groups := map[string]plotter.XYs{}
	located := 0
	for _, d := range discoveries {
		if !d.FixValid {
			continue
		}
		located++
		g := securityGroup(d.Security)
		groups[g] = append(groups[g], plotter.XY{X: d.Longitude, Y: d.Latitude})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Network coverage (%d located)", located)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	for _, style := range groupStyle {
		pts := groups[style.name]
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s series: %w", style.name, err)
		}
		s.GlyphStyle.Color = style.color
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("%s (%d)", style.name, len(pts)), s)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

func loadFromDB(path string) ([]db.Discovery, error) {
	archive, err := db.OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()
	return archive.LocatedDiscoveries()
}

func loadFromURL(ctx context.Context, c httputil.HTTPClient, base string) ([]db.Discovery, error) {
	var out []db.Discovery
	url := strings.TrimRight(base, "/") + "/api/discoveries?located=1"
	if err := httputil.GetJSON(ctx, c, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func main() {
	flag.Parse()

	var (
		discoveries []db.Discovery
		err         error
	)
	if *deviceURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client := httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second})
		discoveries, err = loadFromURL(ctx, client, *deviceURL)
	} else {
		discoveries, err = loadFromDB(*dbPath)
	}
	if err != nil {
		log.Fatalf("failed to load discoveries: %v", err)
	}
	if len(discoveries) == 0 {
		log.Fatalf("no located discoveries to plot")
	}

	p, err := buildPlot(discoveries)
	if err != nil {
		log.Fatalf("failed to build plot: %v", err)
	}
	if err := p.Save(vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch, *outPath); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("wrote %d networks to %s", len(discoveries), *outPath)
}
