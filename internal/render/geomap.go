package render

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
)

// Metric selects which record field drives marker color.
type Metric string

const (
	MetricLog Metric = "log_violations"
	MetricRaw Metric = "violations"
)

// DefaultColorbarTicks are the violation counts labelled on the colorbar.
var DefaultColorbarTicks = []int64{1, 10, 25, 50, 100, 200, 400, 600, 800}

// RampRdYlGn is the ColorBrewer red-yellow-green diverging ramp.
const RampRdYlGn = "RdYlGn"

// colorRamps holds each named ramp as evenly spaced colors from low to high.
// Plotly.js resolves only a few scale names itself, so ramps are always sent
// as explicit stops.
var colorRamps = map[string][]string{
	RampRdYlGn: {
		"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
		"#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837",
	},
}

// LatLon is a WGS-84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoMapConfig holds the fixed view parameters of the violations map.
type GeoMapConfig struct {
	Title       string
	Metric      Metric
	Center      LatLon
	Zoom        float64
	Style       string
	AccessToken string
	ColorRamp   string
	ReverseRamp bool
	Ticks       []int64
	MarkerSize  int
	Opacity     float64
	Height      int
}

// DefaultGeoMapConfig returns the shipped map configuration: log metric,
// centered on lower Manhattan, reversed red-yellow-green ramp.
func DefaultGeoMapConfig() GeoMapConfig {
	return GeoMapConfig{
		Title:       "NYC Alternate Side Parking Violations Scatter Map",
		Metric:      MetricLog,
		Center:      LatLon{Lat: 40.7128, Lon: -74.0000},
		Zoom:        10,
		Style:       "carto-positron",
		ColorRamp:   RampRdYlGn,
		ReverseRamp: true,
		Ticks:       DefaultColorbarTicks,
		MarkerSize:  16,
		Opacity:     0.8,
		Height:      800,
	}
}

// MapPoint is one street segment marker.
type MapPoint struct {
	Street        string
	Lat           float64
	Lon           float64
	Violations    int64
	LogViolations float64
	Color         float64 // value of the configured metric
}

// ColorStop is one color of a continuous scale at a position in [0, 1].
type ColorStop struct {
	Pos   float64
	Color string
}

// ColorScale maps the metric onto the color ramp and labels the colorbar.
// Stops run from Min to Max with any reversal already applied.
type ColorScale struct {
	Ramp     string
	Stops    []ColorStop
	Min      float64
	Max      float64
	TickVals []float64
	TickText []string
	Title    string
}

// MapArtifact is the built scatter map.
type MapArtifact struct {
	Title       string
	Metric      Metric
	Points      []MapPoint
	Scale       ColorScale
	Center      LatLon
	Zoom        float64
	Style       string
	AccessToken string
	MarkerSize  int
	Opacity     float64
	Height      int
	// Tooltip lists the hover fields in display order. Coordinates are never included.
	Tooltip []string
}

func (*MapArtifact) Kind() Kind { return KindMap }

// BuildGeoMap builds the violations map. The color range spans exactly the
// metric's min and max over records; colorbar ticks sit at the metric value of
// each configured count so the legend reads in real violation counts.
func BuildGeoMap(records []domain.ViolationGeoRecord, cfg GeoMapConfig) (*MapArtifact, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("build map: %w", domain.ErrEmptyDataset)
	}

	metric := cfg.Metric
	if metric == "" {
		metric = MetricLog
	}
	if metric != MetricLog && metric != MetricRaw {
		return nil, fmt.Errorf("build map: unknown metric %q", metric)
	}
	stops, err := rampStops(cfg.ColorRamp, cfg.ReverseRamp)
	if err != nil {
		return nil, fmt.Errorf("build map: %w", err)
	}

	points := make([]MapPoint, len(records))
	for i, r := range records {
		logV := domain.LogViolations(r.Violations)
		color := logV
		if metric == MetricRaw {
			color = float64(r.Violations)
		}
		points[i] = MapPoint{
			Street:        r.Street,
			Lat:           r.Lat,
			Lon:           r.Long,
			Violations:    r.Violations,
			LogViolations: logV,
			Color:         color,
		}
	}

	lo, hi := points[0].Color, points[0].Color
	for _, p := range points[1:] {
		lo = min(lo, p.Color)
		hi = max(hi, p.Color)
	}

	tickVals := make([]float64, len(cfg.Ticks))
	tickText := make([]string, len(cfg.Ticks))
	for i, tick := range cfg.Ticks {
		tickVals[i] = metricValue(metric, tick)
		tickText[i] = strconv.FormatInt(tick, 10)
	}

	return &MapArtifact{
		Title:  cfg.Title,
		Metric: metric,
		Points: points,
		Scale: ColorScale{
			Ramp:     cfg.ColorRamp,
			Stops:    stops,
			Min:      lo,
			Max:      hi,
			TickVals: tickVals,
			TickText: tickText,
			Title:    "Violations",
		},
		Center:      cfg.Center,
		Zoom:        cfg.Zoom,
		Style:       cfg.Style,
		AccessToken: cfg.AccessToken,
		MarkerSize:  cfg.MarkerSize,
		Opacity:     cfg.Opacity,
		Height:      cfg.Height,
		Tooltip:     []string{"street", "violations", "log_violations"},
	}, nil
}

func rampStops(name string, reversed bool) ([]ColorStop, error) {
	colors, ok := colorRamps[name]
	if !ok {
		return nil, fmt.Errorf("unknown color ramp %q", name)
	}
	stops := make([]ColorStop, len(colors))
	last := float64(len(colors) - 1)
	for i, c := range colors {
		if reversed {
			c = colors[len(colors)-1-i]
		}
		stops[i] = ColorStop{Pos: float64(i) / last, Color: c}
	}
	return stops, nil
}

func metricValue(metric Metric, violations int64) float64 {
	if metric == MetricRaw {
		return float64(violations)
	}
	return domain.LogViolations(violations)
}
