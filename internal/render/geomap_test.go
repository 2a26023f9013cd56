package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoRecords(t *testing.T, rows ...domain.RawGeoRow) []domain.ViolationGeoRecord {
	t.Helper()
	records, err := domain.NewGeoRecords(rows)
	require.NoError(t, err)
	return records
}

func TestBuildGeoMap_SingleRow(t *testing.T) {
	records := geoRecords(t, domain.RawGeoRow{Street: "Main St", Lat: 40.71, Long: -74.00, Violations: 5})

	m, err := BuildGeoMap(records, DefaultGeoMapConfig())
	require.NoError(t, err)

	assert.Equal(t, KindMap, m.Kind())
	require.Len(t, m.Points, 1)
	p := m.Points[0]
	assert.Equal(t, "Main St", p.Street)
	assert.Equal(t, int64(5), p.Violations)
	assert.InDelta(t, 1.7918, p.LogViolations, 1e-4)
	assert.Equal(t, p.LogViolations, p.Color)
	assert.Equal(t, int64(5), p.tooltipValue("violations"))
	assert.Nil(t, p.tooltipValue("lat"))
}

func TestBuildGeoMap_ColorBoundsFollowDataset(t *testing.T) {
	first := geoRecords(t,
		domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 3},
		domain.RawGeoRow{Street: "B", Lat: 40.8, Long: -73.9, Violations: 120},
		domain.RawGeoRow{Street: "C", Lat: 40.6, Long: -73.95, Violations: 40},
	)
	m1, err := BuildGeoMap(first, DefaultGeoMapConfig())
	require.NoError(t, err)
	assert.Equal(t, math.Log1p(3), m1.Scale.Min)
	assert.Equal(t, math.Log1p(120), m1.Scale.Max)

	second := geoRecords(t,
		domain.RawGeoRow{Street: "D", Lat: 40.7, Long: -74, Violations: 0},
		domain.RawGeoRow{Street: "E", Lat: 40.7, Long: -74, Violations: 800},
	)
	m2, err := BuildGeoMap(second, DefaultGeoMapConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.0, m2.Scale.Min)
	assert.Equal(t, math.Log1p(800), m2.Scale.Max)
}

func TestBuildGeoMap_ColorbarTicks(t *testing.T) {
	records := geoRecords(t, domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 10})

	m, err := BuildGeoMap(records, DefaultGeoMapConfig())
	require.NoError(t, err)

	wantText := []string{"1", "10", "25", "50", "100", "200", "400", "600", "800"}
	assert.Equal(t, wantText, m.Scale.TickText)
	require.Len(t, m.Scale.TickVals, len(wantText))
	for i, tick := range []float64{1, 10, 25, 50, 100, 200, 400, 600, 800} {
		assert.InDelta(t, math.Log(1+tick), m.Scale.TickVals[i], 1e-12, "tick %v", tick)
	}
	assert.Equal(t, "Violations", m.Scale.Title)
	assert.Equal(t, RampRdYlGn, m.Scale.Ramp)
}

func TestBuildGeoMap_RampStops(t *testing.T) {
	records := geoRecords(t, domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 10})

	m, err := BuildGeoMap(records, DefaultGeoMapConfig())
	require.NoError(t, err)

	// Reversed: the highest counts are red.
	require.Len(t, m.Scale.Stops, 11)
	assert.Equal(t, ColorStop{Pos: 0, Color: "#006837"}, m.Scale.Stops[0])
	assert.Equal(t, ColorStop{Pos: 0.5, Color: "#ffffbf"}, m.Scale.Stops[5])
	assert.Equal(t, ColorStop{Pos: 1, Color: "#a50026"}, m.Scale.Stops[10])
	for i := 1; i < len(m.Scale.Stops); i++ {
		assert.Greater(t, m.Scale.Stops[i].Pos, m.Scale.Stops[i-1].Pos)
	}

	cfg := DefaultGeoMapConfig()
	cfg.ReverseRamp = false
	m, err = BuildGeoMap(records, cfg)
	require.NoError(t, err)
	assert.Equal(t, "#a50026", m.Scale.Stops[0].Color)
	assert.Equal(t, "#006837", m.Scale.Stops[10].Color)
}

func TestBuildGeoMap_UnknownRamp(t *testing.T) {
	records := geoRecords(t, domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 10})
	cfg := DefaultGeoMapConfig()
	cfg.ColorRamp = "Sunset"

	_, err := BuildGeoMap(records, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown color ramp "Sunset"`)
}

func TestBuildGeoMap_RawMetric(t *testing.T) {
	records := geoRecords(t,
		domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 2},
		domain.RawGeoRow{Street: "B", Lat: 40.7, Long: -74, Violations: 9},
	)
	cfg := DefaultGeoMapConfig()
	cfg.Metric = MetricRaw

	m, err := BuildGeoMap(records, cfg)
	require.NoError(t, err)

	assert.Equal(t, MetricRaw, m.Metric)
	assert.Equal(t, 2.0, m.Scale.Min)
	assert.Equal(t, 9.0, m.Scale.Max)
	assert.Equal(t, 800.0, m.Scale.TickVals[len(m.Scale.TickVals)-1])
	assert.InDelta(t, math.Log1p(9), m.Points[1].LogViolations, 1e-12)
}

func TestBuildGeoMap_Errors(t *testing.T) {
	t.Run("empty dataset", func(t *testing.T) {
		_, err := BuildGeoMap(nil, DefaultGeoMapConfig())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyDataset)
	})

	t.Run("unknown metric", func(t *testing.T) {
		cfg := DefaultGeoMapConfig()
		cfg.Metric = "density"
		records := geoRecords(t, domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 1})
		_, err := BuildGeoMap(records, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown metric")
	})
}

func TestBuildGeoMap_Deterministic(t *testing.T) {
	records := geoRecords(t,
		domain.RawGeoRow{Street: "A", Lat: 40.7, Long: -74, Violations: 2},
		domain.RawGeoRow{Street: "B", Lat: 40.8, Long: -73.9, Violations: 9},
	)
	m1, err := BuildGeoMap(records, DefaultGeoMapConfig())
	require.NoError(t, err)
	m2, err := BuildGeoMap(records, DefaultGeoMapConfig())
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
}

func TestMapArtifact_Spec(t *testing.T) {
	records := geoRecords(t, domain.RawGeoRow{Street: "Main St", Lat: 40.71, Long: -74.00, Violations: 5})
	m, err := BuildGeoMap(records, DefaultGeoMapConfig())
	require.NoError(t, err)

	b, err := m.Spec()
	require.NoError(t, err)

	var fig plotlyFigure
	require.NoError(t, json.Unmarshal(b, &fig))

	require.Len(t, fig.Data, 1)
	trace := fig.Data[0]
	assert.Equal(t, "scattermapbox", trace.Type)
	assert.Equal(t, []float64{40.71}, trace.Lat)
	assert.Equal(t, []float64{-74.00}, trace.Lon)
	assert.Equal(t, 16, trace.Marker.Size)
	assert.Equal(t, 0.8, trace.Marker.Opacity)

	require.Len(t, trace.CustomData, 1)
	assert.Equal(t, "Main St", trace.CustomData[0][0])
	assert.Equal(t, 5.0, trace.CustomData[0][1]) // JSON numbers decode as float64
	assert.InDelta(t, 1.7918, trace.CustomData[0][2].(float64), 1e-4)

	assert.Contains(t, trace.HoverTemplate, "street=")
	assert.Contains(t, trace.HoverTemplate, "violations=")
	assert.Contains(t, trace.HoverTemplate, "log_violations=")
	assert.NotContains(t, trace.HoverTemplate, "lat")
	assert.NotContains(t, trace.HoverTemplate, "long")

	assert.Equal(t, LatLon{Lat: 40.7128, Lon: -74.0}, fig.Layout.Mapbox.Center)
	assert.Equal(t, 10.0, fig.Layout.Mapbox.Zoom)
	assert.Equal(t, "carto-positron", fig.Layout.Mapbox.Style)
	assert.Empty(t, fig.Layout.Mapbox.AccessToken)
	assert.Equal(t, m.Scale.Min, fig.Layout.ColorAxis.CMin)
	assert.Equal(t, m.Scale.Max, fig.Layout.ColorAxis.CMax)
	scale := fig.Layout.ColorAxis.ColorScale
	require.Len(t, scale, 11)
	assert.Equal(t, [2]any{0.0, "#006837"}, scale[0])
	assert.Equal(t, [2]any{1.0, "#a50026"}, scale[10])
	assert.NotContains(t, string(b), "reversescale")
	assert.Equal(t, m.Scale.TickText, fig.Layout.ColorAxis.ColorBar.TickText)
	assert.Equal(t, 800, fig.Layout.Height)
}
