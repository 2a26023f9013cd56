package render

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
)

// AxisType is the Vega-Lite encoding type of an axis.
type AxisType string

const (
	AxisTemporal     AxisType = "temporal"
	AxisOrdinal      AxisType = "ordinal"
	AxisQuantitative AxisType = "quantitative"
)

// temporalValueLayout is how dates are written into chart data.
const temporalValueLayout = "2006-01-02T15:04:05"

// Axis describes one chart axis.
type Axis struct {
	Field  string
	Title  string
	Type   AxisType
	Format string // d3 time format for temporal axes
	Ticks  string // tick interval for temporal axes, e.g. "month"
}

// TooltipField is one row of the hover tooltip.
type TooltipField struct {
	Field  string
	Title  string
	Type   AxisType
	Format string
}

// LinePoint is one vertex of the line. X is the axis value as written into
// the chart data; Label is its human-readable form.
type LinePoint struct {
	X     string
	Label string
	Value int64
}

// ChartConfig holds the fixed presentation of a line chart.
type ChartConfig struct {
	Title  string
	XTitle string
	YTitle string
	Height int
}

// DefaultMonthlyChartConfig returns the shipped monthly chart configuration.
func DefaultMonthlyChartConfig() ChartConfig {
	return ChartConfig{
		Title:  "Violations by Month",
		XTitle: "Year-Month",
		YTitle: "Number of Violations",
		Height: 300,
	}
}

// DefaultHourlyChartConfig returns the shipped hourly chart configuration.
func DefaultHourlyChartConfig() ChartConfig {
	return ChartConfig{
		Title:  "Violations by hour of day",
		XTitle: "Hour of the Day",
		YTitle: "Number of Violations",
		Height: 300,
	}
}

// LineChart is a built single-series line chart. Points are in axis order.
type LineChart struct {
	Title   string
	Height  int
	X       Axis
	Y       Axis
	Points  []LinePoint
	Domain  []string // ordinal category order; nil for temporal axes
	Tooltip []TooltipField
}

func (*LineChart) Kind() Kind { return KindLineChart }

// BuildMonthlyChart builds the violations-by-month chart on a temporal axis
// with monthly ticks. Points are sorted chronologically whatever the row order.
func BuildMonthlyChart(records []domain.MonthlyViolationRecord, cfg ChartConfig) (*LineChart, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("build monthly chart: %w", domain.ErrEmptyDataset)
	}

	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b domain.MonthlyViolationRecord) int {
		return a.MonthYear.Compare(b.MonthYear)
	})

	points := make([]LinePoint, len(sorted))
	for i, r := range sorted {
		points[i] = LinePoint{
			X:     r.MonthYear.UTC().Format(temporalValueLayout),
			Label: domain.FormatMonthYear(r.MonthYear),
			Value: r.Violations,
		}
	}

	return &LineChart{
		Title:  cfg.Title,
		Height: cfg.Height,
		X:      Axis{Field: "month_year", Title: cfg.XTitle, Type: AxisTemporal, Format: "%Y-%m", Ticks: "month"},
		Y:      Axis{Field: "Violations", Title: cfg.YTitle, Type: AxisQuantitative},
		Points: points,
		Tooltip: []TooltipField{
			{Field: "month_year", Title: cfg.XTitle, Type: AxisTemporal, Format: "%Y-%m"},
			{Field: "Violations", Title: "Violations", Type: AxisQuantitative},
		},
	}, nil
}

// BuildHourlyChart builds the violations-by-hour chart on an ordinal axis.
// The category domain is the sorted set of hours present, so hours are evenly
// spaced regardless of gaps and input order never changes the axis.
func BuildHourlyChart(records []domain.HourlyViolationRecord, cfg ChartConfig) (*LineChart, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("build hourly chart: %w", domain.ErrEmptyDataset)
	}

	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b domain.HourlyViolationRecord) int {
		return a.Hour - b.Hour
	})

	points := make([]LinePoint, len(sorted))
	categories := make([]string, len(sorted))
	for i, r := range sorted {
		label := strconv.Itoa(r.Hour)
		points[i] = LinePoint{X: label, Label: label, Value: r.Violations}
		categories[i] = label
	}

	return &LineChart{
		Title:  cfg.Title,
		Height: cfg.Height,
		X:      Axis{Field: "hour", Title: cfg.XTitle, Type: AxisOrdinal},
		Y:      Axis{Field: "Violations", Title: cfg.YTitle, Type: AxisQuantitative},
		Points: points,
		Domain: categories,
		Tooltip: []TooltipField{
			{Field: "hour", Title: "hour", Type: AxisOrdinal},
			{Field: "Violations", Title: "Violations", Type: AxisQuantitative},
		},
	}, nil
}
