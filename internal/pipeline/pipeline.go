// Package pipeline loads the stored dashboard tables and validates them into
// domain records.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Source reads the three stored tables as raw rows.
type Source interface {
	GeoRows(ctx context.Context) ([]domain.RawGeoRow, error)
	MonthlyRows(ctx context.Context) ([]domain.RawMonthlyRow, error)
	HourlyRows(ctx context.Context) ([]domain.RawHourlyRow, error)
	CheckReadiness(ctx context.Context) error
}

// Loader extracts rows from a Source and transforms them into validated
// records, recording load duration, row counts, and failures.
type Loader struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// Option configures a Loader.
type Option func(*Loader)

// WithClock sets the clock used to time loads.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loader) { l.clock = c }
}

// NewLoader creates a Loader reading from source.
func NewLoader(source Source, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Loader {
	l := &Loader{
		source:  source,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadGeo reads the heatmap table and derives each record's log metric.
func (l *Loader) LoadGeo(ctx context.Context) ([]domain.ViolationGeoRecord, error) {
	return load(ctx, l, domain.DatasetGeo, l.source.GeoRows, domain.NewGeoRecords)
}

// LoadMonthly reads the by_month table and parses its month labels.
func (l *Loader) LoadMonthly(ctx context.Context) ([]domain.MonthlyViolationRecord, error) {
	return load(ctx, l, domain.DatasetMonthly, l.source.MonthlyRows, domain.NewMonthlyRecords)
}

// LoadHourly reads the by_hour table.
func (l *Loader) LoadHourly(ctx context.Context) ([]domain.HourlyViolationRecord, error) {
	return load(ctx, l, domain.DatasetHourly, l.source.HourlyRows, domain.NewHourlyRecords)
}

// CheckReadiness reports whether the source can serve all three tables.
func (l *Loader) CheckReadiness(ctx context.Context) error {
	return l.source.CheckReadiness(ctx)
}
