// Package dashboard assembles the single dashboard page from the loaded
// tables: one map (cached per session) and two line charts rebuilt per load.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/render"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/session"
)

// MapViewKey is the session cache slot holding the built map.
const MapViewKey = "nyc_map"

// DatasetLoader loads the three validated tables.
type DatasetLoader interface {
	LoadGeo(ctx context.Context) ([]domain.ViolationGeoRecord, error)
	LoadMonthly(ctx context.Context) ([]domain.MonthlyViolationRecord, error)
	LoadHourly(ctx context.Context) ([]domain.HourlyViolationRecord, error)
	CheckReadiness(ctx context.Context) error
}

// Config holds the view parameters of every artifact on the page.
type Config struct {
	Map     render.GeoMapConfig
	Monthly render.ChartConfig
	Hourly  render.ChartConfig
}

// DefaultConfig returns the shipped page configuration.
func DefaultConfig() Config {
	return Config{
		Map:     render.DefaultGeoMapConfig(),
		Monthly: render.DefaultMonthlyChartConfig(),
		Hourly:  render.DefaultHourlyChartConfig(),
	}
}

// Composer builds pages and individual views.
type Composer struct {
	loader  DatasetLoader
	cfg     Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewComposer creates a Composer.
func NewComposer(loader DatasetLoader, cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Composer {
	return &Composer{
		loader:  loader,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Compose builds the full page in one pass: map, then monthly chart, then
// hourly chart. Any failure aborts the page. A nil cache builds the map fresh.
func (c *Composer) Compose(ctx context.Context, cache *session.ViewCache) (*Page, error) {
	geoMap, err := c.MapView(ctx, cache)
	if err != nil {
		return nil, err
	}
	monthly, err := c.MonthlyView(ctx)
	if err != nil {
		return nil, err
	}
	hourly, err := c.HourlyView(ctx)
	if err != nil {
		return nil, err
	}
	return newPage(geoMap, monthly, hourly), nil
}

// MapView returns the session's map, building it on first use.
func (c *Composer) MapView(ctx context.Context, cache *session.ViewCache) (render.Artifact, error) {
	if cache == nil {
		return c.buildMap(ctx)
	}

	artifact, hit, err := cache.GetOrBuild(MapViewKey, func() (render.Artifact, error) {
		return c.buildMap(ctx)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		c.metrics.ViewCache.WithLabelValues("hit").Inc()
	} else {
		c.metrics.ViewCache.WithLabelValues("miss").Inc()
		c.logger.Debug("map view built", "key", MapViewKey)
	}
	return artifact, nil
}

// MonthlyView loads the monthly table and builds its chart.
func (c *Composer) MonthlyView(ctx context.Context) (render.Artifact, error) {
	records, err := c.loader.LoadMonthly(ctx)
	if err != nil {
		return nil, err
	}
	chart, err := render.BuildMonthlyChart(records, c.cfg.Monthly)
	if err != nil {
		return nil, err
	}
	return chart, nil
}

// HourlyView loads the hourly table and builds its chart.
func (c *Composer) HourlyView(ctx context.Context) (render.Artifact, error) {
	records, err := c.loader.LoadHourly(ctx)
	if err != nil {
		return nil, err
	}
	chart, err := render.BuildHourlyChart(records, c.cfg.Hourly)
	if err != nil {
		return nil, err
	}
	return chart, nil
}

// CheckReadiness reports whether the underlying tables can be served.
func (c *Composer) CheckReadiness(ctx context.Context) error {
	return c.loader.CheckReadiness(ctx)
}

func (c *Composer) buildMap(ctx context.Context) (render.Artifact, error) {
	records, err := c.loader.LoadGeo(ctx)
	if err != nil {
		return nil, err
	}
	m, err := render.BuildGeoMap(records, c.cfg.Map)
	if err != nil {
		return nil, err
	}
	return m, nil
}
