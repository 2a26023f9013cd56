package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/datasource"
	httpadapter "github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/http"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/config"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/dashboard"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/pipeline"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := datasource.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open data source", "source", cfg.DataSource, "error", err)
		os.Exit(1)
	}
	logger.Info("data source opened", "source", cfg.DataSource, "location", datasource.Describe(cfg))

	// The page still serves a 500 per request when tables are missing, so a
	// failed check here is only a warning.
	if err := source.CheckReadiness(ctx); err != nil {
		logger.Warn("data source not ready", "error", err)
	}

	pageCfg := dashboard.DefaultConfig()
	pageCfg.Map.Style = cfg.MapStyle
	pageCfg.Map.AccessToken = cfg.MapboxToken
	if cfg.MapboxToken != "" {
		logger.Info("mapbox styles enabled", "style", cfg.MapStyle)
	}

	loader := pipeline.NewLoader(source, logger, metrics)
	composer := dashboard.NewComposer(loader, pageCfg, logger, metrics)
	sessions := session.NewStore(cfg.SessionMax, cfg.SessionTTL,
		session.WithSizeObserver(func(live int) { metrics.ActiveSessions.Set(float64(live)) }),
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, composer, sessions, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := source.Close(); err != nil {
		logger.Error("data source close error", "error", err)
	}

	logger.Info("shutdown complete")
}
