package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/datasource"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/dashboard"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard page to a static HTML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := datasource.Open(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = source.Close() }()

			pageCfg := dashboard.DefaultConfig()
			pageCfg.Map.Style = a.cfg.MapStyle
			pageCfg.Map.AccessToken = a.cfg.MapboxToken

			metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
			loader := pipeline.NewLoader(source, a.logger, metrics)
			composer := dashboard.NewComposer(loader, pageCfg, a.logger, metrics)

			page, err := composer.Compose(cmd.Context(), nil)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := page.WriteHTML(&buf); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("page rendered", "path", out, "bytes", buf.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dashboard.html", "Output HTML file")
	return cmd
}
