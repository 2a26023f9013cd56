package main

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/config"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/spf13/cobra"
)

// app carries the configuration shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// flagEnv maps persistent flags onto the environment variables they override.
var flagEnv = map[string]string{
	"source":    "DATA_SOURCE",
	"data-dir":  "DATA_DIR",
	"dsn":       "DATABASE_URL",
	"log-level": "LOG_LEVEL",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "datatool",
		Short:        "Manage the tables behind the NYC parking violations dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().String("source", "", "Data source: parquet, sqlite, postgres or mysql (overrides DATA_SOURCE)")
	root.PersistentFlags().String("data-dir", "", "Directory of parquet tables (overrides DATA_DIR)")
	root.PersistentFlags().String("dsn", "", "Database connection string (overrides DATABASE_URL)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(
		newSeedCmd(a),
		newImportCmd(a),
		newMigrateCmd(a),
		newInspectCmd(a),
		newRenderCmd(a),
	)
	return root
}

// load applies changed flags over the environment and reads the config the
// same way the server does.
func (a *app) load(cmd *cobra.Command) error {
	for name, env := range flagEnv {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := os.Setenv(env, f.Value.String()); err != nil {
			return err
		}
	}
	if os.Getenv("LOG_FORMAT") == "" {
		_ = os.Setenv("LOG_FORMAT", "text")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg)
	return nil
}
