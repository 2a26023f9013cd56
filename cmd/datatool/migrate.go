package main

import (
	"errors"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/sqlstore"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/config"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	var targetVersion int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run SQL schema migrations for the configured database",
		Long: `Manage the schema version of the heatmap, by_month, and by_hour tables.

By default, migrates to the latest version.

Examples:
  # Migrate to latest version (default)
  datatool migrate --source postgres --dsn "host=localhost user=postgres dbname=parking"

  # Roll back every migration
  datatool migrate --target-version 0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DataSource == config.SourceParquet {
				return errors.New("migrate requires a SQL data source")
			}
			version, err := sqlstore.Migrate(cmd.Context(), sqlstore.Backend(a.cfg.DataSource), a.cfg.DatabaseURL, targetVersion)
			if err != nil {
				return err
			}
			a.logger.Info("schema migrated", "source", a.cfg.DataSource, "version", version)
			return nil
		},
	}
	cmd.Flags().IntVar(&targetVersion, "target-version", -1, "Schema version to migrate to; -1 for latest, 0 to roll back everything")
	return cmd
}
