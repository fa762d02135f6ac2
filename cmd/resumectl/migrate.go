package main

import (
	"fmt"

	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	infra "resume-builder/pkg/infrastructure"

	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Apply pending migrations to the drafts database selected by storage.driver.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			storage := c.cfg.Storage

			switch storage.Driver {
			case config.DriverSQLite:
				db, err := infra.OpenSQLite(storage.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := migration.RunSQLite(ctx, db, c.logger); err != nil {
					return err
				}
			default:
				pool, err := infra.NewPostgresPool(ctx, storage.PostgresURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := migration.RunPostgres(ctx, pool, c.logger); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ %s database is up to date", storage.Driver)))
			return nil
		},
	}
}
