package main

import (
	"fmt"

	"github.com/01moynul/innowood/internal/config"
	"github.com/01moynul/innowood/internal/database"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateFlags := envFileFlags()
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long: `Create the categories, products and admin_sessions tables for DB_DRIVER.

Statements use IF NOT EXISTS, so running migrate twice is safe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(migrateFlags[envFileFlag].GetString())
			if err != nil {
				return err
			}
			if err := cfg.ValidateMigrate(); err != nil {
				return err
			}

			dialect, err := database.NormalizeDialect(cfg.DBDriver)
			if err != nil {
				return err
			}
			db, err := database.OpenDB(cmd.Context(), dialect, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db, dialect); err != nil {
				return fmt.Errorf("error applying schema: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Schema applied for %s\n", dialect)
			return nil
		},
	}

	cobraflags.RegisterMap(migrateCmd, migrateFlags)
	return migrateCmd
}
