package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the entity rules schema",
	Long:      "Runs the embedded database migrations against DATABASE_URL. Defaults to up.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{db.MigrateUp, db.MigrateDown},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	direction := db.MigrateUp
	if len(args) == 1 {
		direction = args[0]
	}

	changed, err := db.Migrate(a.cfg.DatabaseURL, direction)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to apply")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", direction)
	return nil
}
