package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"civreg/internal/platform/postgres"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd, true)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (one by default)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd, false)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back; 0 rolls back all")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigrate(cmd *cobra.Command, up bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("database.url is required for migrations")
	}
	db, err := postgres.Open(cmd.Context(), postgres.Config{URL: cfg.Database.URL})
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	if up {
		n, err = postgres.MigrateUp(db)
	} else {
		n, err = postgres.MigrateDown(db, migrateSteps)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
	return nil
}
