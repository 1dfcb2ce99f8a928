package cmd

import (
	"fmt"

	"kalban_greenbag/internal/config"
	"kalban_greenbag/internal/database"
	"kalban_greenbag/internal/logger"
	"kalban_greenbag/internal/migrations"

	"github.com/spf13/cobra"
)

var (
	migrateReset bool
	migrateSeed  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateReset, "reset", false, "drop every table before migrating")
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insert a demo user and catalog")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := migrations.RunMigrations(db, migrateReset, log); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if migrateSeed {
		if err := migrations.SeedCatalog(db, log); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return nil
}
