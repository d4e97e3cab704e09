package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onebytwo/account-eraser/database"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, lg, err := load()
	if err != nil {
		return err
	}

	if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	lg.Info("migrations applied")
	return nil
}
