package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Apply the resume builder schema to the database named by DATABASE_URL. Statements are idempotent; re-running is safe.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	pg, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		return err
	}

	fmt.Println("Schema applied")
	return nil
}
