package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ordinalfs/ordinalfs/config"
	"github.com/ordinalfs/ordinalfs/database/seeders"
	"github.com/ordinalfs/ordinalfs/pkg/database"
	"github.com/ordinalfs/ordinalfs/pkg/migration"
)

// bootDB loads configuration and opens the database connection. Every
// sub-command below needs this before touching migration or seeder state.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}

// ordinalfs migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Run()
	},
}

// ordinalfs migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Rollback()
	},
}

// ordinalfs migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// ordinalfs seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return seeders.RunAll(database.DB)
	},
}
