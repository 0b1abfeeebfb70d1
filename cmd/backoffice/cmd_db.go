package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/database/seeders"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		_, err := migration.New(database.DB, os.Stdout).Run()
		return err
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		_, err := migration.New(database.DB, os.Stdout).Rollback()
		return err
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return migration.New(database.DB, os.Stdout).Status()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and base catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return seeders.RunAll(database.DB, os.Stdout)
	},
}
