// Command backoffice runs the beauty store back office and its maintenance
// tasks.
//
//	backoffice serve              # start the HTTP server
//	backoffice migrate            # apply pending migrations
//	backoffice migrate:rollback
//	backoffice migrate:status
//	backoffice seed               # admin account and base catalogue
//	backoffice route:list
//	backoffice images:sweep       # delete unreferenced uploads now
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/beautydb/backoffice/database/migrations"
	_ "github.com/beautydb/backoffice/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Beauty store back office",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(imagesSweepCmd)
}
