package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beautydb/backoffice/internal/server"
)

var imagesSweepCmd = &cobra.Command{
	Use:   "images:sweep",
	Short: "Delete uploaded images no record references",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		n, err := app.Sweeper().Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d orphaned image(s)\n", n)
		return nil
	},
}
