package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// getDatabase already migrates; opening is enough.
			_, cleanup, err := getDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(os.Stdout, cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
