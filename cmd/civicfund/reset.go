package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all project requests, plans, rankings, and ledger entries",
		Long: `Reset clears every stored project request, project plan, priority ranking,
and fund transaction. This is a destructive operation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := store.GetProjects(ctx, service.ProjectFilter{})
			if err != nil {
				return err
			}
			plans, err := store.GetPlans(ctx)
			if err != nil {
				return err
			}

			if !force {
				fmt.Fprintf(os.Stdout, "This will delete %d project requests and %d plans.\n", len(records), len(plans))
				fmt.Fprintf(os.Stdout, "Are you sure you want to continue? [y/N]: ")

				var response string
				if _, err := fmt.Scanln(&response); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				if response != "y" && response != "Y" {
					fmt.Fprintln(os.Stdout, "Reset canceled.")
					return nil
				}
			}

			if err := eng.Reset(ctx); err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess("All project state cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
