package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
)

func plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List stored project plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, _, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			plans, err := store.GetPlans(ctx)
			if err != nil {
				return err
			}

			if len(plans) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("No project plans stored."))
				return nil
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle("Project Plans"))
			for _, p := range plans {
				fmt.Fprintf(os.Stdout, "%-25s %-15s cost=%.2f duration=%.1fy\n",
					p.Name, p.Category, p.EstimatedCost, p.DurationYears)
			}
			return nil
		},
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file]",
		Short: "Extract a project plan from a report document and rank it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, _, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			plan, ranking, err := eng.IngestDocument(ctx, string(text))
			if err != nil {
				if common.IsInputError(err) {
					fmt.Fprintln(os.Stdout, cli.FormatWarning(fmt.Sprintf("Rejected: %v", err)))
					return nil
				}
				return err
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"Stored plan %q (%s), ranking recomputed over %d plans",
				plan.Name, plan.Category, len(ranking))))
			fmt.Fprintln(os.Stdout, cli.RenderRankingTable(ranking))
			return nil
		},
	}
}
