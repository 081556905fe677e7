package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
)

func prioritiesCmd() *cobra.Command {
	var recompute bool

	cmd := &cobra.Command{
		Use:   "priorities",
		Short: "Show the project priority ranking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ranking, err := store.GetRanking(ctx)
			if err != nil {
				return err
			}
			if recompute {
				ranking, err = eng.RecomputeRanking(ctx)
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle("Priority Ranking"))
			fmt.Fprintln(os.Stdout, cli.RenderRankingTable(ranking))
			return nil
		},
	}

	cmd.Flags().BoolVar(&recompute, "recompute", false, "recompute the ranking from stored plans first")
	return cmd
}
