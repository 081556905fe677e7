package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
)

func fundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "funds",
		Short: "Show the constituency fund ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			usage, err := eng.FundUsage(ctx)
			if err != nil {
				return err
			}
			transactions, err := store.GetFundTransactions(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.RenderFundSummary(usage, transactions))
			return nil
		},
	}
}

func spendCmd() *cobra.Command {
	var (
		authority   string
		projectType string
		amount      float64
	)

	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Record a fund disbursement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if amount <= 0 {
				return fmt.Errorf("amount must be positive")
			}

			_, _, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := eng.RecordSpend(ctx, authority, projectType, amount)
			if err != nil {
				if common.IsInputError(err) {
					fmt.Fprintln(os.Stdout, cli.FormatError(fmt.Sprintf("Rejected: %v", err)))
					return nil
				}
				return err
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"Recorded ₹%.2f for %s; ₹%.2f remaining", amount, projectType, result.Usage.Remaining)))
			if result.Check.Suspicious {
				fmt.Fprintln(os.Stdout, cli.FormatWarning(result.Check.Message))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&authority, "authority", "", "sanctioning authority")
	cmd.Flags().StringVar(&projectType, "type", "", "project type")
	cmd.Flags().Float64Var(&amount, "amount", 0, "disbursement amount")
	_ = cmd.MarkFlagRequired("authority")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
