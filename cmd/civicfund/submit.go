package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

func submitCmd() *cobra.Command {
	var (
		lat float64
		lon float64
	)

	cmd := &cobra.Command{
		Use:   "submit [text]",
		Short: "Submit a citizen project request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, _, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			obs := model.Observation{Text: args[0]}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
				obs.Location = &model.GeoPoint{Lat: lat, Lon: lon}
			}

			result, err := eng.ProcessSubmission(ctx, obs)
			if err != nil {
				if common.IsInputError(err) {
					fmt.Fprintln(os.Stdout, cli.FormatWarning(fmt.Sprintf("Rejected: %v", err)))
					return nil
				}
				return err
			}

			verb := "Recorded"
			if result.Merged {
				verb = "Merged into existing request"
			}
			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"%s: %s (%s) in %s, seen %d time(s)",
				verb, result.Record.Name, result.Record.Sector, result.Record.Area, result.Record.Count)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the request")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the request")
	return cmd
}
