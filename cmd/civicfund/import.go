package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// importLine is one JSONL row in a submission batch file.
type importLine struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a JSONL batch of citizen submissions",
		Long: `Import reads one JSON object per line, each with "text", "lat", and "lon"
fields, and runs every line through classification and deduplication.
Rejected lines are counted and skipped, not fatal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interrupts := cli.NewInterruptHandler(os.Stdout)
			ctx := interrupts.HandleInterrupts(cmd.Context())

			_, _, eng, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open batch file: %w", err)
			}
			defer func() { _ = file.Close() }()

			lines, err := countLines(args[0])
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(lines,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing submissions..."),
			)

			var imported, merged, rejected int
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				if ctx.Err() != nil {
					break
				}
				_ = bar.Add(1)

				raw := scanner.Bytes()
				if len(raw) == 0 {
					continue
				}

				var line importLine
				if err := json.Unmarshal(raw, &line); err != nil {
					rejected++
					continue
				}

				obs := model.Observation{Text: line.Text}
				if line.Lat != nil && line.Lon != nil {
					obs.Location = &model.GeoPoint{Lat: *line.Lat, Lon: *line.Lon}
				}

				result, err := eng.ProcessSubmission(ctx, obs)
				if err != nil {
					if common.IsInputError(err) {
						rejected++
						continue
					}
					return err
				}
				if result.Merged {
					merged++
				}
				imported++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read batch file: %w", err)
			}

			verb := "Imported"
			if interrupts.WasInterrupted() {
				verb = "Partially imported"
			}
			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"%s %d submissions (%d merged into existing requests, %d rejected)",
				verb, imported, merged, rejected)))
			return nil
		},
	}
}

func countLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer func() { _ = file.Close() }()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
