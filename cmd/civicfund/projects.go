package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/cli"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
)

func projectsCmd() *cobra.Command {
	var (
		name   string
		sector string
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List clustered project requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, _, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := store.GetProjects(ctx, service.ProjectFilter{Name: name, Sector: sector})
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle("Project Requests"))
			fmt.Fprintln(os.Stdout, cli.RenderProjectsTable(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by project name")
	cmd.Flags().StringVar(&sector, "sector", "", "filter by sector")
	return cmd
}
