package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull schedules from the schedule service",
		Long: `Fetch every schedule for the configured user and store them locally.

Schedules edited locally but never saved are kept. Records the service
returns in an unreadable shape are skipped and logged.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.planner.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d schedule(s).\n", len(list))
			return nil
		},
	}
}

func (a *App) listCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved and draft schedules",
		Example: `  planner list
  planner list --refresh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			list, err := a.planner.Schedules(ctx)
			if refresh {
				list, err = a.planner.Refresh(ctx)
			}
			if err != nil {
				return fmt.Errorf("listing schedules: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No schedules found. Run 'planner sync' or 'planner new <name>'.")
				return nil
			}
			for _, s := range list {
				PrintScheduleLine(out, s)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Sync with the schedule service first")
	return cmd
}
