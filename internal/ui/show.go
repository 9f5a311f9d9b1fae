package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/llm"
	"github.com/CSE5914-Group99/schedule-planner/internal/summary"
)

func (a *App) showCmd() *cobra.Command {
	var (
		weekend bool
		asText  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a schedule as a weekly grid",
		Long: `Display the selected schedule (the favorite by default) as a grid of
days and time slots, followed by the list of its courses and events.

Items without a fixed time, items outside the visible hours and items
with unreadable times are listed below the grid.`,
		Example: `  planner show
  planner show -s "Fall plan" --weekend
  planner show --text`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asText {
				fmt.Fprint(out, llm.FormatWeek(s))
				return nil
			}

			fmt.Fprintln(out)
			PrintScheduleLine(out, s)
			fmt.Fprintln(out)

			cfg := a.config.GridLayout()
			if cmd.Flags().Changed("weekend") {
				cfg = cfg.WithWeekend(weekend)
			}
			PrintGrid(out, s, cfg, GridOpts{})

			fmt.Fprintln(out)
			PrintItems(out, s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&weekend, "weekend", false, "Show Saturday and Sunday columns")
	cmd.Flags().BoolVar(&asText, "text", false, "Print a plain day-by-day listing instead of the grid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) weekCmd() *cobra.Command {
	var (
		insight bool
		model   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Summarize the weekly load of a schedule",
		Long: `Show the time committed on each day of the current week, total credit
hours and, when analyzed, the schedule's difficulty.

With --insight, the configured language model adds a short assessment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}

			var advisor summary.Insighter
			if insight {
				if model == "" {
					model = a.config.LLM.Model
				}
				client, err := llm.NewClient(ctx, a.config.LLM.Provider, model, a.config.LLM.BaseURL)
				if err != nil {
					return fmt.Errorf("creating LLM client: %w", err)
				}
				advisor = llm.NewAdvisor(client)
			}

			ws, err := summary.BuildWeekSummary(ctx, s, a.now(), advisor)
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			PrintWeekSummary(cmd.OutOrStdout(), ws)
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the language model for an assessment")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
