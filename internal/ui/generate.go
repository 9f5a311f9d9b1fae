package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func (a *App) generateCmd() *cobra.Command {
	var (
		pick     int
		showGrid bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the schedule service for alternative schedules",
		Long: `Send the selected schedule to the schedule service and list the
alternatives it proposes. Your courses and events are kept and the
generated sections are merged in.

Nothing changes until you pick one with --pick; the picked schedule
becomes an unsaved draft of the selected schedule.`,
		Example: `  planner generate
  planner generate --grid
  planner generate --pick 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.open(ctx); err != nil {
				return err
			}

			candidates, err := a.planner.Generate(ctx)
			if err != nil {
				return fmt.Errorf("generating schedules: %w", err)
			}
			out := cmd.OutOrStdout()

			if pick == 0 {
				for i, c := range candidates {
					printCandidate(out, i+1, c)
					if showGrid {
						PrintGrid(out, c, a.config.GridLayout(), GridOpts{})
					}
				}
				if _, err := a.planner.DiscardCandidates(); err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%d option(s). Keep one with 'planner generate --pick N'.\n", len(candidates))
				return nil
			}

			if pick < 1 || pick > len(candidates) {
				_, _ = a.planner.DiscardCandidates()
				return fmt.Errorf("--pick must be between 1 and %d", len(candidates))
			}
			if _, err := a.planner.SelectCandidate(pick - 1); err != nil {
				return err
			}
			s, err := a.planner.AcceptCandidate(ctx)
			if err != nil {
				return fmt.Errorf("keeping option %d: %w", pick, err)
			}
			fmt.Fprintf(out, "Kept option %d for %q (unsaved). Run 'planner save' to keep it.\n", pick, s.Name)
			PrintItems(out, s)
			return nil
		},
	}

	cmd.Flags().IntVar(&pick, "pick", 0, "Keep the numbered option as a draft")
	cmd.Flags().BoolVar(&showGrid, "grid", false, "Print each option as a grid")
	return cmd
}

func printCandidate(w io.Writer, n int, s schedule.Schedule) {
	fmt.Fprintf(w, "\n%s  %s", formatHeader(fmt.Sprintf("Option %d", n)), s.Summary())
	if s.DifficultyScore > 0 {
		fmt.Fprintf(w, "  %s", formatBand(s.DifficultyScore, fmt.Sprintf("difficulty %.0f", s.DifficultyScore)))
	}
	if s.WeeklyHours > 0 {
		fmt.Fprintf(w, "  %s", formatMuted(fmt.Sprintf("%.1f h/week", s.WeeklyHours)))
	}
	fmt.Fprintln(w)
	PrintItems(w, s)
}

func (a *App) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Score the difficulty of a schedule",
		Long: `Ask the schedule service for a difficulty score, weekly workload hours
and credit hours. Schedules that already carry a score are not analyzed
again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.open(ctx); err != nil {
				return err
			}
			s, ran, err := a.planner.Analyze(ctx)
			if err != nil {
				return fmt.Errorf("analyzing schedule: %w", err)
			}
			out := cmd.OutOrStdout()
			if !ran && s.DifficultyScore == 0 {
				fmt.Fprintln(out, "Nothing to analyze: add a course first.")
				return nil
			}
			if !ran {
				fmt.Fprint(out, formatMuted("Already analyzed. "))
			}
			fmt.Fprintf(out, "Difficulty %s  |  %.1f h/week  |  %.1f credits\n",
				formatBand(s.DifficultyScore, fmt.Sprintf("%.0f (%s)", s.DifficultyScore, schedule.RatingLabel(s.DifficultyScore))),
				s.WeeklyHours, s.CreditHours)
			return nil
		},
	}
}

func (a *App) ratingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rating <course-id>",
		Short: "Show the rating of a course on the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			i, err := findCourse(s, args[0])
			if err != nil {
				return err
			}
			score, err := a.planner.Rating(ctx, s.Courses[i].CourseID)
			if err != nil {
				return fmt.Errorf("fetching rating: %w", err)
			}
			printRating(cmd.OutOrStdout(), s.Courses[i], score)
			return nil
		},
	}
}

func printRating(w io.Writer, c schedule.Course, r schedule.ClassScore) {
	fmt.Fprintf(w, "%s  %s\n", formatCourse(c.CourseID), c.Title)
	if c.Instructor != "" {
		fmt.Fprintf(w, "  %s\n", formatMuted(c.Instructor))
	}
	fmt.Fprintf(w, "  Score:       %s\n", formatBand(r.Score, fmt.Sprintf("%.0f  %s", r.Score, schedule.RatingLabel(r.Score))))
	fmt.Fprintf(w, "  Time load:   %.1f  %s\n", r.TimeLoad, formatMuted(schedule.TimeLoadLabel(r.TimeLoad)))
	fmt.Fprintf(w, "  Rigor %.1f · Assessments %.1f · Projects %.1f · Pace %.1f\n",
		r.Rigor, r.AssessmentIntensity, r.ProjectIntensity, r.Pace)
	if len(r.PreReqs) > 0 {
		fmt.Fprintf(w, "  Prerequisites: %s\n", strings.Join(r.PreReqs, ", "))
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", formatMuted(strings.Join(r.Tags, ", ")))
	}
	if r.Summary != "" {
		fmt.Fprintln(w)
		PrintInsightWrapped(w, r.Summary, 70)
	}
	if r.Confidence > 0 {
		fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("confidence %.0f%%", r.Confidence*100)))
	}
}
