package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func (a *App) alterCmd() *cobra.Command {
	var (
		reason   string
		criteria string
		apply    int
	)

	cmd := &cobra.Command{
		Use:   "alter <course-id>",
		Short: "Get suggestions for replacing a course",
		Long: `Ask the recommender for ways to replace one course, then optionally
apply one of the suggestions with --apply.

The recommender is the schedule service by default, or the configured
language model when planner.recommender is "llm".`,
		Example: `  planner alter "CSE 2331" --reason "too many exams" --criteria "project based, afternoons"
  planner alter "CSE 2331" --reason "time conflict" --apply 1`,
		Args: cobra.ExactArgs(1),
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

			set, err := a.planner.Recommend(ctx, []schedule.ModificationRequest{{
				ClassToReplace: s.Courses[i].CourseID,
				Reason:         reason,
				Criteria:       criteria,
			}})
			if err != nil {
				return fmt.Errorf("getting recommendations: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(set.Alterations) == 0 {
				fmt.Fprintln(out, "No alternatives found.")
				return nil
			}
			if apply == 0 {
				printAlterations(out, set)
				return nil
			}
			if apply < 1 || apply > len(set.Alterations) {
				printAlterations(out, set)
				return fmt.Errorf("--apply must be between 1 and %d", len(set.Alterations))
			}

			updated, diff, err := a.planner.ApplyAlteration(ctx, set.Alterations[apply-1])
			if err != nil {
				return fmt.Errorf("applying suggestion: %w", err)
			}
			if len(diff.Removed) > 0 {
				fmt.Fprintf(out, "Removed: %s\n", strings.Join(diff.Removed, ", "))
			}
			if len(diff.Added) > 0 {
				fmt.Fprintf(out, "Added:   %s\n", formatCourse(strings.Join(diff.Added, ", ")))
			}
			if len(diff.Skipped) > 0 {
				fmt.Fprintf(out, "%s already on the schedule: %s\n", formatWarn("Skipped"), strings.Join(diff.Skipped, ", "))
			}
			fmt.Fprintf(out, "%q now has %s (unsaved).\n", updated.Name, updated.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the course should go")
	cmd.Flags().StringVar(&criteria, "criteria", "", "What a replacement should look like")
	cmd.Flags().IntVar(&apply, "apply", 0, "Apply the numbered suggestion")
	return cmd
}

func printAlterations(w io.Writer, set schedule.AlterationSet) {
	for i, alt := range set.Alterations {
		fmt.Fprintf(w, "\n%s  %s\n", formatHeader(fmt.Sprintf("[%d]", i+1)), formatHeader(alt.Name))
		if alt.Description != "" {
			fmt.Fprintf(w, "    %s\n", alt.Description)
		}
		if len(alt.Remove) > 0 {
			fmt.Fprintf(w, "    - %s\n", strings.Join(alt.Remove, ", "))
		}
		for _, c := range alt.Add {
			fmt.Fprintf(w, "    + %s  %s\n", formatCourse(c.CourseID), meetingText(c.ItemBase))
		}
		fmt.Fprintf(w, "    %s\n", formatMuted(fmt.Sprintf("difficulty %+.0f · time %+.1f h · confidence %.0f%%",
			alt.DifficultyChange, alt.TimeChange, alt.Confidence*100)))
		for _, warn := range alt.Warnings {
			fmt.Fprintf(w, "    %s %s\n", formatWarn("!"), warn)
		}
		if alt.WhyRecommended != "" {
			fmt.Fprintf(w, "    %s\n", formatInsight(alt.WhyRecommended))
		}
	}
	if set.OverallSummary != "" {
		fmt.Fprintln(w)
		PrintInsightWrapped(w, set.OverallSummary, 70)
	}
}
