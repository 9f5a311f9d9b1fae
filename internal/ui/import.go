package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/export"
	"github.com/CSE5914-Group99/schedule-planner/internal/reconcile"
)

func (a *App) importCmd() *cobra.Command {
	var newName string

	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Import courses and events from an iCalendar file",
		Long: `Read an iCalendar (.ics) file, such as a registrar or calendar app
export, and add its weekly meetings to a schedule.

Entries whose title starts with a course id ("CSE 2221 ...") become
courses; everything else becomes an event. Courses already on the
schedule are skipped. Use --new to import into a fresh draft.`,
		Example: `  planner import registrar.ics
  planner import registrar.ics --new "Imported spring"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening calendar: %w", err)
			}
			imported, err := export.ImportICS(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			if newName != "" {
				if _, err := a.planner.Create(ctx, newName, "", ""); err != nil {
					return fmt.Errorf("creating schedule: %w", err)
				}
			} else if _, err := a.open(ctx); err != nil {
				if !errors.Is(err, errNoSchedules) {
					return err
				}
				if _, err := a.planner.Create(ctx, "Imported schedule", "", ""); err != nil {
					return fmt.Errorf("creating schedule: %w", err)
				}
			}

			var added, dup int
			s, err := a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				cur, _ := sess.Current()
				for _, c := range imported.Courses {
					if cur.HasCourse(c.CourseID) {
						dup++
						continue
					}
					c.Term, c.Campus = cur.Term, cur.Campus
					if _, err := sess.AddCourse(c); err != nil {
						return fmt.Errorf("course %s: %w", c.CourseID, err)
					}
					cur, _ = sess.Current()
					added++
				}
				for _, e := range imported.Events {
					if _, err := sess.AddEvent(e); err != nil {
						return fmt.Errorf("event %q: %w", e.Title, err)
					}
					added++
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("importing: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d item(s) into %q (unsaved).\n", added, s.Name)
			if dup > 0 {
				fmt.Fprintf(out, "%s %d course(s) already on the schedule.\n", formatMuted("skipped"), dup)
			}
			for _, title := range imported.Skipped {
				fmt.Fprintf(out, "%s %s\n", formatWarn("not imported:"), title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "new", "", "Import into a new schedule with this name")
	return cmd
}
