package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CSE5914-Group99/schedule-planner/internal/reconcile"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// itemFlags are the meeting fields shared by courses and events.
type itemFlags struct {
	title string
	days  string
	start string
	end   string
}

func (f *itemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Display title")
	fs.StringVar(&f.days, "days", "", "Meeting days, e.g. Mon,Wed,Fri")
	fs.StringVar(&f.start, "start", "", "Start time (H:MM or HH:MM)")
	fs.StringVar(&f.end, "end", "", "End time (H:MM or HH:MM)")
}

// apply copies every flag the user set onto b.
func (f *itemFlags) apply(fs *pflag.FlagSet, b *schedule.ItemBase) error {
	if fs.Changed("title") {
		b.Title = strings.TrimSpace(f.title)
	}
	if fs.Changed("days") {
		days, err := schedule.ParseDays(f.days)
		if err != nil {
			return err
		}
		b.RepeatDays = days
	}
	if fs.Changed("start") {
		b.StartTime = schedule.PadTime(strings.TrimSpace(f.start))
	}
	if fs.Changed("end") {
		b.EndTime = schedule.PadTime(strings.TrimSpace(f.end))
	}
	return nil
}

func (a *App) courseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Add, edit or remove courses",
	}
	cmd.AddCommand(a.courseAddCmd(), a.courseEditCmd(), a.courseRemoveCmd())
	return cmd
}

type courseFlags struct {
	itemFlags
	instructor string
	session    string
	credits    float64
}

func (f *courseFlags) register(fs *pflag.FlagSet) {
	f.itemFlags.register(fs)
	fs.StringVar(&f.instructor, "instructor", "", "Instructor name")
	fs.StringVar(&f.session, "session", "", "Session or section")
	fs.Float64Var(&f.credits, "credits", 0, "Credit hours")
}

func (f *courseFlags) apply(fs *pflag.FlagSet, c *schedule.Course) error {
	if err := f.itemFlags.apply(fs, &c.ItemBase); err != nil {
		return err
	}
	if fs.Changed("instructor") {
		c.Instructor = strings.TrimSpace(f.instructor)
	}
	if fs.Changed("session") {
		c.Session = strings.TrimSpace(f.session)
	}
	if fs.Changed("credits") {
		c.CreditHours = f.credits
	}
	return nil
}

func (a *App) courseAddCmd() *cobra.Command {
	var f courseFlags

	cmd := &cobra.Command{
		Use:   "add <course-id>",
		Short: "Add a course",
		Example: `  planner course add "CSE 2221" --title "Software I" --days Mon,Wed,Fri --start 9:10 --end 10:05
  planner course add "MATH 1151" --credits 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}

			c := schedule.Course{CourseID: strings.TrimSpace(args[0]), Term: s.Term, Campus: s.Campus}
			if err := f.apply(cmd.Flags(), &c); err != nil {
				return err
			}
			if s.HasCourse(c.CourseID) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is already on this schedule.\n", formatWarn("note:"), c.CourseID)
			}

			var id string
			s, err = a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				var err error
				id, err = sess.AddCourse(c)
				return err
			})
			if err != nil {
				return fmt.Errorf("adding course: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %q as %s (unsaved).\n", formatCourse(c.CourseID), s.Name, shortID(id))
			warnConflicts(cmd, s, id)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func (a *App) courseEditCmd() *cobra.Command {
	var f courseFlags

	cmd := &cobra.Command{
		Use:   "edit <course-id|item-id>",
		Short: "Change a course; only the flags given are updated",
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

			c := s.Courses[i]
			if err := f.apply(cmd.Flags(), &c); err != nil {
				return err
			}
			s, err = a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				return sess.UpdateCourse(c)
			})
			if err != nil {
				return fmt.Errorf("updating course: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (unsaved).\n", formatCourse(c.CourseID))
			warnConflicts(cmd, s, c.ID)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func (a *App) courseRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <course-id|item-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a course",
		Args:    cobra.ExactArgs(1),
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
			c := s.Courses[i]
			if _, err := a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				return sess.DeleteCourse(c.ID)
			}); err != nil {
				return fmt.Errorf("removing course: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (unsaved).\n", formatCourse(c.CourseID))
			return nil
		},
	}
}

func (a *App) eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add, edit or remove events such as work shifts or club meetings",
	}
	cmd.AddCommand(a.eventAddCmd(), a.eventEditCmd(), a.eventRemoveCmd())
	return cmd
}

type eventFlags struct {
	itemFlags
	location    string
	description string
}

func (f *eventFlags) register(fs *pflag.FlagSet) {
	f.itemFlags.register(fs)
	fs.StringVar(&f.location, "location", "", "Where the event takes place")
	fs.StringVar(&f.description, "description", "", "Free-form notes")
}

func (f *eventFlags) apply(fs *pflag.FlagSet, e *schedule.Event) error {
	if err := f.itemFlags.apply(fs, &e.ItemBase); err != nil {
		return err
	}
	if fs.Changed("location") {
		e.Location = strings.TrimSpace(f.location)
	}
	if fs.Changed("description") {
		e.Description = strings.TrimSpace(f.description)
	}
	return nil
}

func (a *App) eventAddCmd() *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add an event",
		Example: `  planner event add "Library shift" --days Tue,Thu --start 13:00 --end 17:00 --location "Thompson Library"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.open(ctx); err != nil {
				return err
			}

			e := schedule.Event{ItemBase: schedule.ItemBase{Title: strings.TrimSpace(args[0])}}
			if err := f.apply(cmd.Flags(), &e); err != nil {
				return err
			}

			var id string
			s, err := a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				var err error
				id, err = sess.AddEvent(e)
				return err
			})
			if err != nil {
				return fmt.Errorf("adding event: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %q as %s (unsaved).\n", formatEvent(e.Title), s.Name, shortID(id))
			warnConflicts(cmd, s, id)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func (a *App) eventEditCmd() *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "edit <title|item-id>",
		Short: "Change an event; only the flags given are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			i, err := findEvent(s, args[0])
			if err != nil {
				return err
			}

			e := s.Events[i]
			if err := f.apply(cmd.Flags(), &e); err != nil {
				return err
			}
			s, err = a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				return sess.UpdateEvent(e)
			})
			if err != nil {
				return fmt.Errorf("updating event: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (unsaved).\n", formatEvent(e.Title))
			warnConflicts(cmd, s, e.ID)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func (a *App) eventRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <title|item-id>",
		Aliases: []string{"remove"},
		Short:   "Remove an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			i, err := findEvent(s, args[0])
			if err != nil {
				return err
			}
			e := s.Events[i]
			if _, err := a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				return sess.DeleteEvent(e.ID)
			}); err != nil {
				return fmt.Errorf("removing event: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (unsaved).\n", formatEvent(e.Title))
			return nil
		},
	}
}

// findCourse resolves ref as an item id, a unique item id prefix or a
// course id such as "cse 2221".
func findCourse(s schedule.Schedule, ref string) (int, error) {
	keys := make([]string, len(s.Courses))
	ids := make([]string, len(s.Courses))
	for i, c := range s.Courses {
		keys[i] = c.CourseID
		ids[i] = c.ID
	}
	return resolveRef("course", ref, ids, keys)
}

// findEvent resolves ref as an item id, a unique item id prefix or a title.
func findEvent(s schedule.Schedule, ref string) (int, error) {
	keys := make([]string, len(s.Events))
	ids := make([]string, len(s.Events))
	for i, e := range s.Events {
		keys[i] = e.Title
		ids[i] = e.ID
	}
	return resolveRef("event", ref, ids, keys)
}

func resolveRef(kind, ref string, ids, keys []string) (int, error) {
	ref = strings.TrimSpace(ref)
	for i, id := range ids {
		if id == ref {
			return i, nil
		}
	}

	match := -1
	norm := normalizeRef(ref)
	for i, key := range keys {
		if normalizeRef(key) == norm {
			if match >= 0 {
				return -1, fmt.Errorf("%s %q is ambiguous, use the item id: %w", kind, ref, schedule.ErrConflict)
			}
			match = i
		}
	}
	if match >= 0 {
		return match, nil
	}

	for i, id := range ids {
		if ref != "" && strings.HasPrefix(id, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("%s id prefix %q is ambiguous: %w", kind, ref, schedule.ErrConflict)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%s %q: %w", kind, ref, schedule.ErrNotFound)
	}
	return match, nil
}

// normalizeRef folds case and spacing so "cse2221" matches "CSE 2221".
func normalizeRef(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// warnConflicts prints the items that overlap the item with id.
func warnConflicts(cmd *cobra.Command, s schedule.Schedule, id string) {
	items := s.Items()
	var self schedule.Item
	found := false
	for _, it := range items {
		if it.ID == id {
			self, found = it, true
			break
		}
	}
	if !found {
		return
	}
	for _, it := range items {
		if it.ID != id && schedule.Overlaps(self.ItemBase, it.ItemBase) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s overlaps %s\n", formatWarn("warning:"), formatKind(it.Kind, it.Label()))
		}
	}
}
