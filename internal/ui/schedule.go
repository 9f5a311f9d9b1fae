package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/reconcile"
)

func (a *App) newCmd() *cobra.Command {
	var term, campus string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Start a new schedule",
		Long: `Create an empty schedule stored locally as a draft.

The draft is sent to the schedule service by 'planner save'. Term and
campus default to the planner section of the config.`,
		Example: `  planner new "Spring 2026"
  planner new "Backup plan" --term "Spring 2026" --campus Columbus`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			s, err := a.planner.Create(cmd.Context(), name, term, campus)
			if err != nil {
				return fmt.Errorf("creating schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created draft #%d %q. Add courses with 'planner course add -s %d'.\n",
				s.LocalID, s.Name, s.LocalID)
			return nil
		},
	}

	cmd.Flags().StringVar(&term, "term", "", "Academic term (default from config)")
	cmd.Flags().StringVar(&campus, "campus", "", "Campus (default from config)")
	return cmd
}

func (a *App) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.open(ctx); err != nil {
				return err
			}
			s, err := a.planner.Edit(ctx, func(sess *reconcile.Session) error {
				return sess.Rename(args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed #%d to %q (unsaved).\n", s.LocalID, s.Name)
			return nil
		},
	}
}

func (a *App) saveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Send a schedule to the schedule service",
		Long: `Create or update the selected schedule on the schedule service.

The name must be unique among your schedules (ignoring case). Saving under
a placeholder name such as "Untitled Schedule" asks for confirmation
unless --yes is given. A failed save keeps every local change.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.open(ctx); err != nil {
				return err
			}

			a.planner.SetConfirm(func(name string) bool {
				if yes {
					return true
				}
				return a.promptYesNo(cmd.OutOrStdout(), fmt.Sprintf("Save with the generic name %q?", name))
			})

			s, err := a.planner.Save(ctx)
			if err != nil {
				if errors.Is(err, reconcile.ErrGenericName) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not saved. Rename it with 'planner rename'.")
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (id %d).\n", s.Name, s.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept a generic name without asking")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a schedule locally and on the schedule service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			if !yes && !a.promptYesNo(cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", s.Name)) {
				return nil
			}
			if err := a.planner.Delete(ctx, s.LocalID); err != nil {
				return fmt.Errorf("deleting schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", s.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *App) favoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite",
		Short: "Mark a schedule as the favorite",
		Long: `Star the selected schedule. Only one schedule is the favorite at a
time; it opens by default in every other command and in the grid view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			if err := a.planner.Favorite(ctx, s.LocalID); err != nil {
				return fmt.Errorf("setting favorite: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q is now the favorite.\n", formatInsight("★"), s.Name)
			return nil
		},
	}
}
