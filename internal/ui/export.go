package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/dateutil"
	"github.com/CSE5914-Group99/schedule-planner/internal/export"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (a *App) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a schedule to a calendar, spreadsheet or clipboard",
	}
	cmd.AddCommand(a.exportICSCmd(), a.exportXLSXCmd(), a.exportTSVCmd())
	return cmd
}

func (a *App) exportICSCmd() *cobra.Command {
	var output, from, until string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write an iCalendar file with one weekly event per item",
		Long: `Write the selected schedule as an iCalendar (.ics) file that calendar
apps can import. Each course and event repeats weekly on its days.

--from sets the first week (default: the current week) and --until stops
the recurrence, for example at the end of the term.`,
		Example: `  planner export ics
  planner export ics --from 2026-01-12 --until 2026-04-27 -o spring.ics
  planner export ics -o -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := termRange(from, until)
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = fileName(s, ".ics")
			}
			var skipped []schedule.Item
			err = writeTo(cmd.OutOrStdout(), path, func(w io.Writer) error {
				var err error
				skipped, err = export.WriteICS(w, s, export.ICSOptions{Range: r, Now: a.now()})
				return err
			})
			if err != nil {
				return err
			}
			reportExport(cmd, path, len(s.Courses)+len(s.Events)-len(skipped), skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, '-' for stdout (default: <name>.ics)")
	cmd.Flags().StringVar(&from, "from", "", "First day of the recurrence (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Last day of the recurrence (YYYY-MM-DD)")
	return cmd
}

// termRange parses the optional --from and --until dates.
func termRange(from, until string) (dateutil.DateRange, error) {
	var r dateutil.DateRange
	if from != "" {
		d, err := dateutil.ParseDate(from)
		if err != nil {
			return r, fmt.Errorf("--from: %w", err)
		}
		r.Start = d
	}
	if until != "" {
		d, err := dateutil.ParseDate(until)
		if err != nil {
			return r, fmt.Errorf("--until: %w", err)
		}
		if !r.Start.IsZero() && d.Before(r.Start) {
			return r, dateutil.ErrEndDateBeforeStart
		}
		r.End = d
	}
	return r, nil
}

func (a *App) exportXLSXCmd() *cobra.Command {
	var output string
	var weekend bool

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write a spreadsheet with the weekly grid and an item list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			cfg := a.config.GridLayout()
			if cmd.Flags().Changed("weekend") {
				cfg = cfg.WithWeekend(weekend)
			}

			path := output
			if path == "" {
				path = fileName(s, ".xlsx")
			}
			if err := writeTo(cmd.OutOrStdout(), path, func(w io.Writer) error {
				return export.WriteXLSX(w, s, cfg)
			}); err != nil {
				return err
			}
			reportExport(cmd, path, len(s.Courses)+len(s.Events), nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, '-' for stdout (default: <name>.xlsx)")
	cmd.Flags().BoolVar(&weekend, "weekend", false, "Include Saturday and Sunday columns")
	return cmd
}

func (a *App) exportTSVCmd() *cobra.Command {
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "tsv",
		Short: "Print the weekly grid as tab-separated text",
		Long: `Print the weekly grid as tab-separated rows, ready to paste into a
spreadsheet. With --clipboard the text is copied instead of printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			text := export.TSV(s, a.config.GridLayout())
			if !toClipboard {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %q to the clipboard.\n", s.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "Copy to the clipboard")
	return cmd
}

// writeTo runs write against stdout for "-" or a newly created file.
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func reportExport(cmd *cobra.Command, path string, written int, skipped []schedule.Item) {
	if path == "-" {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Wrote %d item(s) to %s\n", written, path)
	if len(skipped) > 0 {
		fmt.Fprintf(out, "%s no fixed time, not exported: %s\n", formatWarn("note:"), joinLabels(skipped))
	}
}

// fileName derives a file name from the schedule name.
func fileName(s schedule.Schedule, ext string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(s.Name), "-"), "-")
	if base == "" {
		base = "schedule"
	}
	return strings.ToLower(base) + ext
}
