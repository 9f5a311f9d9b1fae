package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/dateutil"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/upcoming"
)

func (a *App) upcomingCmd() *cobra.Command {
	var (
		limit  int
		onDate string
		atTime string
	)

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the next class meetings and events",
		Long: `List the soonest meetings of the selected schedule, counted from now.

Use --date and --time to look ahead from another moment. --date accepts
YYYY-MM-DD, today, tomorrow, a weekday name or next-<weekday>.`,
		Example: `  planner upcoming
  planner upcoming --limit 10
  planner upcoming --date monday --time 08:00`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := a.referenceTime(onDate, atTime)
			if err != nil {
				return err
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ranked := upcoming.Rank(s.Items(), ref, limit)
			if len(ranked) == 0 {
				fmt.Fprintln(out, "Nothing scheduled.")
				return nil
			}
			for _, o := range ranked {
				if o.Untimed() {
					fmt.Fprintf(out, "  %-3s %-5s  %s  %s\n", "-", "TBA", formatKind(o.Item.Kind, o.Item.Label()), formatMuted("no fixed time"))
					continue
				}
				fmt.Fprintf(out, "  %-3s %-5s  %s  %s\n",
					o.Day.Short(),
					o.Item.StartTime,
					formatKind(o.Item.Kind, o.Item.Label()),
					formatMuted(humanize.RelTime(o.At(ref), ref, "ago", "from now")))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", upcoming.DefaultLimit, "How many meetings to list (0 for all)")
	cmd.Flags().StringVar(&onDate, "date", "", "Look ahead from this day instead of today")
	cmd.Flags().StringVar(&atTime, "time", "", "Time of day for --date (HH:MM, default 00:00)")
	return cmd
}

// referenceTime resolves --date and --time against the current time.
func (a *App) referenceTime(onDate, atTime string) (time.Time, error) {
	now := a.now()
	if onDate == "" && atTime == "" {
		return now, nil
	}
	day := dateutil.TruncateToDay(now)
	if onDate != "" {
		d, err := dateutil.ParseRelativeDate(onDate, now)
		if err != nil {
			return time.Time{}, err
		}
		day = d
	}
	var minutes schedule.TimeOfDay
	if atTime != "" {
		t, err := schedule.ParseTime(atTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("--time: %w", err)
		}
		minutes = t
	}
	return dateutil.At(day, int(minutes)), nil
}
