// Package summary provides shared weekly load summaries for a schedule.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/CSE5914-Group99/schedule-planner/internal/dateutil"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// DayLoad is the time committed on one weekday.
type DayLoad struct {
	Day     schedule.Day
	Minutes int
	Items   int
	First   string // earliest start, empty when nothing is scheduled
	Last    string // latest end
}

// WeekSummary holds aggregated week data and optional insight.
type WeekSummary struct {
	Start time.Time
	End   time.Time

	Name         string
	Counts       string // "2 courses, 1 event"
	Days         []DayLoad
	TotalMinutes int
	CreditHours  float64
	Untimed      []string

	// Backend difficulty analysis; Difficulty is 0 until analyzed.
	Difficulty  float64
	WeeklyHours float64
	Band        schedule.Band
	Label       string

	Insight string
}

// Analyzed reports whether a difficulty score is available.
func (w *WeekSummary) Analyzed() bool {
	return w.Difficulty > 0
}

// Busiest returns the day with the most scheduled minutes. Ties go to the
// earlier day. ok is false for an empty week.
func (w *WeekSummary) Busiest() (DayLoad, bool) {
	var best DayLoad
	for _, d := range w.Days {
		if d.Minutes > best.Minutes {
			best = d
		}
	}
	return best, best.Minutes > 0
}

// FreeDays lists weekdays with nothing scheduled.
func (w *WeekSummary) FreeDays() []schedule.Day {
	var out []schedule.Day
	for _, d := range w.Days {
		if d.Items == 0 && d.Day.Index() < 5 {
			out = append(out, d.Day)
		}
	}
	return out
}

// Insighter produces a short written assessment of a schedule.
type Insighter interface {
	Assess(ctx context.Context, s schedule.Schedule) (string, error)
}

// SummarizeWeek builds the summary of s for the calendar week containing ref.
func SummarizeWeek(ref time.Time, s schedule.Schedule) *WeekSummary {
	start, end := dateutil.WeekRange(ref)

	w := &WeekSummary{
		Start:       start,
		End:         end,
		Name:        s.Name,
		Counts:      s.Summary(),
		Difficulty:  s.DifficultyScore,
		WeeklyHours: s.WeeklyHours,
		CreditHours: s.CreditHours,
	}
	if w.CreditHours == 0 {
		w.CreditHours = s.TotalCreditHours()
	}
	if w.Analyzed() {
		w.Band = schedule.DifficultyBand(w.Difficulty)
		w.Label = schedule.RatingLabel(w.Difficulty)
	}

	byDay := make(map[schedule.Day]*DayLoad, len(schedule.AllDays))
	for _, d := range schedule.AllDays {
		w.Days = append(w.Days, DayLoad{Day: d})
	}
	for i := range w.Days {
		byDay[w.Days[i].Day] = &w.Days[i]
	}

	for _, it := range s.Items() {
		minutes := it.Minutes()
		if minutes == 0 || len(it.RepeatDays) == 0 {
			w.Untimed = append(w.Untimed, it.Label())
			continue
		}
		for _, d := range it.RepeatDays {
			load, ok := byDay[d]
			if !ok {
				continue
			}
			load.Minutes += minutes
			load.Items++
			if load.First == "" || it.StartTime < load.First {
				load.First = it.StartTime
			}
			if it.EndTime > load.Last {
				load.Last = it.EndTime
			}
			w.TotalMinutes += minutes
		}
	}

	return w
}

// BuildWeekSummary summarizes s and, when advisor is not nil, adds a
// written insight.
func BuildWeekSummary(ctx context.Context, s schedule.Schedule, ref time.Time, advisor Insighter) (*WeekSummary, error) {
	if ref.IsZero() {
		ref = time.Now()
	}
	w := SummarizeWeek(ref, s)

	if advisor != nil && (len(s.Courses) > 0 || len(s.Events) > 0) {
		insight, err := advisor.Assess(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("assessing schedule: %w", err)
		}
		w.Insight = insight
	}

	return w, nil
}
