// Package upcoming ranks recurring schedule items by their next occurrence.
package upcoming

import (
	"math"
	"slices"
	"time"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// DefaultLimit is how many occurrences the upcoming panel shows.
const DefaultLimit = 5

// Never marks an occurrence with no computable next start.
const Never = math.MaxInt

// Occurrence is the next meeting of an item on one of its repeat days.
type Occurrence struct {
	Item         schedule.Item
	Day          schedule.Day
	MinutesUntil int // Never for items without a valid time or day
}

// Untimed reports whether the occurrence could not be placed in time.
func (o Occurrence) Untimed() bool {
	return o.MinutesUntil == Never
}

// At returns the absolute start of the occurrence relative to now.
func (o Occurrence) At(now time.Time) time.Time {
	if o.Untimed() {
		return time.Time{}
	}
	base := now.Truncate(time.Minute)
	return base.Add(time.Duration(o.MinutesUntil) * time.Minute)
}

// Rank returns up to limit occurrences, one per (item, repeat day), ordered
// by minutes until they start. An occurrence that has already started today
// counts as next week. Items with an unparseable start or no repeat days sort
// last. Ties keep schedule order. A limit of zero or less returns everything.
func Rank(items []schedule.Item, now time.Time, limit int) []Occurrence {
	nowDay := schedule.DayFromWeekday(now.Weekday()).Index()
	nowMin := now.Hour()*60 + now.Minute()

	var out []Occurrence
	for _, it := range items {
		start, err := schedule.ParseTime(it.StartTime)
		days := schedule.SortDays(it.RepeatDays)
		if err != nil || len(days) == 0 {
			out = append(out, Occurrence{Item: it, MinutesUntil: Never})
			continue
		}
		for _, d := range days {
			out = append(out, Occurrence{
				Item:         it,
				Day:          d,
				MinutesUntil: minutesUntil(nowDay, nowMin, d.Index(), int(start)),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		switch {
		case a.MinutesUntil < b.MinutesUntil:
			return -1
		case a.MinutesUntil > b.MinutesUntil:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func minutesUntil(nowDay, nowMin, itemDay, start int) int {
	days := (itemDay - nowDay + 7) % 7
	if days == 0 && start <= nowMin {
		days = 7
	}
	return days*24*60 + start - nowMin
}

// Next returns the soonest timed occurrence, if any.
func Next(items []schedule.Item, now time.Time) (Occurrence, bool) {
	ranked := Rank(items, now, 1)
	if len(ranked) == 0 || ranked[0].Untimed() {
		return Occurrence{}, false
	}
	return ranked[0], true
}
