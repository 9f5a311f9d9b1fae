// Package reconcile merges generated and altered schedules into the current
// one and tracks the editing session.
package reconcile

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// IDSource produces fresh item ids.
type IDSource func() string

// UUIDs is the default IDSource.
func UUIDs() string {
	return uuid.NewString()
}

func (f IDSource) next() string {
	if f == nil {
		return UUIDs()
	}
	return f()
}

// MergeGenerated builds the schedule that results from accepting candidate
// in place of original. Identity and metadata come from original; content
// and aggregate scores come from candidate. Every item gets a fresh id and
// a palette color.
func MergeGenerated(original, candidate schedule.Schedule, ids IDSource) schedule.Schedule {
	gen := candidate.Clone()
	out := original.Clone()

	out.Courses = gen.Courses
	out.Events = gen.Events
	out.DifficultyScore = gen.DifficultyScore
	out.WeeklyHours = gen.WeeklyHours
	out.CreditHours = gen.CreditHours
	if out.CreditHours == 0 {
		out.CreditHours = out.TotalCreditHours()
	}

	for i := range out.Courses {
		out.Courses[i].ID = ids.next()
		out.Courses[i].Color = schedule.ColorFor(schedule.KindCourse, i)
	}
	for i := range out.Events {
		out.Events[i].ID = ids.next()
		out.Events[i].Color = schedule.ColorFor(schedule.KindEvent, i)
	}
	return out
}

// Diff reports what an alteration changed.
type Diff struct {
	Removed []string // course ids removed
	Added   []string // course ids added
	Skipped []string // course ids not added because they were already present
}

// RemovalKey extracts the bare course id from a decorated label such as
// "CSE 2331 (Dr. Smith)" or "CSE 2331 - lecture".
func RemovalKey(label string) string {
	key := label
	if i := strings.Index(key, "("); i >= 0 {
		key = key[:i]
	}
	for _, sep := range []string{"—", "–", " - "} {
		if i := strings.Index(key, sep); i >= 0 {
			key = key[:i]
		}
	}
	return strings.TrimSpace(key)
}

// ApplyAlteration removes the alteration's courses from current and appends
// its additions. The removal set is deduplicated. An addition whose course id
// is still present after removal, or that repeats an earlier addition, is
// skipped. Added courses get fresh ids and colors by their final position.
func ApplyAlteration(current schedule.Schedule, alt schedule.Alteration, ids IDSource) (schedule.Schedule, Diff) {
	out := current.Clone()
	var diff Diff

	remove := make(map[string]bool, len(alt.Remove))
	for _, label := range alt.Remove {
		if key := RemovalKey(label); key != "" {
			remove[key] = true
		}
	}

	kept := out.Courses[:0]
	for _, c := range out.Courses {
		id := strings.TrimSpace(c.CourseID)
		if remove[id] {
			if !slices.Contains(diff.Removed, id) {
				diff.Removed = append(diff.Removed, id)
			}
			continue
		}
		kept = append(kept, c)
	}
	out.Courses = kept

	for _, add := range alt.Add {
		id := strings.TrimSpace(add.CourseID)
		if id == "" || out.HasCourse(id) {
			diff.Skipped = append(diff.Skipped, id)
			continue
		}
		c := add
		c.RepeatDays = slices.Clone(add.RepeatDays)
		if add.RatingDetails != nil {
			rd := *add.RatingDetails
			c.RatingDetails = &rd
		}
		c.ID = ids.next()
		c.Color = schedule.ColorFor(schedule.KindCourse, len(out.Courses))
		if c.Title == "" {
			c.Title = id
		}
		out.Courses = append(out.Courses, c)
		diff.Added = append(diff.Added, id)
	}

	out.CreditHours = out.TotalCreditHours()
	out.Dirty = true
	return out, diff
}

// SetFavorite marks the schedule with localID as the only favorite.
// Returns schedule.ErrNotFound when no schedule has that id; list is unchanged.
func SetFavorite(list []schedule.Schedule, localID int64) ([]schedule.Schedule, error) {
	if !slices.ContainsFunc(list, func(s schedule.Schedule) bool { return s.LocalID == localID }) {
		return list, schedule.ErrNotFound
	}
	out := make([]schedule.Schedule, len(list))
	for i := range list {
		out[i] = list[i].Clone()
		out[i].Favorite = list[i].LocalID == localID
	}
	return out, nil
}

// Favorite returns the favorite schedule, if any.
func Favorite(list []schedule.Schedule) (schedule.Schedule, bool) {
	for _, s := range list {
		if s.Favorite {
			return s, true
		}
	}
	return schedule.Schedule{}, false
}
