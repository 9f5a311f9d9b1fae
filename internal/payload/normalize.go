package payload

import (
	"fmt"
	"time"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Fallback titles for records that omit them.
const (
	UntitledCourse   = "Untitled Course"
	UntitledEvent    = "Untitled Event"
	UntitledSchedule = "Untitled"
)

// Normalize converts a decoded record into the canonical Schedule.
func Normalize(rec Record) schedule.Schedule {
	switch r := rec.(type) {
	case LegacyRecord:
		return normalizeLegacy(r)
	case CurrentRecord:
		return normalizeCurrent(r)
	default:
		return schedule.Schedule{Name: UntitledSchedule}
	}
}

func normalizeLegacy(r LegacyRecord) schedule.Schedule {
	id := r.RemoteID()
	s := schedule.Schedule{
		ID:        id,
		Name:      firstNonEmpty(r.Name, UntitledSchedule),
		Favorite:  r.IsStarred || r.Favorite,
		Courses:   make([]schedule.Course, 0, len(r.Items)),
		Events:    make([]schedule.Event, 0, len(r.Activities)),
		CreatedAt: parseTimestamp(firstNonEmpty(r.CreatedAt, r.CreatedAtSnake)),
		UpdatedAt: parseTimestamp(firstNonEmpty(r.UpdatedAt, r.UpdatedAtSnake)),
	}

	for i, item := range r.Items {
		days, start, end := ParseTimesDays(firstNonEmpty(item.TimesDays, item.TimesDaysSnake))
		s.Courses = append(s.Courses, schedule.Course{
			ItemBase: schedule.ItemBase{
				ID:         derivedID(schedule.KindCourse, id, i),
				Title:      firstNonEmpty(item.CourseID, UntitledCourse),
				RepeatDays: days,
				StartTime:  start,
				EndTime:    end,
				Color:      schedule.ColorFor(schedule.KindCourse, i),
			},
			CourseID:   item.CourseID,
			Instructor: firstNonEmpty(item.TeacherName, item.TeacherNameSnake),
		})
	}

	for i, act := range r.Activities {
		days, start, end := ParseTimesDays(firstNonEmpty(act.TimesDays, act.TimesDaysSnake))
		s.Events = append(s.Events, schedule.Event{
			ItemBase: schedule.ItemBase{
				ID:         derivedID(schedule.KindEvent, id, i),
				Title:      firstNonEmpty(act.Description, UntitledEvent),
				RepeatDays: days,
				StartTime:  start,
				EndTime:    end,
				Color:      schedule.ColorFor(schedule.KindEvent, i),
			},
			Description: act.Description,
		})
	}

	s.CreditHours = s.TotalCreditHours()
	return s
}

func normalizeCurrent(r CurrentRecord) schedule.Schedule {
	s := schedule.Schedule{
		ID:              r.RemoteID(),
		Name:            firstNonEmpty(r.Name, UntitledSchedule),
		Favorite:        r.Favorite,
		Courses:         make([]schedule.Course, len(r.Courses)),
		Events:          make([]schedule.Event, len(r.Events)),
		DifficultyScore: r.DifficultyScore,
		WeeklyHours:     r.WeeklyHours,
		CreditHours:     r.CreditHours,
		Campus:          r.Campus,
		Term:            r.Term,
		CreatedAt:       parseTimestamp(r.CreatedAt),
		UpdatedAt:       parseTimestamp(r.UpdatedAt),
	}
	copy(s.Courses, r.Courses)
	copy(s.Events, r.Events)

	for i := range s.Courses {
		c := &s.Courses[i]
		c.Title = firstNonEmpty(c.Title, c.CourseID, UntitledCourse)
		defaultTimes(&c.ItemBase)
	}
	for i := range s.Events {
		e := &s.Events[i]
		e.Title = firstNonEmpty(e.Title, e.Description, UntitledEvent)
		defaultTimes(&e.ItemBase)
	}

	canonicalize(&s)
	if s.CreditHours == 0 {
		s.CreditHours = s.TotalCreditHours()
	}
	return s
}

func defaultTimes(b *schedule.ItemBase) {
	if b.StartTime == "" {
		b.StartTime = DefaultStart
	}
	if b.EndTime == "" {
		b.EndTime = DefaultEnd
	}
}

// Canonicalize tidies an in-memory schedule: pads times, orders and dedupes
// repeat days, fills missing item ids and assigns palette colors.
// Applying it twice gives the same result as applying it once.
func Canonicalize(s schedule.Schedule) schedule.Schedule {
	out := s.Clone()
	canonicalize(&out)
	return out
}

func canonicalize(s *schedule.Schedule) {
	for i := range s.Courses {
		tidy(&s.Courses[i].ItemBase, schedule.KindCourse, s.ID, i)
	}
	for i := range s.Events {
		tidy(&s.Events[i].ItemBase, schedule.KindEvent, s.ID, i)
	}
}

func tidy(b *schedule.ItemBase, kind schedule.Kind, scheduleID int64, index int) {
	if b.ID == "" {
		b.ID = derivedID(kind, scheduleID, index)
	}
	b.StartTime = schedule.PadTime(b.StartTime)
	b.EndTime = schedule.PadTime(b.EndTime)
	b.RepeatDays = schedule.SortDays(b.RepeatDays)
	b.Color = schedule.ColorFor(kind, index)
}

func derivedID(kind schedule.Kind, scheduleID int64, index int) string {
	return fmt.Sprintf("%s-%d-%d", kind, scheduleID, index)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
