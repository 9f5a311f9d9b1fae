// Package schedule defines the canonical course schedule model.
package schedule

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Errors shared across the engine.
var (
	ErrFormat       = errors.New("invalid time format, expected H:MM or HH:MM")
	ErrInvalidRange = errors.New("end time must be after start time")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Kind distinguishes courses from events in flattened item views.
type Kind string

const (
	KindCourse Kind = "course"
	KindEvent  Kind = "event"
)

// ItemBase holds the fields shared by courses and events.
type ItemBase struct {
	ID         string `json:"id"`
	Title      string `json:"title" validate:"required"`
	RepeatDays []Day  `json:"repeatDays" validate:"dive,weekday"`
	StartTime  string `json:"startTime" validate:"omitempty,hhmm"`
	EndTime    string `json:"endTime" validate:"omitempty,hhmm"`
	Color      string `json:"color,omitempty"`
}

// Timed reports whether both start and end are set.
func (b ItemBase) Timed() bool {
	return b.StartTime != "" && b.EndTime != ""
}

// Range parses the item's start and end times.
func (b ItemBase) Range() (TimeOfDay, TimeOfDay, error) {
	return ParseRange(b.StartTime, b.EndTime)
}

// Minutes returns the weekly duration of a single occurrence, or 0 if untimed or invalid.
func (b ItemBase) Minutes() int {
	s, e, err := b.Range()
	if err != nil {
		return 0
	}
	return int(e - s)
}

// OccursOn reports whether the item repeats on d.
func (b ItemBase) OccursOn(d Day) bool {
	return slices.Contains(b.RepeatDays, d)
}

// Course is a class meeting.
type Course struct {
	ItemBase
	CourseID         string      `json:"courseId" validate:"required"`
	Instructor       string      `json:"instructor,omitempty"`
	Session          string      `json:"session,omitempty"`
	DifficultyRating int         `json:"difficultyRating,omitempty" validate:"gte=0,lte=100"`
	CreditHours      float64     `json:"creditHours,omitempty" validate:"gte=0"`
	Campus           string      `json:"campus,omitempty"`
	Term             string      `json:"term,omitempty"`
	RatingDetails    *ClassScore `json:"ratingDetails,omitempty"`
}

// Event is a non-course recurring block such as work or a club meeting.
type Event struct {
	ItemBase
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// ClassScore is the backend's rating of a course.
type ClassScore struct {
	CourseID            string   `json:"course_id"`
	Score               float64  `json:"score"`
	CreditHours         float64  `json:"credit_hours"`
	Summary             string   `json:"summary,omitempty"`
	TimeLoad            float64  `json:"time_load"`
	Rigor               float64  `json:"rigor"`
	AssessmentIntensity float64  `json:"assessment_intensity"`
	ProjectIntensity    float64  `json:"project_intensity"`
	Pace                float64  `json:"pace"`
	PreReqs             []string `json:"pre_reqs,omitempty"`
	CoReqs              []string `json:"co_reqs,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	EvidenceSnippets    []string `json:"evidence_snippets,omitempty"`
	Confidence          float64  `json:"confidence"`
}

// Schedule is the canonical in-memory schedule.
type Schedule struct {
	ID              int64 // remote id, 0 until persisted
	LocalID         int64 // local store key
	Name            string
	Favorite        bool
	Courses         []Course
	Events          []Event
	DifficultyScore float64
	WeeklyHours     float64
	CreditHours     float64
	Campus          string
	Term            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Dirty           bool
}

// Item is a read-only flattened view of a course or event.
type Item struct {
	ItemBase
	Kind       Kind
	Index      int
	CourseID   string
	Instructor string
	Difficulty int
	Location   string
}

// Label returns the course id for courses and the title otherwise.
func (it Item) Label() string {
	if it.Kind == KindCourse && it.CourseID != "" {
		return it.CourseID
	}
	return it.Title
}

// Items returns every course followed by every event, in list order.
func (s *Schedule) Items() []Item {
	items := make([]Item, 0, len(s.Courses)+len(s.Events))
	for i, c := range s.Courses {
		items = append(items, Item{
			ItemBase:   c.ItemBase,
			Kind:       KindCourse,
			Index:      i,
			CourseID:   c.CourseID,
			Instructor: c.Instructor,
			Difficulty: c.DifficultyRating,
		})
	}
	for i, e := range s.Events {
		items = append(items, Item{
			ItemBase: e.ItemBase,
			Kind:     KindEvent,
			Index:    i,
			Location: e.Location,
		})
	}
	return items
}

// Clone returns a deep copy that shares no slices with s.
func (s *Schedule) Clone() Schedule {
	c := *s
	c.Courses = make([]Course, len(s.Courses))
	for i, course := range s.Courses {
		course.RepeatDays = slices.Clone(course.RepeatDays)
		if course.RatingDetails != nil {
			rd := cloneScore(*course.RatingDetails)
			course.RatingDetails = &rd
		}
		c.Courses[i] = course
	}
	c.Events = make([]Event, len(s.Events))
	for i, ev := range s.Events {
		ev.RepeatDays = slices.Clone(ev.RepeatDays)
		c.Events[i] = ev
	}
	return c
}

func cloneScore(cs ClassScore) ClassScore {
	cs.PreReqs = slices.Clone(cs.PreReqs)
	cs.CoReqs = slices.Clone(cs.CoReqs)
	cs.Tags = slices.Clone(cs.Tags)
	cs.EvidenceSnippets = slices.Clone(cs.EvidenceSnippets)
	return cs
}

// CourseIndex returns the index of the course with the given item id.
func (s *Schedule) CourseIndex(id string) int {
	return slices.IndexFunc(s.Courses, func(c Course) bool { return c.ID == id })
}

// EventIndex returns the index of the event with the given item id.
func (s *Schedule) EventIndex(id string) int {
	return slices.IndexFunc(s.Events, func(e Event) bool { return e.ID == id })
}

// HasCourse reports whether a course with courseID is already present.
func (s *Schedule) HasCourse(courseID string) bool {
	return slices.ContainsFunc(s.Courses, func(c Course) bool { return c.CourseID == courseID })
}

// NeedsAnalysis reports whether the schedule has content but no difficulty score yet.
func (s *Schedule) NeedsAnalysis() bool {
	return s.DifficultyScore == 0 && len(s.Courses) > 0
}

// TotalCreditHours sums per-course credit hours.
func (s *Schedule) TotalCreditHours() float64 {
	var total float64
	for _, c := range s.Courses {
		total += c.CreditHours
	}
	return total
}

// WeeklyMinutes sums the duration of every occurrence across the week.
func (s *Schedule) WeeklyMinutes() int {
	var total int
	for _, it := range s.Items() {
		total += it.Minutes() * len(it.RepeatDays)
	}
	return total
}

// Summary returns "N course(s), M event(s)" or "Empty schedule".
func (s *Schedule) Summary() string {
	if len(s.Courses) == 0 && len(s.Events) == 0 {
		return "Empty schedule"
	}
	return fmt.Sprintf("%s, %s", plural(len(s.Courses), "course"), plural(len(s.Events), "event"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
