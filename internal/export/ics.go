// Package export writes schedules to calendar, spreadsheet and text formats,
// and imports weekly calendars.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/CSE5914-Group99/schedule-planner/internal/dateutil"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

const (
	productID = "-//schedule-planner//EN"
	uidDomain = "schedule-planner"

	// Floating local time; classes happen in the student's local zone.
	icsLocal = "20060102T150405"
)

var byDay = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// ICSOptions controls calendar export.
type ICSOptions struct {
	// Range bounds the recurrence. A zero Start means the week containing Now;
	// a zero End repeats forever.
	Range dateutil.DateRange
	Now   time.Time
}

// BuildCalendar turns every timed item into a weekly recurring event.
// Items without times or days cannot recur and are returned as skipped.
func BuildCalendar(s schedule.Schedule, opts ICSOptions) (*ics.Calendar, []schedule.Item) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	from := opts.Range.Start
	if from.IsZero() {
		from, _ = dateutil.WeekRange(now)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if s.Name != "" {
		cal.SetXWRCalName(s.Name)
	}

	var skipped []schedule.Item
	for _, it := range s.Items() {
		start, end, err := it.Range()
		if err != nil || len(it.RepeatDays) == 0 {
			skipped = append(skipped, it)
			continue
		}

		first := firstOccurrence(from, it.RepeatDays)
		evt := cal.AddEvent(eventUID(s, it))
		evt.SetDtStampTime(now.UTC())
		evt.SetProperty(ics.ComponentPropertyDtStart, dateutil.At(first, int(start)).Format(icsLocal))
		evt.SetProperty(ics.ComponentPropertyDtEnd, dateutil.At(first, int(end)).Format(icsLocal))
		evt.AddRrule(rrule(it.RepeatDays, opts.Range))
		evt.SetSummary(summaryOf(it))
		if desc := descriptionOf(it); desc != "" {
			evt.SetDescription(desc)
		}
		if it.Location != "" {
			evt.SetLocation(it.Location)
		}
	}
	return cal, skipped
}

// WriteICS writes s as an iCalendar document.
func WriteICS(w io.Writer, s schedule.Schedule, opts ICSOptions) ([]schedule.Item, error) {
	cal, skipped := BuildCalendar(s, opts)
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return nil, fmt.Errorf("writing calendar: %w", err)
	}
	return skipped, nil
}

func firstOccurrence(from time.Time, days []schedule.Day) time.Time {
	var first time.Time
	for _, d := range days {
		next := dateutil.OnOrAfter(from, d.Weekday())
		if first.IsZero() || next.Before(first) {
			first = next
		}
	}
	return first
}

func rrule(days []schedule.Day, r dateutil.DateRange) string {
	codes := make([]string, 0, len(days))
	for _, d := range schedule.SortDays(days) {
		codes = append(codes, byDay[d.Weekday()])
	}
	rule := "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
	if !r.OpenEnded() {
		rule += ";UNTIL=" + dateutil.At(r.End, 23*60+59).Format(icsLocal)
	}
	return rule
}

func eventUID(s schedule.Schedule, it schedule.Item) string {
	id := it.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", it.Kind, it.Index)
	}
	if s.ID != 0 {
		return fmt.Sprintf("%d-%s@%s", s.ID, id, uidDomain)
	}
	return id + "@" + uidDomain
}

func summaryOf(it schedule.Item) string {
	if it.Kind == schedule.KindCourse && it.CourseID != "" && it.Title != "" && it.Title != it.CourseID {
		return it.CourseID + " " + it.Title
	}
	return it.Label()
}

func descriptionOf(it schedule.Item) string {
	var parts []string
	if it.Instructor != "" {
		parts = append(parts, "Instructor: "+it.Instructor)
	}
	if it.Difficulty > 0 {
		parts = append(parts, fmt.Sprintf("Difficulty: %d (%s)", it.Difficulty, schedule.RatingLabel(float64(it.Difficulty))))
	}
	return strings.Join(parts, "\n")
}
