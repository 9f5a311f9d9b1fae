package export

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// ErrNoEvents is returned when a calendar has no usable weekly events.
var ErrNoEvents = errors.New("calendar has no events that fit a weekly schedule")

// courseIDPattern matches catalog ids such as "CSE 2221" or "MATH1151".
var courseIDPattern = regexp.MustCompile(`^([A-Z]{2,5})\s?(\d{4}[A-Z]?)\b`)

var dayCodes = map[string]schedule.Day{
	"MO": schedule.Monday,
	"TU": schedule.Tuesday,
	"WE": schedule.Wednesday,
	"TH": schedule.Thursday,
	"FR": schedule.Friday,
	"SA": schedule.Saturday,
	"SU": schedule.Sunday,
}

var icsLayouts = []string{"20060102T150405Z", "20060102T150405", "20060102"}

// Imported holds the items read from a calendar. Ids and colors are left
// for the editing session to assign.
type Imported struct {
	Courses []schedule.Course
	Events  []schedule.Event
	Skipped []string // summaries of VEVENTs that could not be mapped
}

// ImportICS reads VEVENTs from r. Events whose summary starts with a course
// id become courses; everything else becomes an event. Recurring events use
// the RRULE BYDAY list; one-off events repeat on their own weekday. Events
// with the same summary and times are merged.
func ImportICS(r io.Reader) (Imported, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return Imported{}, fmt.Errorf("parsing calendar: %w", err)
	}

	var out Imported
	seen := make(map[string]int) // merge key -> index into out.Courses or out.Events
	for _, evt := range cal.Events() {
		title := propValue(evt, ics.ComponentPropertySummary)
		if title == "" {
			continue
		}
		base, err := itemFromEvent(evt)
		if err != nil {
			out.Skipped = append(out.Skipped, title)
			continue
		}
		base.Title = title

		key := strings.ToLower(title) + "|" + base.StartTime + "|" + base.EndTime
		if m := courseIDPattern.FindStringSubmatch(strings.ToUpper(title)); m != nil {
			if i, ok := seen["c:"+key]; ok {
				out.Courses[i].RepeatDays = mergeDays(out.Courses[i].RepeatDays, base.RepeatDays)
				continue
			}
			c := schedule.Course{ItemBase: base, CourseID: m[1] + " " + m[2]}
			c.Title = strings.TrimSpace(title[len(m[0]):])
			if c.Title == "" {
				c.Title = title
			}
			c.Instructor = instructorFrom(propValue(evt, ics.ComponentPropertyDescription))
			seen["c:"+key] = len(out.Courses)
			out.Courses = append(out.Courses, c)
			continue
		}

		if i, ok := seen["e:"+key]; ok {
			out.Events[i].RepeatDays = mergeDays(out.Events[i].RepeatDays, base.RepeatDays)
			continue
		}
		e := schedule.Event{
			ItemBase:    base,
			Description: propValue(evt, ics.ComponentPropertyDescription),
			Location:    propValue(evt, ics.ComponentPropertyLocation),
		}
		seen["e:"+key] = len(out.Events)
		out.Events = append(out.Events, e)
	}

	if len(out.Courses) == 0 && len(out.Events) == 0 {
		return out, ErrNoEvents
	}
	return out, nil
}

func itemFromEvent(evt *ics.VEvent) (schedule.ItemBase, error) {
	start, err := eventTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return schedule.ItemBase{}, err
	}
	end, err := eventTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		return schedule.ItemBase{}, err
	}
	if end.YearDay() != start.YearDay() || !end.After(start) {
		return schedule.ItemBase{}, fmt.Errorf("%w: event does not fit within one day", schedule.ErrInvalidRange)
	}

	days := []schedule.Day{schedule.DayFromWeekday(start.Weekday())}
	if rule := propValue(evt, ics.ComponentPropertyRrule); rule != "" {
		if fromRule := ruleDays(rule); len(fromRule) > 0 {
			days = fromRule
		}
	}

	return schedule.ItemBase{
		RepeatDays: schedule.SortDays(days),
		StartTime:  start.Format("15:04"),
		EndTime:    end.Format("15:04"),
	}, nil
}

func eventTime(evt *ics.VEvent, prop ics.ComponentProperty) (time.Time, error) {
	p := evt.GetProperty(prop)
	if p == nil {
		return time.Time{}, fmt.Errorf("missing %s", prop)
	}
	for _, layout := range icsLayouts {
		t, err := time.Parse(layout, p.Value)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			t = t.In(time.Local)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s %q", schedule.ErrFormat, prop, p.Value)
}

func ruleDays(rule string) []schedule.Day {
	var days []schedule.Day
	for _, part := range strings.Split(rule, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok || !strings.EqualFold(k, "BYDAY") {
			continue
		}
		for _, code := range strings.Split(v, ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			// Drop ordinal prefixes like "1MO".
			if len(code) > 2 {
				code = code[len(code)-2:]
			}
			if d, ok := dayCodes[code]; ok {
				days = append(days, d)
			}
		}
	}
	return days
}

func mergeDays(a, b []schedule.Day) []schedule.Day {
	out := append([]schedule.Day{}, a...)
	for _, d := range b {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return schedule.SortDays(out)
}

func instructorFrom(desc string) string {
	desc = strings.ReplaceAll(desc, `\n`, "\n")
	for _, line := range strings.Split(desc, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Instructor:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func propValue(evt *ics.VEvent, prop ics.ComponentProperty) string {
	p := evt.GetProperty(prop)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}
