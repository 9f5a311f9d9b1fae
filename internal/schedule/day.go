package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Day is a weekday name as used on the wire ("Monday" ... "Sunday").
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// AllDays lists the week starting on Monday.
var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays lists Monday through Friday.
var Weekdays = AllDays[:5]

// ParseDay accepts full or three-letter day names in any case.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for _, d := range AllDays {
			name := strings.ToLower(string(d))
			if s == name || s == name[:3] {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("%w: unknown day %q", ErrFormat, s)
}

// Index returns 0 for Monday through 6 for Sunday, or -1 for an unknown day.
func (d Day) Index() int {
	return slices.Index(AllDays, d)
}

// Valid reports whether d is one of the seven weekday names.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Short returns the three-letter abbreviation.
func (d Day) Short() string {
	if len(d) < 3 {
		return string(d)
	}
	return string(d[:3])
}

// Weekday converts to the standard library weekday.
func (d Day) Weekday() time.Weekday {
	return time.Weekday((d.Index() + 1) % 7)
}

// DayFromWeekday converts a standard library weekday to a Day.
func DayFromWeekday(w time.Weekday) Day {
	return AllDays[(int(w)+6)%7]
}

// SortDays deduplicates days, drops unknown names and orders Monday first.
func SortDays(days []Day) []Day {
	seen := make(map[Day]bool, len(days))
	out := make([]Day, 0, len(days))
	for _, d := range days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Day) int { return a.Index() - b.Index() })
	return out
}

// ParseDays parses a comma or space separated day list such as "Mon,Wed".
func ParseDays(s string) ([]Day, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	days := make([]Day, 0, len(fields))
	for _, f := range fields {
		d, err := ParseDay(f)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return SortDays(days), nil
}
