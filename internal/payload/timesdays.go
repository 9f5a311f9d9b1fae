package payload

import (
	"regexp"
	"strings"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Defaults used when a composite string carries no time range.
const (
	DefaultStart = "08:00"
	DefaultEnd   = "09:00"
)

var rangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})-(\d{1,2}:\d{2})`)

// ParseTimesDays splits a legacy composite string such as
// "Monday, Wednesday 10:00-11:30" into repeat days and a padded time range.
// Day names are found by substring containment in the text before the range,
// so order and separators do not matter.
func ParseTimesDays(s string) (days []schedule.Day, start, end string) {
	days = []schedule.Day{}
	start, end = DefaultStart, DefaultEnd
	if strings.TrimSpace(s) == "" {
		return days, start, end
	}

	prefix := s
	if loc := rangePattern.FindStringSubmatchIndex(s); loc != nil {
		start = padStart(s[loc[2]:loc[3]])
		end = padStart(s[loc[4]:loc[5]])
		prefix = s[:loc[0]]
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return days, start, end
	}
	for _, d := range schedule.AllDays {
		if strings.Contains(prefix, string(d)) {
			days = append(days, d)
		}
	}
	return days, start, end
}

// padStart left-pads "9:00" to "09:00".
func padStart(t string) string {
	if len(t) < 5 {
		return strings.Repeat("0", 5-len(t)) + t
	}
	return t
}

// FormatTimesDays builds the legacy composite string, or "start-end" when
// there are no repeat days.
func FormatTimesDays(days []schedule.Day, start, end string) string {
	if len(days) == 0 {
		return start + "-" + end
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = string(d)
	}
	return strings.Join(names, ", ") + " " + start + "-" + end
}
