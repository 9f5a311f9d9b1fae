package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is minutes since midnight, 0 through 1439.
type TimeOfDay int

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return FormatTime(t)
}

// ParseTime converts "H:MM" or "HH:MM" to minutes since midnight.
// Returns ErrFormat for anything else, including out of range hours or minutes.
func ParseTime(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 || !isDigits(h) {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 || !isDigits(m) {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return TimeOfDay(hours*60 + mins), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatTime converts minutes since midnight to "HH:MM", clamping to the day.
func FormatTime(t TimeOfDay) string {
	m := int(t)
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// PadTime normalizes "9:00" to "09:00". Invalid input is returned unchanged.
func PadTime(s string) string {
	t, err := ParseTime(s)
	if err != nil {
		return s
	}
	return FormatTime(t)
}

// Duration returns end minus start in minutes.
// Returns ErrInvalidRange when end is not after start.
func Duration(start, end TimeOfDay) (int, error) {
	if end <= start {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}
	return int(end - start), nil
}

// SpanInSlots returns how many grid slots a range covers, rounding up.
// A valid range always covers at least one slot.
func SpanInSlots(start, end TimeOfDay, slotMinutes int) (int, error) {
	if slotMinutes <= 0 {
		return 0, fmt.Errorf("%w: slot length %d", ErrInvalidRange, slotMinutes)
	}
	d, err := Duration(start, end)
	if err != nil {
		return 0, err
	}
	return max(1, (d+slotMinutes-1)/slotMinutes), nil
}

// ParseRange parses both ends of a time range and checks their order.
func ParseRange(start, end string) (TimeOfDay, TimeOfDay, error) {
	s, err := ParseTime(start)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	e, err := ParseTime(end)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	if _, err := Duration(s, e); err != nil {
		return 0, 0, err
	}
	return s, e, nil
}

// Overlaps reports whether two items meet on a shared day at intersecting
// times. Two ranges overlap if start1 < end2 and start2 < end1.
// Untimed or invalid items never overlap.
func Overlaps(a, b ItemBase) bool {
	as, ae, err := a.Range()
	if err != nil {
		return false
	}
	bs, be, err := b.Range()
	if err != nil {
		return false
	}
	if as >= be || bs >= ae {
		return false
	}
	for _, d := range a.RepeatDays {
		if b.OccursOn(d) {
			return true
		}
	}
	return false
}

// FormatMinutes renders a duration such as 90 as "1h30m".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
