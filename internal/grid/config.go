// Package grid maps schedule items onto a weekly day by time-slot grid.
package grid

import (
	"errors"
	"fmt"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Config errors.
var (
	ErrInvalidHours = errors.New("grid hours must satisfy 0 <= start <= end <= 23")
	ErrInvalidSlot  = errors.New("slot length must be a positive divisor of 60 or a multiple of 60")
	ErrNoDays       = errors.New("grid needs at least one visible day")
)

const (
	// DefaultStartHour is the first hour shown.
	DefaultStartHour = 8
	// DefaultEndHour is the last hour shown (inclusive).
	DefaultEndHour = 20
	// DefaultSlotMinutes is the row height in minutes.
	DefaultSlotMinutes = 60
)

// Config describes the visible grid window.
type Config struct {
	StartHour   int
	EndHour     int // inclusive: a slot starts at EndHour:00
	SlotMinutes int
	Days        []schedule.Day
}

// DefaultConfig returns an 8:00 to 20:00 hourly grid over Monday through Friday.
func DefaultConfig() Config {
	return Config{
		StartHour:   DefaultStartHour,
		EndHour:     DefaultEndHour,
		SlotMinutes: DefaultSlotMinutes,
		Days:        append([]schedule.Day{}, schedule.Weekdays...),
	}
}

// WithWeekend returns a copy showing all seven days, or only weekdays.
func (c Config) WithWeekend(show bool) Config {
	if show {
		c.Days = append([]schedule.Day{}, schedule.AllDays...)
	} else {
		c.Days = append([]schedule.Day{}, schedule.Weekdays...)
	}
	return c
}

// ShowsWeekend reports whether Saturday or Sunday is visible.
func (c Config) ShowsWeekend() bool {
	for _, d := range c.Days {
		if d == schedule.Saturday || d == schedule.Sunday {
			return true
		}
	}
	return false
}

// Validate checks the grid window.
func (c Config) Validate() error {
	if c.StartHour < 0 || c.EndHour > 23 || c.StartHour > c.EndHour {
		return fmt.Errorf("%w: %d-%d", ErrInvalidHours, c.StartHour, c.EndHour)
	}
	if c.SlotMinutes <= 0 || (60%c.SlotMinutes != 0 && c.SlotMinutes%60 != 0) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, c.SlotMinutes)
	}
	if len(c.Days) == 0 {
		return ErrNoDays
	}
	return nil
}

// Slots returns the start time of every row, from StartHour:00 up to and
// including EndHour:00.
func (c Config) Slots() []schedule.TimeOfDay {
	if c.SlotMinutes <= 0 {
		return nil
	}
	first := schedule.TimeOfDay(c.StartHour * 60)
	last := schedule.TimeOfDay(c.EndHour * 60)
	var out []schedule.TimeOfDay
	for t := first; t <= last; t += schedule.TimeOfDay(c.SlotMinutes) {
		out = append(out, t)
	}
	return out
}

// windowEnd is the minute after the last row ends.
func (c Config) windowEnd() schedule.TimeOfDay {
	return schedule.TimeOfDay(c.EndHour*60 + c.SlotMinutes)
}

// RowOf returns the row whose slot contains t, or -1 outside the window.
func (c Config) RowOf(t schedule.TimeOfDay) int {
	first := schedule.TimeOfDay(c.StartHour * 60)
	if c.SlotMinutes <= 0 || t < first || t >= c.windowEnd() {
		return -1
	}
	return int(t-first) / c.SlotMinutes
}

// DayColumn returns the column of d, or -1 when d is hidden.
func (c Config) DayColumn(d schedule.Day) int {
	for i, v := range c.Days {
		if v == d {
			return i
		}
	}
	return -1
}
