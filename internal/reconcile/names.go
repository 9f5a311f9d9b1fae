package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Name check errors.
var (
	ErrEmptyName   = errors.New("schedule name cannot be empty")
	ErrGenericName = errors.New("schedule name is a placeholder")
)

var genericNames = []string{"untitled schedule", "my new schedule", "new schedule", "schedule"}

// IsGenericName reports whether name is one of the placeholder names.
func IsGenericName(name string) bool {
	return slices.Contains(genericNames, strings.ToLower(strings.TrimSpace(name)))
}

// ConfirmFunc asks the user whether to keep a placeholder name.
type ConfirmFunc func(name string) bool

// CheckName validates a schedule name before saving. A name used by another
// schedule (trimmed, case-insensitive) is a conflict. A placeholder name is
// accepted only if confirm returns true; a nil confirm declines. A declined
// placeholder is reported as both ErrGenericName and schedule.ErrConflict.
func CheckName(s schedule.Schedule, existing []schedule.Schedule, confirm ConfirmFunc) error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ErrEmptyName
	}
	for _, other := range existing {
		if sameSchedule(s, other) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(other.Name), name) {
			return fmt.Errorf("%w: a schedule named %q already exists", schedule.ErrConflict, other.Name)
		}
	}
	if IsGenericName(name) && (confirm == nil || !confirm(name)) {
		return fmt.Errorf("%w: %w: %q", schedule.ErrConflict, ErrGenericName, name)
	}
	return nil
}

func sameSchedule(a, b schedule.Schedule) bool {
	if a.LocalID != 0 && a.LocalID == b.LocalID {
		return true
	}
	return a.ID != 0 && a.ID == b.ID
}
