package llm

import (
	"fmt"
	"strings"

	"github.com/CSE5914-Group99/schedule-planner/internal/payload"
	"github.com/CSE5914-Group99/schedule-planner/internal/reconcile"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// ValidationError describes one problem with a recommended alteration.
type ValidationError struct {
	Alteration int    // index in the response
	Field      string // wire field name, or "overlap"
	Message    string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("Alteration %d: %s - %s", e.Alteration, e.Field, e.Message)
}

// ValidationResult contains the result of validating a recommendation.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns the errors as feedback for the model.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Your response had these errors:\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "- %s\n", e.String())
	}
	b.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return b.String()
}

// InvalidAlterations returns the indexes that had at least one error.
func (r ValidationResult) InvalidAlterations() map[int]bool {
	bad := make(map[int]bool, len(r.Errors))
	for _, e := range r.Errors {
		bad[e.Alteration] = true
	}
	return bad
}

// AlterationValidator checks recommended alterations against a schedule.
type AlterationValidator struct {
	current schedule.Schedule
}

// NewAlterationValidator creates a validator for alterations of s.
func NewAlterationValidator(s schedule.Schedule) *AlterationValidator {
	return &AlterationValidator{current: s.Clone()}
}

// Validate checks that each alteration:
//   - has a name and a confidence between 0 and 1
//   - removes only classes present in the schedule
//   - adds classes with ids, valid time slots and known weekdays
//   - does not overlap what remains of the schedule or itself
func (v *AlterationValidator) Validate(alts []payload.AlterationWire) ValidationResult {
	result := ValidationResult{Valid: true}
	add := func(i int, field, msg string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Alteration: i,
			Field:      field,
			Message:    fmt.Sprintf(msg, args...),
		})
	}

	if len(alts) == 0 {
		add(0, "alterations", "at least one alteration is required")
		return result
	}

	for i, a := range alts {
		if strings.TrimSpace(a.Name) == "" {
			add(i, "alteration_name", "name is required")
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			add(i, "confidence", "%.2f is outside 0..1", a.Confidence)
		}

		removed := make(map[string]bool)
		for _, label := range a.ClassesToRemove {
			key := reconcile.RemovalKey(label)
			if !v.current.HasCourse(key) {
				add(i, "classes_to_remove", "%q is not in the schedule", label)
				continue
			}
			removed[key] = true
		}

		remaining := v.remainingItems(removed)
		var placed []schedule.ItemBase
		for j, cls := range a.ClassesToAdd {
			id := strings.TrimSpace(cls.ClassID)
			if id == "" {
				add(i, "classes_to_add", "class %d has no class_id", j)
				continue
			}
			if v.current.HasCourse(id) && !removed[id] {
				add(i, "classes_to_add", "%s is already in the schedule", id)
			}
			for k, slot := range cls.TimeSlots {
				item, err := slotItem(slot)
				if err != nil {
					add(i, "time_slots", "%s slot %d: %v", id, k, err)
					continue
				}
				for _, other := range remaining {
					if schedule.Overlaps(item, other.ItemBase) {
						add(i, "overlap", "%s %s conflicts with %s (%s-%s)",
							id, meeting(item), other.Label(), other.StartTime, other.EndTime)
					}
				}
				for _, p := range placed {
					if schedule.Overlaps(item, p) {
						add(i, "overlap", "%s %s conflicts with %s", id, meeting(item), p.Title)
					}
				}
				item.Title = id
				placed = append(placed, item)
			}
		}
	}

	return result
}

func (v *AlterationValidator) remainingItems(removed map[string]bool) []schedule.Item {
	var out []schedule.Item
	for _, it := range v.current.Items() {
		if it.Kind == schedule.KindCourse && removed[it.CourseID] {
			continue
		}
		out = append(out, it)
	}
	return out
}

func slotItem(slot payload.TimeSlot) (schedule.ItemBase, error) {
	item := schedule.ItemBase{
		StartTime: schedule.PadTime(slot.StartTime),
		EndTime:   schedule.PadTime(slot.EndTime),
	}
	if _, _, err := item.Range(); err != nil {
		return item, err
	}
	if len(slot.RepeatDays) == 0 {
		return item, fmt.Errorf("repeat_days is empty")
	}
	for _, name := range slot.RepeatDays {
		d, err := schedule.ParseDay(name)
		if err != nil {
			return item, fmt.Errorf("unknown day %q", name)
		}
		item.RepeatDays = append(item.RepeatDays, d)
	}
	item.RepeatDays = schedule.SortDays(item.RepeatDays)
	return item, nil
}
