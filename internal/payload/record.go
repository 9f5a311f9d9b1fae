// Package payload converts backend schedule records into the canonical model
// and builds request bodies for the backend.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// ErrMalformed is returned for records that are not JSON objects.
var ErrMalformed = errors.New("malformed schedule record")

// Record is either a LegacyRecord or a CurrentRecord.
type Record interface {
	record()
}

// FlexID accepts ids sent as JSON numbers or numeric strings.
type FlexID int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Non-numeric ids cannot be addressed by the REST API.
		*f = 0
		return nil
	}
	*f = FlexID(n)
	return nil
}

// LegacyItem is a course in the legacy shape.
type LegacyItem struct {
	CourseID         string  `json:"courseId"`
	SectionID        *string `json:"sectionId"`
	TimesDays        string  `json:"timesDays,omitempty"`
	TimesDaysSnake   string  `json:"times_days,omitempty"`
	TeacherName      string  `json:"teacherName,omitempty"`
	TeacherNameSnake string  `json:"teacher_name,omitempty"`
}

// LegacyActivity is an event in the legacy shape.
type LegacyActivity struct {
	Description    string `json:"description"`
	TimesDays      string `json:"timesDays,omitempty"`
	TimesDaysSnake string `json:"times_days,omitempty"`
}

// LegacyRecord is a schedule with items/activities and composite timesDays strings.
type LegacyRecord struct {
	ScheduleID     FlexID           `json:"scheduleId,omitempty"`
	ID             FlexID           `json:"id,omitempty"`
	Name           string           `json:"name"`
	Favorite       bool             `json:"favorite"`
	IsStarred      bool             `json:"is_starred,omitempty"`
	Items          []LegacyItem     `json:"items"`
	Activities     []LegacyActivity `json:"activities"`
	CreatedAt      string           `json:"createdAt,omitempty"`
	CreatedAtSnake string           `json:"created_at,omitempty"`
	UpdatedAt      string           `json:"updatedAt,omitempty"`
	UpdatedAtSnake string           `json:"updated_at,omitempty"`
}

func (LegacyRecord) record() {}

// RemoteID returns scheduleId, falling back to id.
func (r LegacyRecord) RemoteID() int64 {
	if r.ScheduleID != 0 {
		return int64(r.ScheduleID)
	}
	return int64(r.ID)
}

// CurrentRecord is a schedule with structured courses/events.
type CurrentRecord struct {
	ID              FlexID            `json:"id,omitempty"`
	ScheduleID      FlexID            `json:"scheduleId,omitempty"`
	Name            string            `json:"name"`
	Favorite        bool              `json:"favorite"`
	Courses         []schedule.Course `json:"courses"`
	Events          []schedule.Event  `json:"events"`
	DifficultyScore float64           `json:"difficultyScore,omitempty"`
	WeeklyHours     float64           `json:"weeklyHours,omitempty"`
	CreditHours     float64           `json:"creditHours,omitempty"`
	Campus          string            `json:"campus,omitempty"`
	Term            string            `json:"term,omitempty"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

func (CurrentRecord) record() {}

// RemoteID returns id, falling back to scheduleId.
func (r CurrentRecord) RemoteID() int64 {
	if r.ID != 0 {
		return int64(r.ID)
	}
	return int64(r.ScheduleID)
}

// IsLegacy reports whether a raw record uses the items/activities shape.
func IsLegacy(raw []byte) bool {
	res := gjson.ParseBytes(raw)
	return res.Get("items").Exists() || res.Get("activities").Exists()
}

// Decode resolves a raw record into its wire shape.
func Decode(raw []byte) (Record, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrMalformed
	}
	if IsLegacy(raw) {
		var r LegacyRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decoding legacy record: %w", err)
		}
		return r, nil
	}
	var r CurrentRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return r, nil
}

// RecordError reports a record that could not be normalized.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NormalizeAll normalizes a JSON array of records. Records that fail to decode
// are reported and skipped; the rest are returned in order.
func NormalizeAll(raw []byte) ([]schedule.Schedule, []error) {
	if !gjson.ValidBytes(raw) {
		return nil, []error{ErrMalformed}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, []error{fmt.Errorf("%w: expected array", ErrMalformed)}
	}

	var (
		out  []schedule.Schedule
		errs []error
	)
	for i, elem := range root.Array() {
		rec, err := Decode([]byte(elem.Raw))
		if err != nil {
			errs = append(errs, &RecordError{Index: i, Err: err})
			continue
		}
		out = append(out, Normalize(rec))
	}
	return out, errs
}
