package payload

import (
	"encoding/json"
	"fmt"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// SavePayload is the legacy body used to create or update a schedule.
type SavePayload struct {
	ScheduleID int64            `json:"scheduleId,omitempty"`
	Name       string           `json:"name"`
	Favorite   bool             `json:"favorite"`
	Items      []LegacyItem     `json:"items"`
	Activities []LegacyActivity `json:"activities"`
}

// ToSavePayload encodes a schedule in the legacy save shape. The remote id is
// included when the schedule has been persisted before.
func ToSavePayload(s schedule.Schedule) SavePayload {
	p := SavePayload{
		ScheduleID: s.ID,
		Name:       s.Name,
		Favorite:   s.Favorite,
		Items:      make([]LegacyItem, 0, len(s.Courses)),
		Activities: make([]LegacyActivity, 0, len(s.Events)),
	}
	for _, c := range s.Courses {
		p.Items = append(p.Items, LegacyItem{
			CourseID:    c.CourseID,
			TimesDays:   FormatTimesDays(c.RepeatDays, c.StartTime, c.EndTime),
			TeacherName: c.Instructor,
		})
	}
	for _, e := range s.Events {
		p.Activities = append(p.Activities, LegacyActivity{
			Description: e.Title,
			TimesDays:   FormatTimesDays(e.RepeatDays, e.StartTime, e.EndTime),
		})
	}
	return p
}

// ToCurrentRecord encodes a schedule in the structured shape.
func ToCurrentRecord(s schedule.Schedule) CurrentRecord {
	c := s.Clone()
	return CurrentRecord{
		ID:              FlexID(c.ID),
		Name:            c.Name,
		Favorite:        c.Favorite,
		Courses:         c.Courses,
		Events:          c.Events,
		DifficultyScore: c.DifficultyScore,
		WeeklyHours:     c.WeeklyHours,
		CreditHours:     c.CreditHours,
		Campus:          c.Campus,
		Term:            c.Term,
	}
}

// GenerateRequest is the body of a generation call.
type GenerateRequest struct {
	Courses     []schedule.Course `json:"courses"`
	Term        string            `json:"term"`
	Campus      string            `json:"campus"`
	Events      []schedule.Event  `json:"events"`
	Preferences string            `json:"preferences,omitempty"`
}

// NewGenerateRequest stamps every course with the chosen term and campus.
// Courses that already carry times are treated as locked by the backend.
func NewGenerateRequest(s schedule.Schedule, term, campus, preferences string) GenerateRequest {
	c := s.Clone()
	for i := range c.Courses {
		c.Courses[i].Term = term
		c.Courses[i].Campus = campus
	}
	return GenerateRequest{
		Courses:     c.Courses,
		Term:        term,
		Campus:      campus,
		Events:      c.Events,
		Preferences: preferences,
	}
}

// AnalyzeRequest is the body of an analysis call.
type AnalyzeRequest struct {
	Schedules   []CurrentRecord `json:"schedules"`
	Preferences string          `json:"preferences,omitempty"`
}

// NewAnalyzeRequest wraps schedules for analysis.
func NewAnalyzeRequest(preferences string, schedules ...schedule.Schedule) AnalyzeRequest {
	req := AnalyzeRequest{Preferences: preferences, Schedules: make([]CurrentRecord, len(schedules))}
	for i, s := range schedules {
		req.Schedules[i] = ToCurrentRecord(s)
	}
	return req
}

// GenerateResponse holds the candidate schedules of a generation call.
type GenerateResponse struct {
	Schedules []json.RawMessage `json:"schedules"`
}

// DecodeGenerated normalizes every candidate in a generation response.
// Malformed candidates are skipped and reported.
func DecodeGenerated(body []byte) ([]schedule.Schedule, []error) {
	var resp GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, []error{fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	var (
		out  []schedule.Schedule
		errs []error
	)
	for i, raw := range resp.Schedules {
		rec, err := Decode(raw)
		if err != nil {
			errs = append(errs, &RecordError{Index: i, Err: err})
			continue
		}
		out = append(out, Normalize(rec))
	}
	return out, errs
}
