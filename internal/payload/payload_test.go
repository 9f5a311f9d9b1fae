package payload

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func TestParseTimesDays(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDays  []schedule.Day
		wantStart string
		wantEnd   string
	}{
		{
			name:      "two days",
			input:     "Monday, Wednesday 10:00-11:30",
			wantDays:  []schedule.Day{schedule.Monday, schedule.Wednesday},
			wantStart: "10:00", wantEnd: "11:30",
		},
		{
			name:      "unpadded times",
			input:     "Friday 9:05-9:55",
			wantDays:  []schedule.Day{schedule.Friday},
			wantStart: "09:05", wantEnd: "09:55",
		},
		{
			name:      "days out of order with odd separators",
			input:     "Thursday/Tuesday;  13:00-14:15",
			wantDays:  []schedule.Day{schedule.Tuesday, schedule.Thursday},
			wantStart: "13:00", wantEnd: "14:15",
		},
		{
			name:      "range only",
			input:     "12:00-13:00",
			wantDays:  []schedule.Day{},
			wantStart: "12:00", wantEnd: "13:00",
		},
		{
			name:      "empty uses defaults",
			input:     "",
			wantDays:  []schedule.Day{},
			wantStart: DefaultStart, wantEnd: DefaultEnd,
		},
		{
			name:      "days without range keep default times",
			input:     "Saturday Sunday",
			wantDays:  []schedule.Day{schedule.Saturday, schedule.Sunday},
			wantStart: DefaultStart, wantEnd: DefaultEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, start, end := ParseTimesDays(tt.input)
			if !reflect.DeepEqual(days, tt.wantDays) {
				t.Errorf("days = %v, want %v", days, tt.wantDays)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("range = %s-%s, want %s-%s", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestFormatTimesDaysRoundTrip(t *testing.T) {
	days := []schedule.Day{schedule.Monday, schedule.Friday}
	s := FormatTimesDays(days, "08:00", "09:15")
	if s != "Monday, Friday 08:00-09:15" {
		t.Fatalf("FormatTimesDays = %q", s)
	}
	gotDays, start, end := ParseTimesDays(s)
	if !reflect.DeepEqual(gotDays, days) || start != "08:00" || end != "09:15" {
		t.Errorf("round trip = %v %s-%s", gotDays, start, end)
	}
	if got := FormatTimesDays(nil, "10:00", "11:00"); got != "10:00-11:00" {
		t.Errorf("no days = %q", got)
	}
}

const legacyJSON = `{
	"scheduleId": 42,
	"name": "Spring",
	"is_starred": true,
	"items": [
		{"courseId": "CSE 2331", "timesDays": "Monday, Wednesday 10:00-11:30", "teacherName": "Dr. Smith"},
		{"courseId": "", "times_days": "Tuesday 9:00-9:55", "teacher_name": "Lee"}
	],
	"activities": [
		{"description": "Work", "timesDays": "Friday 17:00-21:00"},
		{"times_days": ""}
	],
	"created_at": "2025-01-10T12:00:00Z"
}`

func TestNormalizeLegacy(t *testing.T) {
	rec, err := Decode([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rec.(LegacyRecord); !ok {
		t.Fatalf("Decode returned %T, want LegacyRecord", rec)
	}

	s := Normalize(rec)
	if s.ID != 42 || s.Name != "Spring" || !s.Favorite {
		t.Errorf("header = %d %q %v", s.ID, s.Name, s.Favorite)
	}
	if s.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
	if len(s.Courses) != 2 || len(s.Events) != 2 {
		t.Fatalf("counts = %d courses, %d events", len(s.Courses), len(s.Events))
	}

	c0 := s.Courses[0]
	if c0.ID != "course-42-0" || c0.Title != "CSE 2331" || c0.Instructor != "Dr. Smith" {
		t.Errorf("course 0 = %+v", c0)
	}
	if c0.Color != schedule.ColorFor(schedule.KindCourse, 0) {
		t.Errorf("course 0 color = %s", c0.Color)
	}
	c1 := s.Courses[1]
	if c1.Title != UntitledCourse || c1.Instructor != "Lee" || c1.StartTime != "09:00" {
		t.Errorf("course 1 = %+v", c1)
	}

	e1 := s.Events[1]
	if e1.ID != "event-42-1" || e1.Title != UntitledEvent {
		t.Errorf("event 1 = %+v", e1)
	}
	if e1.StartTime != DefaultStart || e1.EndTime != DefaultEnd || len(e1.RepeatDays) != 0 {
		t.Errorf("event 1 defaults = %s-%s %v", e1.StartTime, e1.EndTime, e1.RepeatDays)
	}
}

func TestNormalizeCurrent(t *testing.T) {
	raw := `{
		"id": "9",
		"name": "",
		"favorite": false,
		"campus": "Columbus",
		"term": "Autumn 2025",
		"difficultyScore": 72.5,
		"courses": [
			{"id": "keep-me", "courseId": "PHYS 1250", "startTime": "8:00", "endTime": "9:20", "repeatDays": ["Friday", "Monday", "Monday"], "creditHours": 5},
			{"courseId": "MATH 2568"}
		],
		"events": [
			{"title": "Gym", "repeatDays": ["Saturday"], "startTime": "07:00", "endTime": "08:00", "color": "#000000"}
		]
	}`
	rec, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rec.(CurrentRecord); !ok {
		t.Fatalf("Decode returned %T, want CurrentRecord", rec)
	}

	s := Normalize(rec)
	if s.ID != 9 || s.Name != UntitledSchedule || s.Campus != "Columbus" || s.DifficultyScore != 72.5 {
		t.Errorf("header = %+v", s)
	}
	if s.Courses[0].ID != "keep-me" {
		t.Errorf("existing id replaced: %s", s.Courses[0].ID)
	}
	if s.Courses[1].ID != "course-9-1" {
		t.Errorf("derived id = %s", s.Courses[1].ID)
	}
	if s.Courses[0].StartTime != "08:00" {
		t.Errorf("start not padded: %s", s.Courses[0].StartTime)
	}
	want := []schedule.Day{schedule.Monday, schedule.Friday}
	if !reflect.DeepEqual(s.Courses[0].RepeatDays, want) {
		t.Errorf("repeat days = %v", s.Courses[0].RepeatDays)
	}
	if s.Courses[1].Title != "MATH 2568" || s.Courses[1].StartTime != DefaultStart {
		t.Errorf("course 1 = %+v", s.Courses[1])
	}
	if s.Events[0].Color != schedule.ColorFor(schedule.KindEvent, 0) {
		t.Errorf("event color not reassigned: %s", s.Events[0].Color)
	}
	if s.CreditHours != 5 {
		t.Errorf("credit hours = %v", s.CreditHours)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	rec, err := Decode([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	once := Normalize(rec)
	twice := Canonicalize(once)
	thrice := Canonicalize(twice)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("canonicalizing a normalized schedule changed it:\n%+v\n%+v", once, twice)
	}
	if !reflect.DeepEqual(twice, thrice) {
		t.Error("Canonicalize is not idempotent")
	}
}

func TestNormalizeAllPartialSuccess(t *testing.T) {
	raw := `[` + legacyJSON + `, 17, {"name": "Current", "courses": []}]`
	got, errs := NormalizeAll([]byte(raw))
	if len(got) != 2 {
		t.Fatalf("got %d schedules, want 2", len(got))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	var recErr *RecordError
	if !errors.As(errs[0], &recErr) || recErr.Index != 1 {
		t.Errorf("error = %v", errs[0])
	}
	if !errors.Is(errs[0], ErrMalformed) {
		t.Errorf("error does not wrap ErrMalformed: %v", errs[0])
	}
	if got[1].Name != "Current" {
		t.Errorf("second schedule = %q", got[1].Name)
	}

	if _, errs := NormalizeAll([]byte(`{"not": "array"}`)); len(errs) != 1 {
		t.Errorf("non-array errors = %v", errs)
	}
}

func TestToSavePayload(t *testing.T) {
	s := schedule.Schedule{
		ID:       5,
		Name:     "Plan",
		Favorite: true,
		Courses: []schedule.Course{{
			ItemBase:   schedule.ItemBase{Title: "CSE 2221", RepeatDays: []schedule.Day{schedule.Tuesday}, StartTime: "09:00", EndTime: "10:00"},
			CourseID:   "CSE 2221",
			Instructor: "Ng",
		}},
		Events: []schedule.Event{{ItemBase: schedule.ItemBase{Title: "Club", StartTime: "18:00", EndTime: "19:00"}}},
	}
	p := ToSavePayload(s)
	if p.ScheduleID != 5 || !p.Favorite {
		t.Errorf("header = %+v", p)
	}
	if p.Items[0].TimesDays != "Tuesday 09:00-10:00" || p.Items[0].TeacherName != "Ng" {
		t.Errorf("item = %+v", p.Items[0])
	}
	if p.Activities[0].Description != "Club" || p.Activities[0].TimesDays != "18:00-19:00" {
		t.Errorf("activity = %+v", p.Activities[0])
	}

	body, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := Decode(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := Normalize(back)
	if n.ID != 5 || n.Courses[0].CourseID != "CSE 2221" || n.Events[0].Title != "Club" {
		t.Errorf("re-normalized = %+v", n)
	}

	s.ID = 0
	body, _ = json.Marshal(ToSavePayload(s))
	var m map[string]any
	_ = json.Unmarshal(body, &m)
	if _, ok := m["scheduleId"]; ok {
		t.Error("new schedule payload should not carry scheduleId")
	}
}

func TestNewGenerateRequest(t *testing.T) {
	s := schedule.Schedule{Courses: []schedule.Course{{CourseID: "CSE 3241"}}}
	req := NewGenerateRequest(s, "Autumn 2025", "Columbus", "no fridays")
	if req.Courses[0].Term != "Autumn 2025" || req.Courses[0].Campus != "Columbus" {
		t.Errorf("course not stamped: %+v", req.Courses[0])
	}
	if s.Courses[0].Term != "" {
		t.Error("request building mutated the schedule")
	}
}

func TestDecodeGenerated(t *testing.T) {
	body := `{"schedules": [
		{"name": "Option A", "courses": [{"courseId": "A", "startTime": "09:00", "endTime": "10:00"}], "difficultyScore": 60},
		"oops"
	]}`
	got, errs := DecodeGenerated([]byte(body))
	if len(got) != 1 || len(errs) != 1 {
		t.Fatalf("got %d schedules, %d errors", len(got), len(errs))
	}
	if got[0].DifficultyScore != 60 {
		t.Errorf("score = %v", got[0].DifficultyScore)
	}
}

func TestDecodeAlterations(t *testing.T) {
	body := `{
		"alterations": [{
			"alteration_name": "Swap CSE 2331",
			"description": "Lighter option",
			"classes_to_remove": ["CSE 2331 (Dr. Smith)"],
			"classes_to_add": [{
				"class_id": "CSE 2321",
				"teacher": "Rao",
				"time_slots": [{"start_time": "9:10", "end_time": "10:05", "repeat_days": ["Wednesday", "Monday", "Funday"]}],
				"class_score": {"score": 55.6, "ch": 3, "time_load": 4},
				"why_recommended": "Fits your mornings"
			}],
			"estimated_difficulty_change": -8,
			"confidence": 0.8,
			"warnings": ["waitlist likely"]
		}],
		"overall_summary": "One swap",
		"confidence": 0.75
	}`
	set, err := DecodeAlterations([]byte(body), "Autumn 2025", "Columbus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.OverallSummary != "One swap" || len(set.Alterations) != 1 {
		t.Fatalf("set = %+v", set)
	}
	alt := set.Alterations[0]
	if alt.WhyRecommended != "Fits your mornings" || alt.DifficultyChange != -8 {
		t.Errorf("alteration = %+v", alt)
	}
	c := alt.Add[0]
	if c.CourseID != "CSE 2321" || c.Instructor != "Rao" || c.StartTime != "09:10" {
		t.Errorf("course = %+v", c)
	}
	if !reflect.DeepEqual(c.RepeatDays, []schedule.Day{schedule.Monday, schedule.Wednesday}) {
		t.Errorf("days = %v", c.RepeatDays)
	}
	if c.DifficultyRating != 56 || c.CreditHours != 3 || c.RatingDetails == nil || c.RatingDetails.TimeLoad != 4 {
		t.Errorf("rating = %d %v %+v", c.DifficultyRating, c.CreditHours, c.RatingDetails)
	}
	if c.Term != "Autumn 2025" || c.Campus != "Columbus" {
		t.Errorf("term/campus = %s/%s", c.Term, c.Campus)
	}

	if _, err := DecodeAlterations([]byte(`nope`), "", ""); !errors.Is(err, ErrMalformed) {
		t.Errorf("bad body error = %v", err)
	}
}
