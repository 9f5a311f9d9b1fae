package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func testSchedule() schedule.Schedule {
	return schedule.Schedule{
		Name: "Fall plan",
		Courses: []schedule.Course{
			{
				ItemBase: schedule.ItemBase{
					Title:      "Software I",
					RepeatDays: []schedule.Day{schedule.Monday, schedule.Wednesday, schedule.Friday},
					StartTime:  "09:10",
					EndTime:    "10:05",
				},
				CourseID:    "CSE 2221",
				CreditHours: 4,
			},
			{
				ItemBase: schedule.ItemBase{
					Title:      "Calculus",
					RepeatDays: []schedule.Day{schedule.Monday, schedule.Tuesday},
					StartTime:  "12:40",
					EndTime:    "14:00",
				},
				CourseID:    "MATH 1151",
				CreditHours: 5,
			},
			{
				ItemBase: schedule.ItemBase{Title: "Online elective"},
				CourseID: "ENGL 1110",
			},
		},
		Events: []schedule.Event{
			{ItemBase: schedule.ItemBase{
				Title:      "Work",
				RepeatDays: []schedule.Day{schedule.Saturday},
				StartTime:  "10:00",
				EndTime:    "14:00",
			}},
		},
	}
}

func TestSummarizeWeek(t *testing.T) {
	ref := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local) // Wednesday
	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)
	sunday := time.Date(2025, 1, 19, 0, 0, 0, 0, time.Local)

	w := SummarizeWeek(ref, testSchedule())

	if !w.Start.Equal(monday) {
		t.Fatalf("start = %v, want %v", w.Start, monday)
	}
	if !w.End.Equal(sunday) {
		t.Fatalf("end = %v, want %v", w.End, sunday)
	}
	if w.Counts != "3 courses, 1 event" {
		t.Errorf("counts = %q", w.Counts)
	}
	if len(w.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(w.Days))
	}

	mon := w.Days[0]
	if mon.Minutes != 55+80 || mon.Items != 2 {
		t.Errorf("monday = %+v", mon)
	}
	if mon.First != "09:10" || mon.Last != "14:00" {
		t.Errorf("monday span = %s-%s", mon.First, mon.Last)
	}
	if w.Days[3].Items != 0 {
		t.Errorf("thursday should be free, got %+v", w.Days[3])
	}

	// 3x55 + 2x80 + 240
	if w.TotalMinutes != 565 {
		t.Errorf("total minutes = %d, want 565", w.TotalMinutes)
	}
	if w.CreditHours != 9 {
		t.Errorf("credit hours = %v, want 9", w.CreditHours)
	}
	if len(w.Untimed) != 1 || w.Untimed[0] != "ENGL 1110" {
		t.Errorf("untimed = %v", w.Untimed)
	}
	if w.Analyzed() || w.Band != "" {
		t.Errorf("unanalyzed schedule has band %q", w.Band)
	}

	busiest, ok := w.Busiest()
	if !ok || busiest.Day != schedule.Saturday {
		t.Errorf("busiest = %+v, %v", busiest, ok)
	}
	free := w.FreeDays()
	if len(free) != 1 || free[0] != schedule.Thursday {
		t.Errorf("free days = %v", free)
	}
}

func TestSummarizeWeek_Analyzed(t *testing.T) {
	s := testSchedule()
	s.DifficultyScore = 78
	s.CreditHours = 12

	w := SummarizeWeek(time.Now(), s)
	if w.Band != schedule.BandLightRed {
		t.Errorf("band = %s, want light-red", w.Band)
	}
	if w.Label != "Challenging" {
		t.Errorf("label = %s", w.Label)
	}
	if w.CreditHours != 12 {
		t.Errorf("backend credit hours should win, got %v", w.CreditHours)
	}
}

func TestSummarizeWeek_Empty(t *testing.T) {
	w := SummarizeWeek(time.Now(), schedule.Schedule{Name: "Blank"})
	if w.Counts != "Empty schedule" {
		t.Errorf("counts = %q", w.Counts)
	}
	if _, ok := w.Busiest(); ok {
		t.Error("empty week has no busiest day")
	}
	if len(w.FreeDays()) != 5 {
		t.Errorf("free days = %v", w.FreeDays())
	}
}

type stubAdvisor struct {
	text  string
	err   error
	calls int
}

func (a *stubAdvisor) Assess(context.Context, schedule.Schedule) (string, error) {
	a.calls++
	return a.text, a.err
}

func TestBuildWeekSummary(t *testing.T) {
	ctx := context.Background()

	w, err := BuildWeekSummary(ctx, testSchedule(), time.Time{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Insight != "" {
		t.Errorf("insight without advisor: %q", w.Insight)
	}

	adv := &stubAdvisor{text: "Mondays are heavy."}
	w, err = BuildWeekSummary(ctx, testSchedule(), time.Now(), adv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Insight != "Mondays are heavy." {
		t.Errorf("insight = %q", w.Insight)
	}

	// Empty schedules skip the model.
	_, err = BuildWeekSummary(ctx, schedule.Schedule{}, time.Now(), adv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.calls != 1 {
		t.Errorf("advisor calls = %d, want 1", adv.calls)
	}

	failing := &stubAdvisor{err: errors.New("offline")}
	if _, err := BuildWeekSummary(ctx, testSchedule(), time.Now(), failing); err == nil {
		t.Error("expected advisor error")
	}
}
