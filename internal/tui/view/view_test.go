package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/summary"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{name: "fits", in: "short line", width: 20, want: []string{"short line"}},
		{name: "breaks at spaces", in: "one two three four", width: 9, want: []string{"one two", "three", "four"}},
		{name: "long word is split", in: "abcdefghij", width: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "empty", in: "   ", width: 5, want: []string{""}},
		{name: "wide runes", in: "日本語 テキスト", width: 6, want: []string{"日本語", "テキス", "ト"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.in, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestOverlay_CentersModal(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 5)
	base = strings.TrimSuffix(base, "\n")

	out := Overlay(base, "AB\nCD", 10, 5, lipgloss.Color(""))
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if got := ansi.Strip(lines[0]); got != ".........." {
		t.Errorf("line 0 = %q, want base untouched", got)
	}
	if got := ansi.Strip(lines[1]); got != "....AB...." {
		t.Errorf("line 1 = %q, want modal centered", got)
	}
	if got := ansi.Strip(lines[2]); got != "....CD...." {
		t.Errorf("line 2 = %q", got)
	}
}

func TestOverlay_NoModal(t *testing.T) {
	if got := Overlay("base", "", 10, 5, lipgloss.Color("")); got != "base" {
		t.Errorf("Overlay with empty modal = %q, want base", got)
	}
}

func TestSummaryLines(t *testing.T) {
	s := schedule.Schedule{
		Name: "Fall",
		Courses: []schedule.Course{{
			ItemBase:    schedule.ItemBase{RepeatDays: []schedule.Day{schedule.Monday, schedule.Wednesday}, StartTime: "09:10", EndTime: "10:05"},
			CourseID:    "CSE 2221",
			CreditHours: 4,
		}},
	}
	ws := summary.SummarizeWeek(time.Date(2025, 9, 3, 12, 0, 0, 0, time.Local), s)
	text := PlainText(SummaryLines(ws))

	for _, want := range []string{"Sep 1", "Monday", "1 course, 0 events", "Free weekdays: Tuesday, Thursday, Friday", "not analyzed"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestSummaryLines_Empty(t *testing.T) {
	ws := summary.SummarizeWeek(time.Date(2025, 9, 3, 12, 0, 0, 0, time.Local), schedule.Schedule{})
	if text := PlainText(SummaryLines(ws)); !strings.Contains(text, "Nothing scheduled") {
		t.Errorf("empty summary = %q", text)
	}
}

func TestDetailLines(t *testing.T) {
	it := schedule.Item{
		ItemBase:   schedule.ItemBase{Title: "Software I", RepeatDays: []schedule.Day{schedule.Friday, schedule.Monday}, StartTime: "09:10", EndTime: "10:05"},
		Kind:       schedule.KindCourse,
		CourseID:   "CSE 2221",
		Instructor: "Ng",
		Difficulty: 70,
	}
	gym := schedule.Item{ItemBase: schedule.ItemBase{Title: "Gym", StartTime: "09:30", EndTime: "10:00"}, Kind: schedule.KindEvent}

	text := PlainText(DetailLines(it, []schedule.Item{gym}))
	for _, want := range []string{"Software I", "Ng", "Mon Fri 09:10-10:05 (55m)", "Difficulty 70 (Challenging)", "OVERLAPS", "Gym 09:30-10:00"} {
		if !strings.Contains(text, want) {
			t.Errorf("details missing %q:\n%s", want, text)
		}
	}
}

func TestRenderButtons(t *testing.T) {
	out := ansi.Strip(RenderButtons(ModalStyles{}, "[y] Keep", "[n] Cancel"))
	if out != " [y] Keep   [n] Cancel " {
		t.Errorf("RenderButtons = %q", out)
	}
}
