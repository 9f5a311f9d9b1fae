package view

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/summary"
)

// LineStyle indicates how a modal line should be styled.
type LineStyle int

const (
	LineBody LineStyle = iota
	LineMeta
	LineSection
)

// Line is a display-ready line for a modal body.
type Line struct {
	Text  string
	Style LineStyle
}

func body(format string, args ...any) Line {
	return Line{Text: fmt.Sprintf(format, args...)}
}

func meta(text string) Line {
	return Line{Text: text, Style: LineMeta}
}

func section(text string) Line {
	return Line{Text: text, Style: LineSection}
}

// SummaryLines builds the week summary modal body.
func SummaryLines(ws *summary.WeekSummary) []Line {
	lines := []Line{
		meta(fmt.Sprintf("%s - %s", ws.Start.Format("Mon Jan 2"), ws.End.Format("Mon Jan 2, 2006"))),
		{},
	}
	if ws.TotalMinutes == 0 && len(ws.Untimed) == 0 {
		return append(lines, body("Nothing scheduled this week."))
	}

	for _, d := range ws.Days {
		if d.Items == 0 {
			lines = append(lines, meta(fmt.Sprintf("%-9s free", d.Day)))
			continue
		}
		lines = append(lines, body("%-9s %-7s %s-%s  (%d)", d.Day, schedule.FormatMinutes(d.Minutes), d.First, d.Last, d.Items))
	}
	lines = append(lines, Line{})
	lines = append(lines, body("%s | %s scheduled | %s credits",
		ws.Counts, schedule.FormatMinutes(ws.TotalMinutes), humanize.FtoaWithDigits(ws.CreditHours, 1)))

	if busiest, ok := ws.Busiest(); ok {
		lines = append(lines, body("Busiest day: %s (%s)", busiest.Day, schedule.FormatMinutes(busiest.Minutes)))
	}
	if free := ws.FreeDays(); len(free) > 0 {
		names := make([]string, len(free))
		for i, d := range free {
			names[i] = string(d)
		}
		lines = append(lines, body("Free weekdays: %s", strings.Join(names, ", ")))
	}
	if len(ws.Untimed) > 0 {
		lines = append(lines, meta("No fixed time: "+strings.Join(ws.Untimed, ", ")))
	}
	if ws.Analyzed() {
		lines = append(lines, body("Difficulty %.0f (%s) | %s h/week", ws.Difficulty, ws.Label, humanize.FtoaWithDigits(ws.WeeklyHours, 1)))
	} else {
		lines = append(lines, meta("Difficulty not analyzed yet (A)"))
	}

	if ws.Insight != "" {
		lines = append(lines, Line{}, section("INSIGHT"))
		for _, l := range strings.Split(ws.Insight, "\n") {
			lines = append(lines, body("%s", l))
		}
	}
	return lines
}

// DetailLines describes one course or event and what it overlaps.
func DetailLines(it schedule.Item, overlaps []schedule.Item) []Line {
	var lines []Line
	if it.Kind == schedule.KindCourse {
		if it.Title != "" && it.Title != it.CourseID {
			lines = append(lines, body("%s", it.Title))
		}
		if it.Instructor != "" {
			lines = append(lines, meta(it.Instructor))
		}
	} else if it.Location != "" {
		lines = append(lines, meta(it.Location))
	}

	var days []string
	for _, d := range schedule.SortDays(it.RepeatDays) {
		days = append(days, d.Short())
	}
	when := "No fixed time"
	if it.Timed() {
		when = fmt.Sprintf("%s %s-%s", strings.Join(days, " "), it.StartTime, it.EndTime)
		if s, e, err := it.Range(); err == nil {
			if mins, err := schedule.Duration(s, e); err == nil {
				when += " (" + schedule.FormatMinutes(mins) + ")"
			}
		}
	}
	lines = append(lines, body("%s", when))

	if it.Kind == schedule.KindCourse && it.Difficulty > 0 {
		lines = append(lines, body("Difficulty %d (%s)", it.Difficulty, schedule.RatingLabel(float64(it.Difficulty))))
	}
	if len(overlaps) > 0 {
		lines = append(lines, Line{}, section("OVERLAPS"))
		for _, o := range overlaps {
			lines = append(lines, body("%s %s-%s", o.Label(), o.StartTime, o.EndTime))
		}
	}
	return lines
}

// RenderLines styles and wraps lines to width.
func RenderLines(lines []Line, styles ModalStyles, width int) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		style := styles.Body
		switch l.Style {
		case LineMeta:
			style = styles.Meta
		case LineSection:
			style = styles.Section
		}
		for _, w := range Wrap(l.Text, width) {
			out = append(out, style.Render(w))
		}
	}
	return strings.Join(out, "\n")
}

// PlainText joins the line texts for the clipboard.
func PlainText(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.TrimSpace(strings.Join(texts, "\n")) + "\n"
}
