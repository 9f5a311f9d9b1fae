package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/summary"
)

const (
	timeColWidth   = 6
	minDayColWidth = 8
	maxDayColWidth = 22
)

// GridOpts controls PrintGrid.
type GridOpts struct {
	Width int // total width, 0 uses the terminal width
}

func (o GridOpts) dayColWidth(days int) int {
	width := o.Width
	if width <= 0 {
		width = termWidth()
	}
	if days == 0 {
		return minDayColWidth
	}
	w := (width-timeColWidth)/days - 1
	return min(max(w, minDayColWidth), maxDayColWidth)
}

// PrintGrid renders the weekly grid: one column per day and one row per slot.
// An item is labelled in the row where it starts and marked with a bar in
// the rows it continues through.
func PrintGrid(w io.Writer, s schedule.Schedule, cfg grid.Config, opts GridOpts) {
	g := grid.New(cfg, s.Items())
	colWidth := opts.dayColWidth(len(cfg.Days))

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", timeColWidth))
	for _, d := range cfg.Days {
		header.WriteString(" ")
		header.WriteString(pad(d.Short(), colWidth))
	}
	fmt.Fprintln(w, formatHeader(header.String()))
	fmt.Fprintln(w, strings.Repeat("─", timeColWidth+len(cfg.Days)*(colWidth+1)))

	for _, row := range g.Cells() {
		fmt.Fprint(w, formatMuted(pad(schedule.FormatTime(row[0].Slot), timeColWidth)))
		for _, c := range row {
			fmt.Fprint(w, " ")
			fmt.Fprint(w, renderCell(c, colWidth))
		}
		fmt.Fprintln(w)
	}

	printGridLeftovers(w, g)
}

// renderCell returns a padded, colored cell.
func renderCell(c grid.Cell, width int) string {
	switch {
	case len(c.Starts) > 0:
		it := c.Starts[0]
		label := it.Label()
		if n := len(c.Starts) + len(c.Covered) - 1; n > 0 {
			label = fmt.Sprintf("%s +%d", label, n)
		}
		return formatKind(it.Kind, pad(label, width))
	case len(c.Covered) > 0:
		it := c.Covered[0]
		return formatKind(it.Kind, pad("┃", width))
	default:
		return strings.Repeat(" ", width)
	}
}

func printGridLeftovers(w io.Writer, g *grid.Grid) {
	if untimed := g.Untimed(); len(untimed) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", formatMuted("No fixed time:"), joinLabels(untimed))
	}
	if hidden := g.Hidden(); len(hidden) > 0 {
		fmt.Fprintf(w, "%s %s\n", formatMuted("Outside the grid:"), joinLabels(hidden))
	}
	for _, sk := range g.Skipped() {
		fmt.Fprintf(w, "%s %s (%v)\n", formatWarn("Unreadable times:"), sk.Item.Label(), sk.Err)
	}
}

func joinLabels(items []schedule.Item) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label()
	}
	return strings.Join(labels, ", ")
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// PrintItems lists every course and event with its meeting pattern.
func PrintItems(w io.Writer, s schedule.Schedule) {
	if len(s.Courses) == 0 && len(s.Events) == 0 {
		fmt.Fprintln(w, "  (no courses or events)")
		return
	}
	for _, it := range s.Items() {
		tag := "E"
		if it.Kind == schedule.KindCourse {
			tag = "C"
		}
		fmt.Fprintf(w, "  [%s] %s  %-14s %s  %s\n",
			tag,
			formatMuted(shortID(it.ID)),
			formatKind(it.Kind, it.Label()),
			meetingText(it.ItemBase),
			itemDetail(it))
	}
}

// shortID abbreviates generated UUIDs to their first block. Commands accept
// any unique prefix back.
func shortID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id[:8]
	}
	return id
}

func meetingText(b schedule.ItemBase) string {
	days := make([]string, len(b.RepeatDays))
	for i, d := range b.RepeatDays {
		days[i] = d.Short()
	}
	dayText := strings.Join(days, ",")
	if dayText == "" {
		dayText = "-"
	}
	if !b.Timed() {
		return fmt.Sprintf("%-11s %-11s", dayText, "TBA")
	}
	return fmt.Sprintf("%-11s %s-%s", dayText, b.StartTime, b.EndTime)
}

func itemDetail(it schedule.Item) string {
	var parts []string
	if it.Kind == schedule.KindCourse {
		if it.Title != "" && it.Title != it.CourseID {
			parts = append(parts, it.Title)
		}
		if it.Instructor != "" {
			parts = append(parts, it.Instructor)
		}
		if it.Difficulty > 0 {
			parts = append(parts, formatBand(float64(it.Difficulty), fmt.Sprintf("difficulty %d", it.Difficulty)))
		}
	} else if it.Location != "" {
		parts = append(parts, it.Location)
	}
	return strings.Join(parts, " · ")
}

// PrintScheduleLine prints one row of the schedule list.
func PrintScheduleLine(w io.Writer, s schedule.Schedule) {
	star := " "
	if s.Favorite {
		star = formatInsight("★")
	}
	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}
	status := ""
	if s.Dirty {
		status = " " + formatWarn("unsaved")
	} else if s.ID == 0 {
		status = " " + formatMuted("local")
	}
	diff := ""
	if s.DifficultyScore > 0 {
		diff = "  " + formatBand(s.DifficultyScore, fmt.Sprintf("%.0f %s", s.DifficultyScore, schedule.RatingLabel(s.DifficultyScore)))
	}
	updated := ""
	if !s.UpdatedAt.IsZero() {
		updated = "  " + formatMuted("updated "+humanize.Time(s.UpdatedAt))
	}
	fmt.Fprintf(w, "%s #%-3d %s%s  %s%s%s\n", star, s.LocalID, formatHeader(name), status, s.Summary(), diff, updated)
}

// PrintWeekSummary prints per-day load, totals and the optional insight.
func PrintWeekSummary(w io.Writer, ws *summary.WeekSummary) {
	header := fmt.Sprintf("WEEK: %s - %s", ws.Start.Format("Mon Jan 2"), ws.End.Format("Mon Jan 2, 2006"))
	fmt.Fprintf(w, "\n  %s  %s\n", formatHeader(header), formatMuted(ws.Name))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, d := range ws.Days {
		if d.Items == 0 {
			fmt.Fprintf(w, "  %-9s %s\n", d.Day, formatMuted("free"))
			continue
		}
		fmt.Fprintf(w, "  %-9s %-7s %s-%s  %s\n",
			d.Day, schedule.FormatMinutes(d.Minutes), d.First, d.Last,
			formatMuted(humanize.Comma(int64(d.Items))+" item"+pluralS(d.Items)))
	}

	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  %s  |  Scheduled: %s  |  Credits: %s\n",
		ws.Counts,
		formatStats(schedule.FormatMinutes(ws.TotalMinutes)),
		humanize.FtoaWithDigits(ws.CreditHours, 1))

	if busiest, ok := ws.Busiest(); ok {
		fmt.Fprintf(w, "  Busiest day: %s (%s)\n", busiest.Day, formatStats(schedule.FormatMinutes(busiest.Minutes)))
	}
	if free := ws.FreeDays(); len(free) > 0 {
		names := make([]string, len(free))
		for i, d := range free {
			names[i] = string(d)
		}
		fmt.Fprintf(w, "  Free weekdays: %s\n", strings.Join(names, ", "))
	}
	if len(ws.Untimed) > 0 {
		fmt.Fprintf(w, "  %s %s\n", formatMuted("No fixed time:"), strings.Join(ws.Untimed, ", "))
	}

	if ws.Analyzed() {
		fmt.Fprintf(w, "  Difficulty: %s  |  Weekly hours: %s\n",
			formatBand(ws.Difficulty, fmt.Sprintf("%.0f (%s)", ws.Difficulty, ws.Label)),
			humanize.FtoaWithDigits(ws.WeeklyHours, 1))
	} else {
		fmt.Fprintf(w, "  %s\n", formatMuted("Difficulty: not analyzed (run 'planner analyze')"))
	}

	if ws.Insight != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", formatHeader("INSIGHT"))
		fmt.Fprintln(w, strings.Repeat("─", 60))
		PrintInsightWrapped(w, ws.Insight, 58)
	}
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	text = stripMarkdownCodeBlocks(text)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4
	}

	return prefix, content, contentWidth, isHeader
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	current := prefix
	continuation := strings.Repeat(" ", ansi.StringWidth(prefix))

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			fmt.Fprintln(w, formatInsight(current+line))
			current = continuation
			line = word
		}
	}

	if line != "" {
		fmt.Fprintln(w, formatInsight(current+line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
