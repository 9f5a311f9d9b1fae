package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Color definitions for consistent styling across the UI.
var (
	// Courses: bold cyan
	colorCourse = color.New(color.FgCyan, color.Bold)

	// Events: magenta, less prominent than classes
	colorEvent = color.New(color.FgMagenta)

	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings and unsaved markers
	colorWarn = color.New(color.FgRed, color.Bold)

	bandColors = map[schedule.Band]*color.Color{
		schedule.BandGreen:     color.New(color.FgGreen),
		schedule.BandYellow:    color.New(color.FgYellow),
		schedule.BandOrange:    color.New(color.FgHiYellow, color.Bold),
		schedule.BandLightRed:  color.New(color.FgHiRed),
		schedule.BandBrightRed: color.New(color.FgRed, color.Bold),
	}
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatCourse(s string) string {
	return colorCourse.Sprint(s)
}

func formatEvent(s string) string {
	return colorEvent.Sprint(s)
}

// formatKind colors s by item kind.
func formatKind(kind schedule.Kind, s string) string {
	if kind == schedule.KindCourse {
		return formatCourse(s)
	}
	return formatEvent(s)
}

// formatBand colors s with the difficulty band of score.
func formatBand(score float64, s string) string {
	c, ok := bandColors[schedule.DifficultyBand(score)]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

// formatInsight formats text for insight/coaching output.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
