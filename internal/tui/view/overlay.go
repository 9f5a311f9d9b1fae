package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlay centers modal over base, both given as full screens of lines.
// Base lines left and right of the modal are kept.
func Overlay(base, modal string, width, height int, modalBg lipgloss.Color) string {
	if width <= 0 || height <= 0 || modal == "" {
		return base
	}

	modalLines := strings.Split(modal, "\n")
	modalW := 0
	for _, l := range modalLines {
		modalW = max(modalW, ansi.StringWidth(l))
	}
	modalW = min(modalW, width)
	if len(modalLines) > height {
		modalLines = modalLines[:height]
	}

	top := max((height-len(modalLines))/2, 0)
	left := max((width-modalW)/2, 0)
	fill := lipgloss.NewStyle().Background(modalBg)

	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	out := make([]string, 0, height)
	for row := 0; row < height; row++ {
		line := baseLines[row]
		if row < top || row >= top+len(modalLines) {
			out = append(out, line)
			continue
		}
		ml := modalLines[row-top]
		if w := ansi.StringWidth(ml); w > modalW {
			ml = ansi.Truncate(ml, modalW, "")
		} else if w < modalW {
			ml += fill.Render(strings.Repeat(" ", modalW-w))
		}
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		out = append(out, ansi.Cut(line, 0, left)+ml+ansi.ResetStyle+ansi.Cut(line, left+modalW, width))
	}
	return strings.Join(out, "\n")
}
