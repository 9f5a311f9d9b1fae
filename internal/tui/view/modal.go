// Package view provides rendering helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	Frame        lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	Footer       lipgloss.Style
	Body         lipgloss.Style
	Meta         lipgloss.Style
	Section      lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder
	b.WriteString(styles.Header.Render(styles.Title.Render(title)))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Footer.Render(footer))
	}
	return styles.Frame.Render(b.String())
}

// RenderButtons renders a compact row of key hints, the first one active.
func RenderButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.Button.Padding(0, 1)
		if i == 0 {
			style = styles.ButtonActive.Padding(0, 1)
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, styles.Body.Render(" "))
}

// ContentWidth returns the usable body width inside a framed modal.
func ContentWidth(frame lipgloss.Style, fallback int) int {
	width := frame.GetWidth()
	if width <= 0 {
		return fallback
	}
	return max(width-frame.GetHorizontalFrameSize(), 10)
}
