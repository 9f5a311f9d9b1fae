package view

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks s into lines no wider than width cells, preferring spaces.
// Words longer than width are split.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineW := 0
	for _, word := range words {
		for runewidth.StringWidth(word) > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				break
			}
			if lineW > 0 {
				lines = append(lines, line.String())
				line.Reset()
				lineW = 0
			}
			lines = append(lines, head)
			word = word[len(head):]
		}
		ww := runewidth.StringWidth(word)
		if ww == 0 {
			continue
		}
		if lineW > 0 && lineW+1+ww > width {
			lines = append(lines, line.String())
			line.Reset()
			lineW = 0
		}
		if lineW > 0 {
			line.WriteByte(' ')
			lineW++
		}
		line.WriteString(word)
		lineW += ww
	}
	if lineW > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
