package export

import (
	"strings"

	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// TSV renders the weekly grid as tab-separated text, one row per slot.
// Pasting it into a spreadsheet reproduces the grid.
func TSV(s schedule.Schedule, cfg grid.Config) string {
	g := grid.New(cfg, s.Items())

	var b strings.Builder
	b.WriteString("Time")
	for _, d := range cfg.Days {
		b.WriteByte('\t')
		b.WriteString(d.Short())
	}
	b.WriteByte('\n')

	for _, row := range g.Cells() {
		b.WriteString(row[0].Slot.String())
		for _, c := range row {
			b.WriteByte('\t')
			labels := make([]string, 0, len(c.Starts))
			for _, it := range c.Starts {
				labels = append(labels, it.Label())
			}
			b.WriteString(strings.Join(labels, " / "))
		}
		b.WriteByte('\n')
	}

	if untimed := g.Untimed(); len(untimed) > 0 {
		labels := make([]string, len(untimed))
		for i, it := range untimed {
			labels[i] = it.Label()
		}
		b.WriteString("No fixed time\t")
		b.WriteString(strings.Join(labels, ", "))
		b.WriteByte('\n')
	}
	return b.String()
}
