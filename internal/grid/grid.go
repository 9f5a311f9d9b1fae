package grid

import (
	"slices"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Skipped is an item left off the grid because its times do not parse.
type Skipped struct {
	Item schedule.Item
	Err  error
}

// Placement locates one occurrence of an item on the grid.
type Placement struct {
	Item    schedule.Item
	Day     schedule.Day
	Column  int
	Row     int // first row, 0-based
	Span    int // rows covered, clipped to the window
	Clipped bool
}

// Cell is one (day, slot) position.
type Cell struct {
	Day     schedule.Day
	Slot    schedule.TimeOfDay
	Starts  []schedule.Item // items beginning in this slot
	Covered []schedule.Item // items that began earlier and still run
}

type timed struct {
	item       schedule.Item
	start, end schedule.TimeOfDay
}

// Grid is an immutable layout of items over a Config.
type Grid struct {
	cfg     Config
	timed   []timed
	untimed []schedule.Item
	skipped []Skipped
}

// New lays out items over cfg. Items with missing times are kept aside as
// untimed and items with malformed times are skipped; neither stops the layout.
func New(cfg Config, items []schedule.Item) *Grid {
	g := &Grid{cfg: cfg}
	for _, it := range items {
		if !it.Timed() {
			g.untimed = append(g.untimed, it)
			continue
		}
		s, e, err := it.Range()
		if err != nil {
			g.skipped = append(g.skipped, Skipped{Item: it, Err: err})
			continue
		}
		g.timed = append(g.timed, timed{item: it, start: s, end: e})
	}
	return g
}

// Config returns the grid window.
func (g *Grid) Config() Config {
	return g.cfg
}

// ItemsStartingInSlot returns items that recur on day and start within
// [slotStart, slotStart+SlotMinutes), in schedule order. Overlapping items
// are all returned.
func (g *Grid) ItemsStartingInSlot(day schedule.Day, slotStart schedule.TimeOfDay) []schedule.Item {
	slotEnd := slotStart + schedule.TimeOfDay(g.cfg.SlotMinutes)
	var out []schedule.Item
	for _, t := range g.timed {
		if t.start >= slotStart && t.start < slotEnd && t.item.OccursOn(day) {
			out = append(out, t.item)
		}
	}
	return out
}

// SpanOf returns how many rows item covers, or 0 if its times are invalid.
func (g *Grid) SpanOf(item schedule.Item) int {
	s, e, err := item.Range()
	if err != nil {
		return 0
	}
	n, err := schedule.SpanInSlots(s, e, g.cfg.SlotMinutes)
	if err != nil {
		return 0
	}
	return n
}

// Untimed returns items without a start or end time.
func (g *Grid) Untimed() []schedule.Item {
	return slices.Clone(g.untimed)
}

// Skipped returns items whose times failed to parse.
func (g *Grid) Skipped() []Skipped {
	return slices.Clone(g.skipped)
}

// Hidden returns timed items that never land on a visible row and day.
func (g *Grid) Hidden() []schedule.Item {
	var out []schedule.Item
	for _, t := range g.timed {
		if !g.visible(t) {
			out = append(out, t.item)
		}
	}
	return out
}

func (g *Grid) visible(t timed) bool {
	if g.cfg.RowOf(t.start) < 0 {
		return false
	}
	for _, d := range t.item.RepeatDays {
		if g.cfg.DayColumn(d) >= 0 {
			return true
		}
	}
	return false
}

// Placements returns one entry per visible (day, item) occurrence, ordered by
// column, then row, then schedule order.
func (g *Grid) Placements() []Placement {
	rows := len(g.cfg.Slots())
	var out []Placement
	for col, day := range g.cfg.Days {
		start := len(out)
		for _, t := range g.timed {
			if !t.item.OccursOn(day) {
				continue
			}
			row := g.cfg.RowOf(t.start)
			if row < 0 {
				continue
			}
			span := g.SpanOf(t.item)
			p := Placement{Item: t.item, Day: day, Column: col, Row: row, Span: span}
			if row+span > rows {
				p.Span = rows - row
				p.Clipped = true
			}
			out = append(out, p)
		}
		slices.SortStableFunc(out[start:], func(a, b Placement) int { return a.Row - b.Row })
	}
	return out
}

// Cells returns the full matrix indexed [row][column].
func (g *Grid) Cells() [][]Cell {
	slots := g.cfg.Slots()
	cells := make([][]Cell, len(slots))
	for r, slot := range slots {
		cells[r] = make([]Cell, len(g.cfg.Days))
		for c, day := range g.cfg.Days {
			cells[r][c] = Cell{Day: day, Slot: slot}
		}
	}
	for _, p := range g.Placements() {
		cells[p.Row][p.Column].Starts = append(cells[p.Row][p.Column].Starts, p.Item)
		for r := p.Row + 1; r < p.Row+p.Span; r++ {
			cells[r][p.Column].Covered = append(cells[r][p.Column].Covered, p.Item)
		}
	}
	return cells
}
