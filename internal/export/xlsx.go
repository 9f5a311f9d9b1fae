package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

const (
	weekSheet  = "Week"
	itemsSheet = "Items"
)

// WriteXLSX writes a workbook with the weekly grid on one sheet and the item
// list on another. Grid cells are tinted with the item color; cells covered
// by a longer item repeat the tint without the text.
func WriteXLSX(w io.Writer, s schedule.Schedule, cfg grid.Config) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(weekSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	if err := writeWeek(f, s, cfg); err != nil {
		return err
	}
	if err := writeItems(f, s); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeWeek(f *excelize.File, s schedule.Schedule, cfg grid.Config) error {
	g := grid.New(cfg, s.Items())
	cells := g.Cells()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	title := s.Name
	if title == "" {
		title = "Schedule"
	}
	_ = f.SetColWidth(weekSheet, "A", "A", 8)
	lastCol := colName(len(cfg.Days))
	_ = f.SetColWidth(weekSheet, "B", lastCol, 22)
	_ = f.SetCellValue(weekSheet, "A1", title)
	_ = f.MergeCell(weekSheet, "A1", lastCol+"1")
	_ = f.SetCellStyle(weekSheet, "A1", lastCol+"1", headerStyle)

	_ = f.SetCellValue(weekSheet, "A2", "Time")
	for c, d := range cfg.Days {
		_ = f.SetCellValue(weekSheet, cell(colName(c+1), 2), string(d))
	}
	_ = f.SetCellStyle(weekSheet, "A2", cell(lastCol, 2), headerStyle)

	styles := make(map[string]int)
	styleFor := func(color string) (int, error) {
		if id, ok := styles[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return 0, err
		}
		styles[color] = id
		return id, nil
	}

	for r, row := range cells {
		excelRow := r + 3
		_ = f.SetCellValue(weekSheet, cell("A", excelRow), row[0].Slot.String())
		for c, gc := range row {
			ref := cell(colName(c+1), excelRow)
			var tint string
			if len(gc.Starts) > 0 {
				_ = f.SetCellValue(weekSheet, ref, cellText(gc.Starts))
				tint = gc.Starts[0].Color
			} else if len(gc.Covered) > 0 {
				tint = gc.Covered[0].Color
			}
			if tint == "" {
				continue
			}
			id, err := styleFor(tint)
			if err != nil {
				return fmt.Errorf("creating style: %w", err)
			}
			_ = f.SetCellStyle(weekSheet, ref, ref, id)
		}
	}

	next := len(cells) + 4
	if untimed := g.Untimed(); len(untimed) > 0 {
		labels := make([]string, len(untimed))
		for i, it := range untimed {
			labels[i] = it.Label()
		}
		_ = f.SetCellValue(weekSheet, cell("A", next), "No fixed time: "+strings.Join(labels, ", "))
	}
	return nil
}

func cellText(items []schedule.Item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%s %s-%s", it.Label(), it.StartTime, it.EndTime)
	}
	return strings.Join(lines, "\n")
}

func writeItems(f *excelize.File, s schedule.Schedule) error {
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	headers := []string{"Kind", "Course", "Title", "Days", "Start", "End", "Instructor", "Credits", "Difficulty", "Location"}
	for i, h := range headers {
		_ = f.SetCellValue(itemsSheet, cell(colName(i), 1), h)
	}

	row := 2
	for _, it := range s.Items() {
		values := []any{string(it.Kind), it.CourseID, it.Title, dayList(it.RepeatDays), it.StartTime, it.EndTime, it.Instructor, nil, nil, it.Location}
		if it.Kind == schedule.KindCourse {
			c := s.Courses[it.Index]
			if c.CreditHours > 0 {
				values[7] = c.CreditHours
			}
			if c.DifficultyRating > 0 {
				values[8] = c.DifficultyRating
			}
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			_ = f.SetCellValue(itemsSheet, cell(colName(i), row), v)
		}
		row++
	}
	return nil
}

func dayList(days []schedule.Day) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.Short()
	}
	return strings.Join(parts, "/")
}

// colName converts a 0-based column index to a letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
