package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/view"
	"github.com/CSE5914-Group99/schedule-planner/internal/upcoming"
)

const (
	timeColWidth  = 6
	panelWidth    = 30
	minPanelTotal = 100 // narrower terminals drop the side panel
	minColWidth   = 8
	maxColWidth   = 24
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}
	if m.mode == ModePreview || (m.mode == ModeModal && m.returnMode == ModePreview) {
		sections = append(sections, m.renderBanner())
	}
	body := m.renderGrid()
	if m.showPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.renderPanel())
	}
	sections = append(sections, body, m.renderStatus(), m.renderHelp())
	base := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.mode == ModeModal && m.modalType != ModalNone {
		return view.Overlay(base, m.renderModal(), m.width, m.height, m.styles.ModalBgColor)
	}
	return base
}

func (m Model) showPanel() bool {
	return m.width >= minPanelTotal
}

func (m Model) calculateColWidth() int {
	avail := m.width - timeColWidth
	if m.showPanel() {
		avail -= panelWidth + 1
	}
	days := max(len(m.gridCfg.Days), 1)
	return min(max(avail/days-1, minColWidth), maxColWidth)
}

// visibleRows is the number of grid rows that fit below the header.
func (m Model) visibleRows() int {
	if m.height == 0 {
		return max(len(m.cells), 1)
	}
	chrome := 4 // header, day names, status, help
	if m.mode == ModePreview {
		chrome++
	}
	return max(m.height-chrome, 1)
}

// ensureCursorVisible scrolls so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	rows := m.visibleRows()
	if m.cursor.Slot < m.scroll {
		m.scroll = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scroll+rows {
		m.scroll = m.cursor.Slot - rows + 1
	}
	m.scroll = max(min(m.scroll, len(m.cells)-rows), 0)
}

func (m Model) renderHeader() string {
	if !m.hasSched {
		title := m.styles.TitleStyle.Render("Schedule planner")
		return title + "  " + m.styles.MutedStyle.Render("no schedule open, press N to create one")
	}

	parts := []string{m.styles.TitleStyle.Render(m.sched.Name)}
	if m.sched.Favorite {
		parts = append(parts, m.styles.WarningStyle.Render("★"))
	}
	if m.planner.Dirty() {
		parts = append(parts, m.styles.WarningStyle.Render("● unsaved"))
	}
	parts = append(parts, m.styles.MutedStyle.Render(m.sched.Summary()))
	if ch := m.sched.TotalCreditHours(); ch > 0 {
		parts = append(parts, m.styles.MutedStyle.Render(humanize.FtoaWithDigits(ch, 1)+" credits"))
	}
	if d := m.sched.DifficultyScore; d > 0 {
		parts = append(parts, m.styles.band(d, fmt.Sprintf("Difficulty %.0f", d)))
	}
	if m.offline {
		parts = append(parts, m.styles.WarningStyle.Render("offline"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderBanner() string {
	text := fmt.Sprintf("Generated option %d of %d  n/p browse  a keep  esc discard", m.candidate+1, m.candidates)
	return m.styles.BannerStyle.Render(text)
}

func (m Model) renderGrid() string {
	var b strings.Builder

	today := schedule.DayFromWeekday(m.now().Weekday())
	b.WriteString(strings.Repeat(" ", timeColWidth))
	for _, d := range m.gridCfg.Days {
		style := m.styles.DayHeaderStyle
		if d == today {
			style = m.styles.DayHeaderTodayStyle
		}
		b.WriteString(style.Width(m.colWidth).Render(d.Short()))
		b.WriteString(" ")
	}

	end := min(m.scroll+m.visibleRows(), len(m.cells))
	for row := m.scroll; row < end; row++ {
		b.WriteString("\n")
		slot := m.cells[row][0].Slot
		b.WriteString(m.styles.TimeColumnStyle.Width(timeColWidth).Render(slot.String()))
		for col, c := range m.cells[row] {
			b.WriteString(m.renderCell(row, col, c))
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m Model) renderCell(row, col int, c grid.Cell) string {
	text, style := m.cellContent(row, c)
	if m.cursor.Day == col && m.cursor.Slot == row {
		style = m.styles.CursorStyle
	}
	text = ansi.Truncate(text, m.colWidth, "…")
	return style.Width(m.colWidth).MaxWidth(m.colWidth).Render(text)
}

// cellContent picks the text and style of a cell. The first row of an item
// shows its label, the next rows its time and location.
func (m Model) cellContent(row int, c grid.Cell) (string, lipgloss.Style) {
	preview := m.mode == ModePreview || (m.mode == ModeModal && m.returnMode == ModePreview)

	if len(c.Starts) > 0 {
		it := c.Starts[0]
		text := it.Label()
		if extra := len(c.Starts) - 1 + len(c.Covered); extra > 0 {
			text = fmt.Sprintf("%s +%d", text, extra)
		}
		if m.isNext(it, c.Day) {
			return "▶ " + text, m.styles.NextStyle
		}
		return text, m.styles.blockStyle(it.Kind, it.Index%2 == 1, preview)
	}

	if len(c.Covered) > 0 {
		it := c.Covered[0]
		style := m.styles.blockStyle(it.Kind, it.Index%2 == 1, preview)
		start, end, err := it.Range()
		if err != nil {
			return "", style
		}
		first := m.gridCfg.RowOf(start)
		switch {
		case first >= 0 && row-first == 1:
			return start.String() + "-" + end.String(), style
		case first >= 0 && row-first == 2 && it.Location != "":
			return it.Location, style
		}
		return "", style
	}

	return " ·", m.styles.EmptyCellStyle
}

func (m Model) isNext(it schedule.Item, d schedule.Day) bool {
	return m.hasNext && m.next.Day == d && m.next.Item.Kind == it.Kind && m.next.Item.ID == it.ID
}

func (m Model) renderPanel() string {
	inner := panelWidth - m.styles.PanelStyle.GetHorizontalFrameSize()
	var lines []string

	lines = append(lines, m.styles.PanelTitleStyle.Render("Upcoming"))
	now := m.now()
	occ := upcoming.Rank(m.sched.Items(), now, upcoming.DefaultLimit)
	shown := 0
	for _, o := range occ {
		if o.Untimed() {
			continue
		}
		shown++
		start, _, _ := o.Item.Range()
		lines = append(lines, ansi.Truncate(fmt.Sprintf("%s %s %s", o.Day.Short(), start, o.Item.Label()), inner, "…"))
		lines = append(lines, m.styles.MutedStyle.Render("  "+humanize.RelTime(o.At(now), now, "ago", "from now")))
	}
	if shown == 0 {
		lines = append(lines, m.styles.MutedStyle.Render("Nothing this week"))
	}

	if m.layout != nil {
		if untimed := m.layout.Untimed(); len(untimed) > 0 {
			lines = append(lines, "", m.styles.PanelTitleStyle.Render("No fixed time"))
			for _, it := range untimed {
				lines = append(lines, ansi.Truncate(it.Label(), inner, "…"))
			}
		}
		if hidden := m.layout.Hidden(); len(hidden) > 0 {
			lines = append(lines, "", m.styles.PanelTitleStyle.Render("Outside the grid"))
			for _, it := range hidden {
				lines = append(lines, ansi.Truncate(it.Label(), inner, "…"))
			}
		}
		if skipped := m.layout.Skipped(); len(skipped) > 0 {
			lines = append(lines, "", m.styles.WarningStyle.Render(fmt.Sprintf("%d with invalid times", len(skipped))))
		}
	}

	height := max(m.visibleRows()+1-m.styles.PanelStyle.GetVerticalFrameSize(), 1)
	return m.styles.PanelStyle.Width(inner).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	switch {
	case m.mode == ModePrompt:
		return m.prompt.View()
	case m.busy != "":
		return m.spinner.View() + " " + m.styles.StatusStyle.Render(m.busy+"...")
	case m.statusMsg != "":
		return m.styles.StatusStyle.Render(m.statusMsg)
	}
	return ""
}

func (m Model) renderHelp() string {
	if m.mode == ModePreview {
		return m.help.View(previewKeys{m.keys})
	}
	return m.help.View(m.keys)
}

func (m Model) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		Frame:        m.styles.ModalStyle,
		Header:       m.styles.ModalHeaderStyle,
		Title:        m.styles.ModalTitleStyle,
		Footer:       m.styles.ModalFooterStyle,
		Body:         m.styles.ModalBodyStyle,
		Meta:         m.styles.ModalMetaStyle,
		Section:      m.styles.ModalSectionTitleStyle,
		Button:       m.styles.ModalButtonStyle,
		ButtonActive: m.styles.ModalButtonActiveStyle,
	}
}

func (m Model) renderModal() string {
	ms := m.modalStyles()
	width := view.ContentWidth(ms.Frame, 56)

	switch m.modalType {
	case ModalHelp:
		var h help.Model = m.help
		h.ShowAll = true
		body := h.FullHelpView(m.keys.FullHelp())
		return view.RenderModalFrame("Keys", body, view.RenderButtons(ms, "[esc] Close"), ms)

	case ModalSchedules:
		return view.RenderModalFrame("Schedules", m.renderScheduleList(ms, width),
			view.RenderButtons(ms, "[enter] Open", "[f] Favorite", "[esc] Close"), ms)

	case ModalDetails:
		return view.RenderModalFrame(m.detailsTitle, view.RenderLines(m.details, ms, width),
			view.RenderButtons(ms, "[esc] Close"), ms)

	case ModalSummary:
		return view.RenderModalFrame("Week summary", view.RenderLines(m.summaryLines, ms, width),
			view.RenderButtons(ms, "[esc] Close", "[y] Copy"), ms)

	case ModalConfirmName:
		text := fmt.Sprintf("%q looks like a placeholder name. Save it anyway?", m.pendingName)
		body := strings.Join(mapStyle(view.Wrap(text, width), ms.Body), "\n")
		return view.RenderModalFrame("Save schedule", body, view.RenderButtons(ms, "[y] Keep", "[n] Cancel"), ms)
	}
	return ""
}

func (m Model) renderScheduleList(ms view.ModalStyles, width int) string {
	if len(m.schedules) == 0 {
		return ms.Meta.Render("No schedules yet")
	}
	lines := make([]string, 0, len(m.schedules))
	for i, s := range m.schedules {
		mark := "  "
		if s.Favorite {
			mark = "★ "
		}
		if s.Dirty {
			mark = "● "
		}
		text := ansi.Truncate(mark+s.Name+"  "+s.Summary(), width, "…")
		style := ms.Body
		if i == m.pick {
			style = m.styles.ModalSelectedStyle
		}
		lines = append(lines, style.Width(width).Render(text))
	}
	return strings.Join(lines, "\n")
}

func mapStyle(lines []string, style lipgloss.Style) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = style.Render(l)
	}
	return out
}
