package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/export"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/commands"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/view"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.logKey(msg)
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.colWidth = m.calculateColWidth()
		m.styles.withColWidth(m.colWidth)
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.LoadedMsg:
		m.busy = ""
		m.schedules = msg.Schedules
		m.offline = msg.Offline != nil
		if msg.Offline != nil {
			m.log.Warn("refresh failed, showing local copy", zap.Error(msg.Offline))
			m.setStatus("Offline: showing the local copy")
		}
		if msg.HasOpen {
			m.setSchedule(msg.Open)
		}
		return m, m.clearStatusLater()

	case commands.OpenedMsg:
		m.busy = ""
		m.setSchedule(msg.Schedule)
		m.setStatus(fmt.Sprintf("Opened %q", msg.Schedule.Name))
		return m, m.clearStatusLater()

	case commands.EditedMsg:
		m.busy = ""
		m.setSchedule(msg.Schedule)
		m.setStatus(msg.Status)
		return m, tea.Batch(m.clearStatusLater(), m.reloadList())

	case commands.SavedMsg:
		m.busy = ""
		m.setSchedule(msg.Schedule)
		m.setStatus(fmt.Sprintf("Saved %q", msg.Schedule.Name))
		return m, tea.Batch(m.clearStatusLater(), m.reloadList())

	case commands.ConfirmNameMsg:
		m.busy = ""
		m.pendingName = msg.Name
		m.openModal(ModalConfirmName)
		return m, nil

	case commands.GeneratedMsg:
		m.busy = ""
		m.candidates = len(msg.Candidates)
		m.candidate = 0
		if cur, ok := m.planner.Current(); ok {
			m.setSchedule(cur)
		}
		m.setMode(ModePreview, "generated")
		return m, nil

	case commands.PreviewMsg:
		m.candidate = msg.Index
		m.setSchedule(msg.Schedule)
		return m, nil

	case commands.PreviewClosedMsg:
		m.busy = ""
		m.candidates = 0
		m.setSchedule(msg.Schedule)
		m.setMode(ModeNormal, "preview closed")
		if msg.Kept {
			m.setStatus("Kept the generated schedule (unsaved)")
		} else {
			m.setStatus("Discarded generated schedules")
		}
		return m, m.clearStatusLater()

	case commands.AnalyzedMsg:
		m.busy = ""
		m.setSchedule(msg.Schedule)
		switch {
		case msg.Ran:
			m.setStatus(fmt.Sprintf("Difficulty %.0f (%s)", msg.Schedule.DifficultyScore, difficultyLabel(msg.Schedule.DifficultyScore)))
		case msg.Schedule.DifficultyScore > 0:
			m.setStatus("Already analyzed")
		default:
			m.setStatus("Nothing to analyze")
		}
		return m, m.clearStatusLater()

	case commands.WeekSummaryMsg:
		m.summary = msg.Summary
		m.summaryLines = view.SummaryLines(msg.Summary)
		m.openModal(ModalSummary)
		return m, nil

	case commands.ErrMsg:
		m.busy = ""
		m.err = msg.Err
		m.log.Error("planner call failed", zap.Error(msg.Err))
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err))
		return m, m.clearStatusLater()

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg)
		return m, m.clearStatusLater()

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) clearStatusLater() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// reloadList refreshes the switcher entries from the local store.
func (m Model) reloadList() tea.Cmd {
	p := m.planner
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		list, err := p.Schedules(ctx)
		if err != nil {
			return commands.ErrMsg{Err: err}
		}
		cur, ok := p.Current()
		return commands.LoadedMsg{Schedules: list, Open: cur, HasOpen: ok}
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if msg.String() != "q" {
		m.quitArmed = false
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModePreview:
		return m.handlePreviewKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNavigation moves the cursor. It reports whether msg was a
// navigation key.
func (m *Model) handleNavigation(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor.Day--
	case key.Matches(msg, m.keys.Right):
		m.cursor.Day++
	case key.Matches(msg, m.keys.Up):
		m.cursor.Slot--
	case key.Matches(msg, m.keys.Down):
		m.cursor.Slot++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor.Slot -= m.visibleRows()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor.Slot += m.visibleRows()
	case key.Matches(msg, m.keys.Weekend):
		m.gridCfg = m.gridCfg.WithWeekend(!m.gridCfg.ShowsWeekend())
		m.colWidth = m.calculateColWidth()
		m.styles.withColWidth(m.colWidth)
		m.relayout()
	default:
		return false
	}
	m.clampCursor()
	m.logCursor("navigate")
	return true
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.handleNavigation(msg) {
		return m, nil
	}
	if m.busy != "" && !key.Matches(msg, m.keys.Quit, m.keys.Help) {
		m.setStatus(m.busy + ", please wait")
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.planner.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.setStatus("Unsaved changes: press s to save or q again to quit")
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.openModal(ModalHelp)

	case key.Matches(msg, m.keys.Switch):
		m.pick = 0
		for i, s := range m.schedules {
			if s.LocalID == m.sched.LocalID {
				m.pick = i
			}
		}
		m.openModal(ModalSchedules)

	case key.Matches(msg, m.keys.New):
		return m, m.startPrompt(promptNew, "New schedule: ", "")

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startBusy("Syncing", commands.Load(m.planner))

	case !m.hasSched:
		m.setStatus("No schedule yet: press N to create one")

	case key.Matches(msg, m.keys.Details):
		it, ok := m.itemAtCursor()
		if !ok {
			return m, nil
		}
		m.detailsTitle = it.Label()
		m.details = view.DetailLines(it, m.overlapsOf(it))
		m.openModal(ModalDetails)

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.itemAtCursor()
		if !ok {
			return m, nil
		}
		return m, m.startBusy("Removing "+it.Label(), commands.DeleteItem(m.planner, it))

	case key.Matches(msg, m.keys.Save):
		return m, m.startBusy("Saving", commands.Save(m.planner, false))

	case key.Matches(msg, m.keys.Rename):
		return m, m.startPrompt(promptRename, "Rename: ", m.sched.Name)

	case key.Matches(msg, m.keys.Favorite):
		return m, m.startBusy("Updating favorite", commands.Favorite(m.planner, m.sched.LocalID))

	case key.Matches(msg, m.keys.Generate):
		return m, m.startBusy("Generating schedules", commands.Generate(m.planner))

	case key.Matches(msg, m.keys.Analyze):
		return m, m.startBusy("Analyzing difficulty", commands.Analyze(m.planner))

	case key.Matches(msg, m.keys.Summary):
		return m, commands.WeekSummary(m.sched, m.now())

	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyText(export.TSV(m.sched, m.gridCfg), "the grid")
	}
	return m, nil
}

// handlePreviewKeys handles keys while a generated schedule is previewed.
// Edits are blocked until it is kept or discarded.
func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.handleNavigation(msg) {
		return m, nil
	}
	if m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextCandidate):
		if m.candidates > 1 {
			return m, commands.SelectCandidate(m.planner, (m.candidate+1)%m.candidates)
		}
	case key.Matches(msg, m.keys.PrevCandidate):
		if m.candidates > 1 {
			return m, commands.SelectCandidate(m.planner, (m.candidate-1+m.candidates)%m.candidates)
		}
	case key.Matches(msg, m.keys.Accept):
		return m, m.startBusy("Keeping option", commands.AcceptCandidate(m.planner))
	case key.Matches(msg, m.keys.Discard):
		return m, commands.DiscardCandidates(m.planner)
	case key.Matches(msg, m.keys.Help):
		m.openModal(ModalHelp)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	default:
		m.setStatus("Keep (a) or discard (esc) the generated schedule first")
	}
	return m, nil
}

func (m *Model) startPrompt(kind promptKind, label, value string) tea.Cmd {
	m.promptKind = kind
	m.prompt.Prompt = label
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	m.setMode(ModePrompt, "prompt")
	return textinput.Blink
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt.Blur()
		m.setMode(ModeNormal, "prompt cancelled")
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		m.prompt.Blur()
		m.setMode(ModeNormal, "prompt submitted")
		if value == "" {
			m.setStatus("Name cannot be empty")
			return m, nil
		}
		if m.promptKind == promptNew {
			return m, m.startBusy("Creating", commands.Create(m.planner, value))
		}
		return m, m.startBusy("Renaming", commands.Rename(m.planner, value))
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalConfirmName:
		switch msg.String() {
		case "y", "enter":
			m.closeModal()
			return m, m.startBusy("Saving", commands.Save(m.planner, true))
		case "n", "esc", "q":
			m.closeModal()
			m.setStatus(fmt.Sprintf("Not saved: rename %q first (r)", m.pendingName))
			return m, m.clearStatusLater()
		}
		return m, nil

	case ModalSchedules:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.pick = max(m.pick-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.pick = min(m.pick+1, max(len(m.schedules)-1, 0))
		case msg.String() == "enter":
			m.closeModal()
			if m.pick < len(m.schedules) {
				return m, m.startBusy("Opening", commands.Open(m.planner, m.schedules[m.pick].LocalID))
			}
		case key.Matches(msg, m.keys.Favorite):
			if m.pick < len(m.schedules) {
				return m, m.startBusy("Updating favorite", commands.Favorite(m.planner, m.schedules[m.pick].LocalID))
			}
		case msg.String() == "esc", key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Switch):
			m.closeModal()
		}
		return m, nil

	case ModalSummary:
		switch {
		case key.Matches(msg, m.keys.Copy):
			return m, commands.CopyText(view.PlainText(m.summaryLines), "the summary")
		case msg.String() == "esc", key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Summary):
			m.closeModal()
		}
		return m, nil

	default:
		switch msg.String() {
		case "esc", "q", "?", "enter":
			m.closeModal()
		}
		return m, nil
	}
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commands.Timeout)
}

func difficultyLabel(score float64) string {
	return schedule.RatingLabel(score)
}
