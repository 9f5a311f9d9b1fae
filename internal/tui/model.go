// Package tui provides the terminal user interface for the planner.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/config"
	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/summary"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/commands"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/theme"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/view"
	"github.com/CSE5914-Group99/schedule-planner/internal/upcoming"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModePreview      // a generated schedule is shown, nothing kept yet
	ModePrompt
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePreview:
		return "preview"
	case ModePrompt:
		return "prompt"
	case ModeModal:
		return "modal"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalHelp
	ModalSchedules
	ModalDetails
	ModalSummary
	ModalConfirmName
)

type promptKind int

const (
	promptNew promptKind = iota
	promptRename
)

// Position represents a cursor position in the grid.
type Position struct {
	Day  int // column in the visible days
	Slot int // row index in the grid
}

// Options configures Run.
type Options struct {
	Debug  bool
	Logger *zap.Logger
	Now    func() time.Time
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	planner commands.Planner
	config  *config.Config
	log     *zap.Logger
	now     func() time.Time

	styles  *Styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	prompt  textinput.Model

	// Schedule state
	sched     schedule.Schedule
	hasSched  bool
	schedules []schedule.Schedule
	offline   bool
	gridCfg   grid.Config
	layout    *grid.Grid
	cells     [][]grid.Cell
	next      upcoming.Occurrence
	hasNext   bool

	// Generated candidates while previewing
	candidates int
	candidate  int

	cursor Position
	scroll int
	mode   Mode

	// Modal state
	modalType    ModalType
	returnMode   Mode // mode to restore when the modal closes
	pick         int  // cursor in the schedule switcher
	promptKind   promptKind
	pendingName  string
	summary      *summary.WeekSummary
	summaryLines []view.Line
	details      []view.Line
	detailsTitle string

	busy      string // non-empty while a planner call runs
	quitArmed bool

	// Terminal dimensions and layout
	width    int
	height   int
	colWidth int

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// New creates a new TUI model.
func New(p commands.Planner, cfg *config.Config, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40
	ti.PromptStyle = styles.PromptStyle

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.StatusStyle))

	h := help.New()
	h.Styles.ShortKey = styles.HelpStyle.Bold(true)
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle
	h.Styles.FullKey = styles.ModalBodyStyle.Bold(true)
	h.Styles.FullDesc = styles.ModalMetaStyle
	h.Styles.FullSeparator = styles.ModalMetaStyle

	m := Model{
		planner:  p,
		config:   cfg,
		log:      log,
		now:      now,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     h,
		spinner:  sp,
		prompt:   ti,
		gridCfg:  cfg.GridLayout(),
		colWidth: defaultColWidth,
		busy:     "Loading schedules",
	}
	m.cursor = Position{Day: m.todayColumn()}
	m.relayout()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.Load(m.planner), m.spinner.Tick)
}

// Run starts the TUI.
func Run(p commands.Planner, cfg *config.Config, opts Options) error {
	if opts.Debug {
		debugLog, err := newDebugLogger()
		if err != nil {
			return err
		}
		defer func() { _ = debugLog.Sync() }()
		opts.Logger = debugLog
	}

	prog := tea.NewProgram(New(p, cfg, opts), tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.planner.Dirty() {
		fmt.Println("Unsaved changes are kept locally. Run 'planner save' to upload them.")
	}
	return nil
}

// setSchedule replaces the displayed schedule and recomputes the layout.
func (m *Model) setSchedule(s schedule.Schedule) {
	m.sched = s
	m.hasSched = true
	m.relayout()
}

// relayout rebuilds the grid and the next-meeting marker.
func (m *Model) relayout() {
	items := m.sched.Items()
	m.layout = grid.New(m.gridCfg, items)
	m.cells = m.layout.Cells()
	m.next, m.hasNext = upcoming.Next(items, m.now())
	m.clampCursor()
}

func (m *Model) clampCursor() {
	days := len(m.gridCfg.Days)
	rows := len(m.cells)
	m.cursor.Day = min(max(m.cursor.Day, 0), max(days-1, 0))
	m.cursor.Slot = min(max(m.cursor.Slot, 0), max(rows-1, 0))
	m.ensureCursorVisible()
}

// todayColumn returns the column of today, or 0 when today is hidden.
func (m Model) todayColumn() int {
	today := schedule.DayFromWeekday(m.now().Weekday())
	if col := m.gridCfg.DayColumn(today); col >= 0 {
		return col
	}
	return 0
}

// itemAtCursor returns the item starting in or covering the cursor cell.
func (m Model) itemAtCursor() (schedule.Item, bool) {
	if m.cursor.Slot >= len(m.cells) || m.cursor.Day >= len(m.cells[m.cursor.Slot]) {
		return schedule.Item{}, false
	}
	c := m.cells[m.cursor.Slot][m.cursor.Day]
	if len(c.Starts) > 0 {
		return c.Starts[0], true
	}
	if len(c.Covered) > 0 {
		return c.Covered[0], true
	}
	return schedule.Item{}, false
}

// overlapsOf lists the items that share time with it on a common day.
func (m Model) overlapsOf(it schedule.Item) []schedule.Item {
	var out []schedule.Item
	for _, other := range m.sched.Items() {
		if other.Kind == it.Kind && other.ID == it.ID {
			continue
		}
		if schedule.Overlaps(it.ItemBase, other.ItemBase) {
			out = append(out, other)
		}
	}
	return out
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = m.now().Add(4 * time.Second)
}

func (m *Model) setMode(to Mode, reason string) {
	m.logModeChange(m.mode, to, reason)
	m.mode = to
}

func (m *Model) openModal(t ModalType) {
	if m.mode != ModeModal {
		m.returnMode = m.mode
	}
	m.modalType = t
	m.setMode(ModeModal, "open modal")
}

func (m *Model) closeModal() {
	m.modalType = ModalNone
	m.setMode(m.returnMode, "close modal")
}

// startBusy shows the spinner with label while cmd runs.
func (m *Model) startBusy(label string, cmd tea.Cmd) tea.Cmd {
	m.busy = label
	return tea.Batch(cmd, m.spinner.Tick)
}
