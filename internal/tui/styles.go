package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/theme"
)

// Default column width - will be recalculated dynamically.
const defaultColWidth = 16

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style

	// Block styles, indexed by [alt]
	CourseStyle        [2]lipgloss.Style
	EventStyle         [2]lipgloss.Style
	CoursePreviewStyle lipgloss.Style
	EventPreviewStyle  lipgloss.Style
	NextStyle          lipgloss.Style // next upcoming meeting
	ConflictMarkStyle  lipgloss.Style

	EmptyCellStyle lipgloss.Style
	CursorStyle    lipgloss.Style

	PanelStyle      lipgloss.Style
	PanelTitleStyle lipgloss.Style
	MutedStyle      lipgloss.Style
	WarningStyle    lipgloss.Style
	BannerStyle     lipgloss.Style // generated-preview banner
	StatusStyle     lipgloss.Style
	HelpStyle       lipgloss.Style
	PromptStyle     lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalSectionTitleStyle lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalSelectedStyle     lipgloss.Style

	bandStyles map[schedule.Band]lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	base := lipgloss.NewStyle().Foreground(p.Fg)

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(p.Fg).
		Width(defaultColWidth)
	s.DayHeaderTodayStyle = s.DayHeaderStyle.Foreground(p.Accent).Underline(true)
	s.TimeColumnStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.CourseStyle = [2]lipgloss.Style{
		base.Background(p.CourseBg).Foreground(p.TextOnCourse),
		base.Background(p.CourseBgAlt).Foreground(p.TextOnCourse),
	}
	s.EventStyle = [2]lipgloss.Style{
		base.Background(p.EventBg).Foreground(p.TextOnEvent),
		base.Background(p.EventBgAlt).Foreground(p.TextOnEvent),
	}
	s.CoursePreviewStyle = base.Background(p.CoursePreviewBg).Foreground(p.Course).Italic(true)
	s.EventPreviewStyle = base.Background(p.EventPreviewBg).Foreground(p.Event).Italic(true)
	s.NextStyle = lipgloss.NewStyle().Bold(true).Background(p.Current).Foreground(p.TextOnCurrent)
	s.ConflictMarkStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Warning)

	s.EmptyCellStyle = lipgloss.NewStyle().Foreground(p.BgHighlight)
	s.CursorStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BgSelection).
		Padding(0, 1)
	s.PanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.MutedStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Warning)
	s.BannerStyle = lipgloss.NewStyle().Bold(true).Background(p.Warning).Foreground(p.TextOnWarning).Padding(0, 1)
	s.StatusStyle = lipgloss.NewStyle().Foreground(p.Current)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.PromptStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	s.ModalBgColor = p.Modal.Bg
	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Modal.Border).
		Background(p.Modal.Bg).
		Padding(1, 2).
		Width(60)
	s.ModalHeaderStyle = lipgloss.NewStyle().Background(p.Modal.Bg)
	s.ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Modal.Bg)
	s.ModalFooterStyle = lipgloss.NewStyle().Background(p.Modal.Bg)
	s.ModalBodyStyle = lipgloss.NewStyle().Foreground(p.Modal.Text).Background(p.Modal.Bg)
	s.ModalMetaStyle = lipgloss.NewStyle().Foreground(p.Modal.Muted).Background(p.Modal.Bg)
	s.ModalSectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Modal.Bg)
	s.ModalButtonStyle = lipgloss.NewStyle().Foreground(p.Modal.Muted).Background(p.Modal.Panel)
	s.ModalButtonActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent)
	s.ModalSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Modal.Text).Background(p.Modal.Highlight)

	s.bandStyles = make(map[schedule.Band]lipgloss.Style)
	for _, b := range schedule.Bands {
		s.bandStyles[b] = lipgloss.NewStyle().Bold(true).Foreground(p.Band(b))
	}

	return s
}

// withColWidth sizes the day headers to width.
func (s *Styles) withColWidth(width int) {
	s.DayHeaderStyle = s.DayHeaderStyle.Width(width)
	s.DayHeaderTodayStyle = s.DayHeaderTodayStyle.Width(width)
}

// blockStyle picks the cell style for an item.
func (s *Styles) blockStyle(kind schedule.Kind, alt, preview bool) lipgloss.Style {
	i := 0
	if alt {
		i = 1
	}
	switch {
	case preview && kind == schedule.KindCourse:
		return s.CoursePreviewStyle
	case preview:
		return s.EventPreviewStyle
	case kind == schedule.KindCourse:
		return s.CourseStyle[i]
	default:
		return s.EventStyle[i]
	}
}

// band renders text in the difficulty band color of score.
func (s *Styles) band(score float64, text string) string {
	st, ok := s.bandStyles[schedule.DifficultyBand(score)]
	if !ok {
		return text
	}
	return st.Render(text)
}
