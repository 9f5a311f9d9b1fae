package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// minBandContrast is the WCAG ratio difficulty scores keep against the
// background.
const minBandContrast = 3.0

// Palette holds the colors the grid, panels and modals are drawn with.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Course      lipgloss.Color
	Event       lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	// Adjacent blocks of the same kind alternate between Bg and BgAlt.
	CourseBg    lipgloss.Color
	EventBg     lipgloss.Color
	CourseBgAlt lipgloss.Color
	EventBgAlt  lipgloss.Color

	// Preview shades mark blocks of a generated schedule that is not kept yet.
	CoursePreviewBg lipgloss.Color
	EventPreviewBg  lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnCurrent lipgloss.Color
	TextOnCourse  lipgloss.Color
	TextOnEvent   lipgloss.Color

	Modal ModalColors

	bands map[schedule.Band]lipgloss.Color
}

// ModalColors holds the modal colors.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Panel     lipgloss.Color
}

// NewPalette derives a Palette from t. A nil theme uses mocha.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}
	th := *t
	th.applyDefaults()

	light := isLight(th.Bg)
	courseBg := blockBg(th.Course, th.Bg, light)
	eventBg := blockBg(th.Event, th.Bg, light)

	p := &Palette{
		Bg:          lipgloss.Color(th.Bg),
		BgHighlight: lipgloss.Color(th.BgHighlight),
		BgSelection: lipgloss.Color(th.BgSelection),
		Fg:          lipgloss.Color(th.Fg),
		FgMuted:     lipgloss.Color(th.FgMuted),
		Accent:      lipgloss.Color(th.Accent),
		Course:      lipgloss.Color(th.Course),
		Event:       lipgloss.Color(th.Event),
		Current:     lipgloss.Color(th.Current),
		Warning:     lipgloss.Color(th.Warning),

		CourseBg:    lipgloss.Color(courseBg),
		EventBg:     lipgloss.Color(eventBg),
		CourseBgAlt: lipgloss.Color(alternateShade(courseBg, light)),
		EventBgAlt:  lipgloss.Color(alternateShade(eventBg, light)),

		CoursePreviewBg: lipgloss.Color(previewBg(th.Course, th.Bg, light)),
		EventPreviewBg:  lipgloss.Color(previewBg(th.Event, th.Bg, light)),

		TextOnAccent:  lipgloss.Color(textOn(th.Accent, th.Bg, th.Fg)),
		TextOnWarning: lipgloss.Color(textOn(th.Warning, th.Bg, th.Fg)),
		TextOnCurrent: lipgloss.Color(textOn(th.Current, th.Bg, th.Fg)),
		TextOnCourse:  lipgloss.Color(textOn(courseBg, th.Bg, th.Fg)),
		TextOnEvent:   lipgloss.Color(textOn(eventBg, th.Bg, th.Fg)),

		Modal: ModalColors{
			Bg:        lipgloss.Color(th.BaseBg),
			Border:    lipgloss.Color(th.ModalBorder),
			Text:      lipgloss.Color(th.TextPrimary),
			Muted:     lipgloss.Color(th.TextMuted),
			Highlight: lipgloss.Color(th.Highlight),
			Panel:     lipgloss.Color(coalesce(th.BgSelection, th.BgHighlight, th.Bg)),
		},
		bands: make(map[schedule.Band]lipgloss.Color, len(schedule.Bands)),
	}
	for _, b := range schedule.Bands {
		p.bands[b] = lipgloss.Color(readableOn(schedule.BandHex(b), th.Bg, th.Fg))
	}
	return p
}

// Band returns the color difficulty scores in band b are drawn with.
func (p *Palette) Band(b schedule.Band) lipgloss.Color {
	if c, ok := p.bands[b]; ok {
		return c
	}
	return p.Fg
}

func parse(hex string) (colorful.Color, bool) {
	if len(hex) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	return c, err == nil
}

func isLight(bg string) bool {
	return luminance(bg) > 0.55
}

func blockBg(accent, bg string, light bool) string {
	if light {
		return blend(accent, bg, 0.75)
	}
	return dim(accent, 0.50, 40)
}

func previewBg(accent, bg string, light bool) string {
	if light {
		return blend(accent, bg, 0.88)
	}
	return dim(accent, 0.30, 30)
}

// dim scales each channel by factor and keeps it at or above floor (0-255)
// so blocks stay visible on dark backgrounds.
func dim(hex string, factor float64, floor int) string {
	c, ok := parse(hex)
	if !ok {
		return hex
	}
	lo := float64(floor) / 255
	ch := func(v float64) float64 { return max(v*factor, lo) }
	return colorful.Color{R: ch(c.R), G: ch(c.G), B: ch(c.B)}.Clamped().Hex()
}

// alternateShade creates a subtle alternate shade for adjacent blocks.
func alternateShade(hex string, light bool) string {
	if light {
		return blend(hex, "#000000", 0.10)
	}
	return blend(hex, "#ffffff", 0.30)
}

// blend mixes ratio of b into a. Invalid input returns a unchanged.
func blend(a, b string, ratio float64) string {
	ca, okA := parse(a)
	cb, okB := parse(b)
	if !okA || !okB {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

// textOn picks whichever of the two text colors reads better on bg.
func textOn(bg, lightText, darkText string) string {
	if contrast(bg, lightText) >= contrast(bg, darkText) {
		return lightText
	}
	return darkText
}

// readableOn moves fg toward text until it reaches minBandContrast on bg.
func readableOn(fg, bg, text string) string {
	out := fg
	for step := 1; step <= 10 && contrast(out, bg) < minBandContrast; step++ {
		out = blend(fg, text, float64(step)/10)
	}
	return out
}

func contrast(a, b string) float64 {
	l1, l2 := luminance(a), luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// luminance is the WCAG relative luminance of hex, 0 when it does not parse.
func luminance(hex string) float64 {
	c, ok := parse(hex)
	if !ok {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
