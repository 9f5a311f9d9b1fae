package schedule

var (
	coursePalette = []string{"#3b82f6", "#8b5cf6", "#ec4899", "#f59e0b", "#10b981"}
	eventPalette  = []string{"#06b6d4", "#6366f1", "#a855f7", "#f97316", "#14b8a6"}
)

// ColorFor returns the display color for the item at index within its list.
// The palette cycles so any index is valid.
func ColorFor(kind Kind, index int) string {
	palette := coursePalette
	if kind == KindEvent {
		palette = eventPalette
	}
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}

// Recolor assigns palette colors to every item by position.
func (s *Schedule) Recolor() {
	for i := range s.Courses {
		s.Courses[i].Color = ColorFor(KindCourse, i)
	}
	for i := range s.Events {
		s.Events[i].Color = ColorFor(KindEvent, i)
	}
}

// Band is a coarse difficulty bucket used for coloring scores.
type Band string

const (
	BandGreen     Band = "green"
	BandYellow    Band = "yellow"
	BandOrange    Band = "orange"
	BandLightRed  Band = "light-red"
	BandBrightRed Band = "bright-red"
)

// Bands lists the difficulty bands from easiest to hardest.
var Bands = []Band{BandGreen, BandYellow, BandOrange, BandLightRed, BandBrightRed}

// DifficultyBand buckets a 0-100 difficulty score.
func DifficultyBand(score float64) Band {
	switch {
	case score >= 81:
		return BandBrightRed
	case score >= 76:
		return BandLightRed
	case score >= 71:
		return BandOrange
	case score >= 65:
		return BandYellow
	default:
		return BandGreen
	}
}

// BandHex maps a band to a hex color.
func BandHex(b Band) string {
	switch b {
	case BandBrightRed:
		return "#dc2626"
	case BandLightRed:
		return "#f87171"
	case BandOrange:
		return "#fb923c"
	case BandYellow:
		return "#facc15"
	default:
		return "#22c55e"
	}
}

// RatingLabel describes a course score in words.
func RatingLabel(score float64) string {
	switch {
	case score >= 80:
		return "Very Challenging"
	case score >= 60:
		return "Challenging"
	case score >= 40:
		return "Moderate"
	default:
		return "Manageable"
	}
}

// TimeLoadLabel describes a 0-10 time load rating.
func TimeLoadLabel(load float64) string {
	switch {
	case load <= 2:
		return "Light workload"
	case load <= 4:
		return "Moderate workload"
	case load <= 6:
		return "Heavy workload"
	default:
		return "Very heavy workload"
	}
}
