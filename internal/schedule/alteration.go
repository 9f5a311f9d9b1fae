package schedule

// ModificationRequest asks the recommender to replace one class.
type ModificationRequest struct {
	ClassToReplace string `json:"classToReplace"`
	Reason         string `json:"reason"`
	Criteria       string `json:"criteria"`
}

// Alteration is a partial change proposed for a schedule.
type Alteration struct {
	Name             string
	Description      string
	Remove           []string // course ids, possibly decorated ("CSE 2331 (Dr. Smith)")
	Add              []Course
	DifficultyChange float64
	TimeChange       float64
	Confidence       float64
	Warnings         []string
	WhyRecommended   string
}

// AlterationSet is one recommendation response.
type AlterationSet struct {
	Alterations    []Alteration
	OverallSummary string
	Confidence     float64
}
