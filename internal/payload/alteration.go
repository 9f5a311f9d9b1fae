package payload

import (
	"encoding/json"
	"fmt"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// AlterationRequest is the body of a class recommendation call.
type AlterationRequest struct {
	Schedule             CurrentRecord                  `json:"schedule"`
	ModificationRequests []schedule.ModificationRequest `json:"modification_requests"`
}

// NewAlterationRequest builds a recommendation request for the given schedule.
func NewAlterationRequest(s schedule.Schedule, reqs []schedule.ModificationRequest) AlterationRequest {
	return AlterationRequest{Schedule: ToCurrentRecord(s), ModificationRequests: reqs}
}

// TimeSlot is one meeting pattern of a recommended class.
type TimeSlot struct {
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	RepeatDays []string `json:"repeat_days"`
}

// ClassScoreWire is the rating attached to a recommended class.
type ClassScoreWire struct {
	schedule.ClassScore
	CH float64 `json:"ch"`
}

// ClassToAdd is a recommended class as sent by the backend.
type ClassToAdd struct {
	ClassID        string          `json:"class_id"`
	Teacher        string          `json:"teacher"`
	TimeSlots      []TimeSlot      `json:"time_slots"`
	ClassScore     *ClassScoreWire `json:"class_score"`
	WhyRecommended string          `json:"why_recommended"`
}

// AlterationWire is one alteration as sent by the backend.
type AlterationWire struct {
	Name             string       `json:"alteration_name"`
	Description      string       `json:"description"`
	ClassesToRemove  []string     `json:"classes_to_remove"`
	ClassesToAdd     []ClassToAdd `json:"classes_to_add"`
	DifficultyChange float64      `json:"estimated_difficulty_change"`
	TimeChange       float64      `json:"estimated_time_change"`
	Confidence       float64      `json:"confidence"`
	Warnings         []string     `json:"warnings"`
}

// AlterationResponse is the body returned by a recommendation call.
type AlterationResponse struct {
	Alterations    []AlterationWire `json:"alterations"`
	OverallSummary string           `json:"overall_summary"`
	Confidence     float64          `json:"confidence"`
}

// DecodeAlterations parses a recommendation response and translates each
// recommended class into a course in the given term and campus.
func DecodeAlterations(body []byte, term, campus string) (schedule.AlterationSet, error) {
	var resp AlterationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return schedule.AlterationSet{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return TranslateAlterations(resp, term, campus), nil
}

// TranslateAlterations converts wire alterations into the domain model.
func TranslateAlterations(resp AlterationResponse, term, campus string) schedule.AlterationSet {
	set := schedule.AlterationSet{
		OverallSummary: resp.OverallSummary,
		Confidence:     resp.Confidence,
		Alterations:    make([]schedule.Alteration, 0, len(resp.Alterations)),
	}
	for _, a := range resp.Alterations {
		alt := schedule.Alteration{
			Name:             a.Name,
			Description:      a.Description,
			Remove:           append([]string{}, a.ClassesToRemove...),
			Add:              make([]schedule.Course, 0, len(a.ClassesToAdd)),
			DifficultyChange: a.DifficultyChange,
			TimeChange:       a.TimeChange,
			Confidence:       a.Confidence,
			Warnings:         append([]string{}, a.Warnings...),
		}
		for _, cls := range a.ClassesToAdd {
			alt.Add = append(alt.Add, classToCourse(cls, term, campus))
		}
		if len(a.ClassesToAdd) > 0 {
			alt.WhyRecommended = a.ClassesToAdd[0].WhyRecommended
		}
		set.Alterations = append(set.Alterations, alt)
	}
	return set
}

func classToCourse(cls ClassToAdd, term, campus string) schedule.Course {
	c := schedule.Course{
		ItemBase: schedule.ItemBase{
			Title:      cls.ClassID,
			RepeatDays: []schedule.Day{},
		},
		CourseID:   cls.ClassID,
		Instructor: cls.Teacher,
		Term:       term,
		Campus:     campus,
	}
	if len(cls.TimeSlots) > 0 {
		ts := cls.TimeSlots[0]
		c.StartTime = schedule.PadTime(ts.StartTime)
		c.EndTime = schedule.PadTime(ts.EndTime)
		for _, name := range ts.RepeatDays {
			if d, err := schedule.ParseDay(name); err == nil {
				c.RepeatDays = append(c.RepeatDays, d)
			}
		}
		c.RepeatDays = schedule.SortDays(c.RepeatDays)
	}
	if cls.ClassScore != nil {
		score := cls.ClassScore.ClassScore
		if score.CreditHours == 0 {
			score.CreditHours = cls.ClassScore.CH
		}
		c.DifficultyRating = int(score.Score + 0.5)
		c.CreditHours = score.CreditHours
		c.RatingDetails = &score
	}
	return c
}
