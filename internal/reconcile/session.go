package reconcile

import (
	"errors"
	"fmt"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// Session errors.
var (
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrNoCandidates = errors.New("no generated schedules to preview")
)

// State is the editing session state.
type State int

const (
	StateEmpty State = iota
	StateNew
	StateLoaded
	StateEdited
	StateSaving
	StateSaved
	StateGenerated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNew:
		return "new"
	case StateLoaded:
		return "loaded"
	case StateEdited:
		return "edited"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateGenerated:
		return "generated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session owns the schedule being edited. It is not safe for concurrent use;
// callers serialize mutations.
type Session struct {
	ids     IDSource
	state   State
	current schedule.Schedule
	dirty   bool

	// Generation preview. snapshot is the schedule as it was before the
	// preview started and is restored verbatim on discard.
	snapshot   schedule.Schedule
	prevState  State
	prevDirty  bool
	candidates []schedule.Schedule
	selected   int

	// State to return to if a save fails.
	preSave State
}

// NewSession creates an empty session. A nil ids uses UUIDs.
func NewSession(ids IDSource) *Session {
	return &Session{ids: ids}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Dirty reports whether the schedule has unsaved changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Current returns a copy of the schedule being edited.
func (s *Session) Current() (schedule.Schedule, bool) {
	if s.state == StateEmpty {
		return schedule.Schedule{}, false
	}
	return s.current.Clone(), true
}

// Snapshot returns the pre-generation schedule while previewing.
func (s *Session) Snapshot() (schedule.Schedule, bool) {
	if s.state != StateGenerated {
		return schedule.Schedule{}, false
	}
	return s.snapshot.Clone(), true
}

// Candidates returns the generated schedules and the selected index.
func (s *Session) Candidates() ([]schedule.Schedule, int) {
	out := make([]schedule.Schedule, len(s.candidates))
	for i := range s.candidates {
		out[i] = s.candidates[i].Clone()
	}
	return out, s.selected
}

func (s *Session) require(allowed ...State) error {
	for _, a := range allowed {
		if s.state == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
}

// editable states accept content mutations.
var editable = []State{StateNew, StateLoaded, StateEdited, StateSaved}

// NewSchedule starts a blank schedule.
func (s *Session) NewSchedule(name string) error {
	if err := s.require(StateEmpty, StateNew, StateLoaded, StateEdited, StateSaved); err != nil {
		return err
	}
	s.current = schedule.Schedule{Name: name, Courses: []schedule.Course{}, Events: []schedule.Event{}}
	s.state = StateNew
	s.dirty = true
	return nil
}

// Load starts editing an existing schedule.
func (s *Session) Load(sched schedule.Schedule) error {
	if err := s.require(StateEmpty, StateNew, StateLoaded, StateEdited, StateSaved); err != nil {
		return err
	}
	s.current = sched.Clone()
	s.state = StateLoaded
	s.dirty = false
	return nil
}

// LoadDraft resumes a schedule that was stored with unsaved changes.
func (s *Session) LoadDraft(sched schedule.Schedule) error {
	if err := s.Load(sched); err != nil {
		return err
	}
	s.current.Dirty = true
	s.state = StateEdited
	s.dirty = true
	return nil
}

// Clear drops the schedule being edited.
func (s *Session) Clear() error {
	if s.state == StateSaving {
		return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
	*s = Session{ids: s.ids}
	return nil
}

func (s *Session) mutate(fn func(*schedule.Schedule) error) error {
	if err := s.require(editable...); err != nil {
		return err
	}
	next := s.current.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.current = next
	s.state = StateEdited
	s.dirty = true
	s.current.Dirty = true
	return nil
}

// AddCourse validates and appends a course, returning its id.
func (s *Session) AddCourse(c schedule.Course) (string, error) {
	if c.Title == "" {
		c.Title = c.CourseID
	}
	if err := schedule.ValidateCourse(c); err != nil {
		return "", err
	}
	err := s.mutate(func(sched *schedule.Schedule) error {
		c.ID = s.ids.next()
		c.RepeatDays = schedule.SortDays(c.RepeatDays)
		c.Color = schedule.ColorFor(schedule.KindCourse, len(sched.Courses))
		sched.Courses = append(sched.Courses, c)
		return nil
	})
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// UpdateCourse replaces the course with the same id, keeping its color.
func (s *Session) UpdateCourse(c schedule.Course) error {
	if err := schedule.ValidateCourse(c); err != nil {
		return err
	}
	return s.mutate(func(sched *schedule.Schedule) error {
		i := sched.CourseIndex(c.ID)
		if i < 0 {
			return fmt.Errorf("course %q: %w", c.ID, schedule.ErrNotFound)
		}
		c.Color = sched.Courses[i].Color
		c.RepeatDays = schedule.SortDays(c.RepeatDays)
		sched.Courses[i] = c
		return nil
	})
}

// DeleteCourse removes a course by item id.
func (s *Session) DeleteCourse(id string) error {
	return s.mutate(func(sched *schedule.Schedule) error {
		i := sched.CourseIndex(id)
		if i < 0 {
			return fmt.Errorf("course %q: %w", id, schedule.ErrNotFound)
		}
		sched.Courses = append(sched.Courses[:i], sched.Courses[i+1:]...)
		return nil
	})
}

// AddEvent validates and appends an event, returning its id.
func (s *Session) AddEvent(e schedule.Event) (string, error) {
	if err := schedule.ValidateEvent(e); err != nil {
		return "", err
	}
	err := s.mutate(func(sched *schedule.Schedule) error {
		e.ID = s.ids.next()
		e.RepeatDays = schedule.SortDays(e.RepeatDays)
		e.Color = schedule.ColorFor(schedule.KindEvent, len(sched.Events))
		sched.Events = append(sched.Events, e)
		return nil
	})
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// UpdateEvent replaces the event with the same id, keeping its color.
func (s *Session) UpdateEvent(e schedule.Event) error {
	if err := schedule.ValidateEvent(e); err != nil {
		return err
	}
	return s.mutate(func(sched *schedule.Schedule) error {
		i := sched.EventIndex(e.ID)
		if i < 0 {
			return fmt.Errorf("event %q: %w", e.ID, schedule.ErrNotFound)
		}
		e.Color = sched.Events[i].Color
		e.RepeatDays = schedule.SortDays(e.RepeatDays)
		sched.Events[i] = e
		return nil
	})
}

// DeleteEvent removes an event by item id.
func (s *Session) DeleteEvent(id string) error {
	return s.mutate(func(sched *schedule.Schedule) error {
		i := sched.EventIndex(id)
		if i < 0 {
			return fmt.Errorf("event %q: %w", id, schedule.ErrNotFound)
		}
		sched.Events = append(sched.Events[:i], sched.Events[i+1:]...)
		return nil
	})
}

// Rename changes the schedule name. Name rules are checked at save time.
func (s *Session) Rename(name string) error {
	return s.mutate(func(sched *schedule.Schedule) error {
		sched.Name = name
		return nil
	})
}

// SetTermCampus sets the term and campus used for generation.
func (s *Session) SetTermCampus(term, campus string) error {
	return s.mutate(func(sched *schedule.Schedule) error {
		sched.Term = term
		sched.Campus = campus
		return nil
	})
}

// ApplyAlteration applies a recommended alteration to the current schedule.
func (s *Session) ApplyAlteration(alt schedule.Alteration) (Diff, error) {
	var diff Diff
	err := s.mutate(func(sched *schedule.Schedule) error {
		var next schedule.Schedule
		next, diff = ApplyAlteration(*sched, alt, s.ids)
		*sched = next
		return nil
	})
	return diff, err
}

// SetCourseRating attaches a rating to every course with courseID. Ratings
// are display data and do not mark the schedule dirty.
func (s *Session) SetCourseRating(courseID string, score schedule.ClassScore) error {
	if s.state == StateEmpty {
		return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
	found := false
	for i := range s.current.Courses {
		c := &s.current.Courses[i]
		if c.CourseID != courseID {
			continue
		}
		rd := score
		c.RatingDetails = &rd
		c.DifficultyRating = int(score.Score + 0.5)
		if c.CreditHours == 0 {
			c.CreditHours = score.CreditHours
		}
		found = true
	}
	if !found {
		return fmt.Errorf("course %q: %w", courseID, schedule.ErrNotFound)
	}
	return nil
}

// SetAnalysis stores backend-computed aggregates without marking the schedule dirty.
func (s *Session) SetAnalysis(difficulty, weeklyHours, creditHours float64) error {
	if s.state == StateEmpty {
		return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
	s.current.DifficultyScore = difficulty
	s.current.WeeklyHours = weeklyHours
	if creditHours > 0 {
		s.current.CreditHours = creditHours
	}
	return nil
}

// ShowGenerated enters the preview with the first candidate selected. The
// schedule as it is now is kept as a snapshot until the preview ends.
// Calling it again while previewing replaces the candidates and keeps the
// original snapshot.
func (s *Session) ShowGenerated(candidates []schedule.Schedule) error {
	if err := s.require(append([]State{StateGenerated}, editable...)...); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoCandidates
	}
	if s.state != StateGenerated {
		s.snapshot = s.current.Clone()
		s.prevState = s.state
		s.prevDirty = s.dirty
	}
	s.candidates = make([]schedule.Schedule, len(candidates))
	for i := range candidates {
		s.candidates[i] = candidates[i].Clone()
	}
	s.state = StateGenerated
	return s.SelectGenerated(0)
}

// SelectGenerated previews the candidate at index.
func (s *Session) SelectGenerated(index int) error {
	if err := s.require(StateGenerated); err != nil {
		return err
	}
	if index < 0 || index >= len(s.candidates) {
		return fmt.Errorf("candidate %d: %w", index, schedule.ErrNotFound)
	}
	s.selected = index
	s.current = MergeGenerated(s.snapshot, s.candidates[index], s.ids)
	return nil
}

// AcceptGenerated keeps the previewed candidate as an edit.
func (s *Session) AcceptGenerated() error {
	if err := s.require(StateGenerated); err != nil {
		return err
	}
	s.endPreview()
	s.state = StateEdited
	s.dirty = true
	s.current.Dirty = true
	return nil
}

// DiscardGenerated restores the schedule from before the preview.
func (s *Session) DiscardGenerated() error {
	if err := s.require(StateGenerated); err != nil {
		return err
	}
	s.current = s.snapshot
	s.state = s.prevState
	s.dirty = s.prevDirty
	s.endPreview()
	return nil
}

func (s *Session) endPreview() {
	s.snapshot = schedule.Schedule{}
	s.candidates = nil
	s.selected = 0
}

// BeginSave moves to Saving and returns the schedule to persist.
func (s *Session) BeginSave() (schedule.Schedule, error) {
	if err := s.require(editable...); err != nil {
		return schedule.Schedule{}, err
	}
	s.preSave = s.state
	s.state = StateSaving
	return s.current.Clone(), nil
}

// SaveSucceeded records the persisted ids and marks the schedule clean.
func (s *Session) SaveSucceeded(remoteID, localID int64) error {
	if err := s.require(StateSaving); err != nil {
		return err
	}
	if remoteID != 0 {
		s.current.ID = remoteID
	}
	if localID != 0 {
		s.current.LocalID = localID
	}
	s.current.Dirty = false
	s.state = StateSaved
	s.dirty = false
	return nil
}

// SaveFailed returns to the state before the save; changes stay unsaved.
func (s *Session) SaveFailed() error {
	if err := s.require(StateSaving); err != nil {
		return err
	}
	s.state = s.preSave
	return nil
}

// SetFavoriteFlag updates the favorite flag after the collection changed.
func (s *Session) SetFavoriteFlag(favorite bool) {
	if s.state != StateEmpty {
		s.current.Favorite = favorite
	}
}

// SetLocalID records the local store key after a draft was written.
func (s *Session) SetLocalID(id int64) {
	if s.state != StateEmpty {
		s.current.LocalID = id
	}
}
