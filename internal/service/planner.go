// Package service coordinates the backend, local store, recommender and the
// editing session. Both CLI and TUI use this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/CSE5914-Group99/schedule-planner/internal/backend"
	"github.com/CSE5914-Group99/schedule-planner/internal/reconcile"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/upcoming"
)

// Service errors.
var (
	ErrNoSchedule       = errors.New("no schedule is open")
	ErrNoRecommender    = errors.New("no recommender configured")
	ErrAnalysisNotReady = errors.New("backend returned no analysis")
	ErrUnsaved          = errors.New("schedule has unsaved changes")
)

// Backend is the subset of the backend client the planner needs.
type Backend interface {
	UserID() string
	ListSchedules(ctx context.Context) ([]schedule.Schedule, []error, error)
	AddSchedule(ctx context.Context, s schedule.Schedule) (int64, error)
	SaveSchedule(ctx context.Context, s schedule.Schedule) error
	SetFavorite(ctx context.Context, s schedule.Schedule) error
	DeleteSchedule(ctx context.Context, id int64) error
	Generate(ctx context.Context, s schedule.Schedule, term, campus, preferences string) ([]schedule.Schedule, error)
	Analyze(ctx context.Context, preferences string, schedules ...schedule.Schedule) ([]schedule.Schedule, error)
	CourseRating(ctx context.Context, courseID, instructor string) (schedule.ClassScore, error)
}

// Recommender produces alteration proposals. Both the backend client and the
// LLM recommender satisfy it.
type Recommender interface {
	Recommend(ctx context.Context, s schedule.Schedule, reqs []schedule.ModificationRequest) (schedule.AlterationSet, error)
}

// Options configures a Planner.
type Options struct {
	Backend     Backend
	Store       schedule.Store
	Recommender Recommender
	Logger      *zap.Logger
	IDs         reconcile.IDSource

	// Defaults used when the schedule has no term or campus of its own.
	Term        string
	Campus      string
	Preferences string

	// Confirm is asked before saving under a placeholder name. Nil declines.
	Confirm reconcile.ConfirmFunc

	Now func() time.Time
}

// Planner owns one editing session and the operations around it.
// Methods are safe for concurrent use; network calls run without holding
// the session lock.
type Planner struct {
	backend     Backend
	store       schedule.Store
	recommender Recommender
	log         *zap.Logger
	term        string
	campus      string
	preferences string
	confirm     reconcile.ConfirmFunc
	now         func() time.Time

	inflight singleflight.Group

	mu      sync.Mutex
	session *reconcile.Session
}

// New creates a Planner.
func New(opts Options) *Planner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ids := opts.IDs
	if ids == nil {
		ids = reconcile.UUIDs
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	recommender := opts.Recommender
	if recommender == nil && opts.Backend != nil {
		if r, ok := opts.Backend.(Recommender); ok {
			recommender = r
		}
	}
	return &Planner{
		backend:     opts.Backend,
		store:       opts.Store,
		recommender: recommender,
		log:         log.Named("planner"),
		term:        opts.Term,
		campus:      opts.Campus,
		preferences: opts.Preferences,
		confirm:     opts.Confirm,
		now:         now,
		session:     reconcile.NewSession(ids),
	}
}

// SetConfirm replaces the placeholder-name confirmation callback.
func (p *Planner) SetConfirm(fn reconcile.ConfirmFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirm = fn
}

// State returns the session state.
func (p *Planner) State() reconcile.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.State()
}

// Current returns a copy of the open schedule.
func (p *Planner) Current() (schedule.Schedule, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Current()
}

// Dirty reports whether the open schedule has unsaved changes.
func (p *Planner) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Dirty()
}

// Refresh pulls every schedule from the backend into the local store.
// Records that fail to normalize are logged and skipped. Local drafts that
// were never saved survive.
func (p *Planner) Refresh(ctx context.Context) ([]schedule.Schedule, error) {
	remote, recordErrs, err := p.backend.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	for _, e := range recordErrs {
		p.log.Warn("skipping schedule record", zap.Error(e))
	}
	if err := p.store.ReplaceAll(ctx, remote); err != nil {
		return nil, fmt.Errorf("refresh: storing schedules: %w", err)
	}
	p.log.Info("schedules refreshed", zap.Int("count", len(remote)), zap.Int("skipped", len(recordErrs)))

	p.reloadOpen(ctx)
	return p.store.List(ctx)
}

// reloadOpen refreshes the open schedule from the store if it has no local edits.
func (p *Planner) reloadOpen(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.session.Current()
	if !ok || p.session.Dirty() || cur.LocalID == 0 {
		return
	}
	if p.session.State() != reconcile.StateLoaded && p.session.State() != reconcile.StateSaved {
		return
	}
	fresh, err := p.store.Get(ctx, cur.LocalID)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			_ = p.session.Clear()
		}
		return
	}
	_ = p.session.Load(*fresh)
}

// Schedules lists the locally stored schedules.
func (p *Planner) Schedules(ctx context.Context) ([]schedule.Schedule, error) {
	return p.store.List(ctx)
}

// Open loads a stored schedule into the session.
func (p *Planner) Open(ctx context.Context, localID int64) (schedule.Schedule, error) {
	s, err := p.store.Get(ctx, localID)
	if err != nil {
		return schedule.Schedule{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	load := p.session.Load
	if s.Dirty {
		load = p.session.LoadDraft
	}
	if err := load(*s); err != nil {
		return schedule.Schedule{}, err
	}
	cur, _ := p.session.Current()
	return cur, nil
}

// OpenFavorite loads the favorite schedule, or the first one when none is
// starred. It reports false when the store is empty.
func (p *Planner) OpenFavorite(ctx context.Context) (schedule.Schedule, bool, error) {
	list, err := p.store.List(ctx)
	if err != nil {
		return schedule.Schedule{}, false, err
	}
	if len(list) == 0 {
		return schedule.Schedule{}, false, nil
	}
	target, ok := reconcile.Favorite(list)
	if !ok {
		target = list[0]
	}
	s, err := p.Open(ctx, target.LocalID)
	if err != nil {
		return schedule.Schedule{}, false, err
	}
	return s, true, nil
}

// Create starts a new schedule and stores it as a local draft.
func (p *Planner) Create(ctx context.Context, name, term, campus string) (schedule.Schedule, error) {
	if term == "" {
		term = p.term
	}
	if campus == "" {
		campus = p.campus
	}
	return p.edit(ctx, func(s *reconcile.Session) error {
		if err := s.NewSchedule(strings.TrimSpace(name)); err != nil {
			return err
		}
		if term != "" || campus != "" {
			return s.SetTermCampus(term, campus)
		}
		return nil
	})
}

// Edit applies fn to the session and stores the result as a local draft.
func (p *Planner) Edit(ctx context.Context, fn func(*reconcile.Session) error) (schedule.Schedule, error) {
	return p.edit(ctx, fn)
}

func (p *Planner) edit(ctx context.Context, fn func(*reconcile.Session) error) (schedule.Schedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := fn(p.session); err != nil {
		return schedule.Schedule{}, err
	}
	cur, ok := p.session.Current()
	if !ok {
		return schedule.Schedule{}, ErrNoSchedule
	}
	if err := p.storeDraft(ctx, &cur); err != nil {
		return schedule.Schedule{}, err
	}
	return cur, nil
}

// storeDraft writes the session schedule locally. Callers hold p.mu.
func (p *Planner) storeDraft(ctx context.Context, cur *schedule.Schedule) error {
	if p.session.State() == reconcile.StateGenerated {
		return nil
	}
	cur.Dirty = p.session.Dirty()
	if err := p.store.Put(ctx, cur); err != nil {
		return fmt.Errorf("storing draft: %w", err)
	}
	p.session.SetLocalID(cur.LocalID)
	return nil
}

// Save checks the name, then creates or updates the schedule on the backend.
// On failure the session returns to its previous state with changes intact.
func (p *Planner) Save(ctx context.Context) (schedule.Schedule, error) {
	p.mu.Lock()
	cur, ok := p.session.Current()
	if !ok {
		p.mu.Unlock()
		return schedule.Schedule{}, ErrNoSchedule
	}
	existing, err := p.store.List(ctx)
	if err != nil {
		p.mu.Unlock()
		return schedule.Schedule{}, err
	}
	if err := reconcile.CheckName(cur, existing, p.confirm); err != nil {
		p.mu.Unlock()
		return schedule.Schedule{}, err
	}
	toSave, err := p.session.BeginSave()
	p.mu.Unlock()
	if err != nil {
		return schedule.Schedule{}, err
	}
	toSave.Name = strings.TrimSpace(toSave.Name)

	remoteID, err := p.push(ctx, toSave)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		_ = p.session.SaveFailed()
		p.log.Warn("save failed", zap.String("name", toSave.Name), zap.Error(err))
		return schedule.Schedule{}, err
	}

	toSave.ID = remoteID
	toSave.Dirty = false
	toSave.UpdatedAt = p.now()
	if err := p.store.Put(ctx, &toSave); err != nil {
		// The backend has the schedule; the next refresh repairs the local copy.
		p.log.Warn("storing saved schedule", zap.Int64("schedule_id", remoteID), zap.Error(err))
	}
	if err := p.session.SaveSucceeded(remoteID, toSave.LocalID); err != nil {
		return schedule.Schedule{}, err
	}
	saved, _ := p.session.Current()
	return saved, nil
}

// push sends s to the backend and returns its remote id. Identical
// concurrent saves share one request.
func (p *Planner) push(ctx context.Context, s schedule.Schedule) (int64, error) {
	var key string
	if s.ID == 0 {
		key = fmt.Sprintf("add:%s:%d:%s", p.backend.UserID(), s.LocalID, strings.ToLower(s.Name))
	} else {
		key = fmt.Sprintf("save:%s:%d", p.backend.UserID(), s.ID)
	}
	v, err, shared := p.inflight.Do(key, func() (any, error) {
		if s.ID == 0 {
			return p.backend.AddSchedule(ctx, s)
		}
		return s.ID, p.backend.SaveSchedule(ctx, s)
	})
	if shared {
		p.log.Debug("save deduplicated", zap.String("key", key))
	}
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Delete removes a schedule from the backend, then locally. A schedule the
// backend no longer knows is treated as deleted.
func (p *Planner) Delete(ctx context.Context, localID int64) error {
	s, err := p.store.Get(ctx, localID)
	if err != nil {
		return err
	}
	if s.ID != 0 {
		key := fmt.Sprintf("delete:%s:%d", p.backend.UserID(), s.ID)
		_, err, _ := p.inflight.Do(key, func() (any, error) {
			return nil, p.backend.DeleteSchedule(ctx, s.ID)
		})
		var re *backend.RemoteError
		switch {
		case err == nil:
		case errors.As(err, &re) && re.NotFound():
			p.log.Warn("schedule already gone on backend", zap.Int64("schedule_id", s.ID))
		default:
			return err
		}
	}
	if err := p.store.Delete(ctx, localID); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.session.Current(); ok && cur.LocalID == localID {
		_ = p.session.Clear()
	}
	return nil
}

// Favorite stars one schedule. The local store is updated first and rolled
// back if the backend rejects the change.
func (p *Planner) Favorite(ctx context.Context, localID int64) error {
	list, err := p.store.List(ctx)
	if err != nil {
		return err
	}
	var target *schedule.Schedule
	for i := range list {
		if list[i].LocalID == localID {
			target = &list[i]
		}
	}
	if target == nil {
		return fmt.Errorf("schedule %d: %w", localID, schedule.ErrNotFound)
	}
	if target.ID == 0 {
		return fmt.Errorf("favorite: %w: save the schedule first", schedule.ErrNotFound)
	}
	prev, hadPrev := reconcile.Favorite(list)
	if hadPrev && prev.LocalID == localID {
		return nil
	}
	// Both schedules are written to the backend; neither may hold unsaved edits.
	if p.unsaved(*target) {
		return fmt.Errorf("favorite %q: %w: save it first", target.Name, ErrUnsaved)
	}
	if hadPrev && prev.ID != 0 && p.unsaved(prev) {
		return fmt.Errorf("favorite: %w in %q: save it first", ErrUnsaved, prev.Name)
	}

	if err := p.store.SetFavorite(ctx, localID); err != nil {
		return err
	}
	p.setSessionFavorite(localID)

	if err := p.pushFavorite(ctx, *target, prev, hadPrev); err != nil {
		p.log.Warn("favorite rejected, rolling back", zap.Int64("schedule_id", target.ID), zap.Error(err))
		if rbErr := p.rollbackFavorite(ctx, *target, prev, hadPrev); rbErr != nil {
			p.log.Error("favorite rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return nil
}

// unsaved reports whether s holds local edits the backend has not seen.
func (p *Planner) unsaved(s schedule.Schedule) bool {
	if s.Dirty {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.session.Current()
	return ok && cur.LocalID == s.LocalID && p.session.Dirty()
}

func (p *Planner) pushFavorite(ctx context.Context, target, prev schedule.Schedule, hadPrev bool) error {
	if err := p.backend.SetFavorite(ctx, target); err != nil {
		return err
	}
	if hadPrev && prev.ID != 0 {
		prev.Favorite = false
		if err := p.backend.SaveSchedule(ctx, prev); err != nil {
			// The new favorite is already stored remotely; the old flag is
			// cleared on the next refresh.
			p.log.Warn("clearing previous favorite", zap.Int64("schedule_id", prev.ID), zap.Error(err))
		}
	}
	return nil
}

func (p *Planner) rollbackFavorite(ctx context.Context, target, prev schedule.Schedule, hadPrev bool) error {
	if hadPrev {
		p.setSessionFavorite(prev.LocalID)
		return p.store.SetFavorite(ctx, prev.LocalID)
	}
	p.setSessionFavorite(0)
	target.Favorite = false
	return p.store.Put(ctx, &target)
}

func (p *Planner) setSessionFavorite(localID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.session.Current(); ok {
		p.session.SetFavoriteFlag(cur.LocalID != 0 && cur.LocalID == localID)
	}
}

// Generate asks the backend for candidates and enters the preview.
func (p *Planner) Generate(ctx context.Context) ([]schedule.Schedule, error) {
	p.mu.Lock()
	base, ok := p.session.Snapshot()
	if !ok {
		base, ok = p.session.Current()
	}
	p.mu.Unlock()
	if !ok {
		return nil, ErrNoSchedule
	}

	term, campus := p.termCampus(base)
	candidates, err := p.backend.Generate(ctx, base, term, campus, p.preferences)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.ShowGenerated(candidates); err != nil {
		return nil, err
	}
	out, _ := p.session.Candidates()
	return out, nil
}

// SelectCandidate previews another generated schedule.
func (p *Planner) SelectCandidate(index int) (schedule.Schedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.SelectGenerated(index); err != nil {
		return schedule.Schedule{}, err
	}
	cur, _ := p.session.Current()
	return cur, nil
}

// Candidates returns the generated schedules and the selected index.
func (p *Planner) Candidates() ([]schedule.Schedule, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Candidates()
}

// AcceptCandidate keeps the previewed schedule as a local edit.
func (p *Planner) AcceptCandidate(ctx context.Context) (schedule.Schedule, error) {
	return p.edit(ctx, (*reconcile.Session).AcceptGenerated)
}

// DiscardCandidates restores the schedule from before generation.
func (p *Planner) DiscardCandidates() (schedule.Schedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.DiscardGenerated(); err != nil {
		return schedule.Schedule{}, err
	}
	cur, _ := p.session.Current()
	return cur, nil
}

// Analyze fills in difficulty, weekly hours and credit hours. Schedules that
// already carry a score are left alone and Analyze reports false.
func (p *Planner) Analyze(ctx context.Context) (schedule.Schedule, bool, error) {
	cur, ok := p.Current()
	if !ok {
		return schedule.Schedule{}, false, ErrNoSchedule
	}
	if !cur.NeedsAnalysis() {
		return cur, false, nil
	}

	out, err := p.backend.Analyze(ctx, p.preferences, cur)
	if err != nil {
		return schedule.Schedule{}, false, err
	}
	if len(out) == 0 {
		return schedule.Schedule{}, false, ErrAnalysisNotReady
	}
	a := out[0]

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.SetAnalysis(a.DifficultyScore, a.WeeklyHours, a.CreditHours); err != nil {
		return schedule.Schedule{}, false, err
	}
	updated, _ := p.session.Current()
	if err := p.persistDisplayData(ctx, updated); err != nil {
		return schedule.Schedule{}, false, err
	}
	return updated, true, nil
}

// persistDisplayData stores non-edit updates for schedules already in the
// store. Callers hold p.mu.
func (p *Planner) persistDisplayData(ctx context.Context, s schedule.Schedule) error {
	if s.LocalID == 0 || p.session.State() == reconcile.StateGenerated {
		return nil
	}
	s.Dirty = p.session.Dirty()
	if err := p.store.Put(ctx, &s); err != nil {
		return fmt.Errorf("storing analysis: %w", err)
	}
	return nil
}

// Recommend asks the configured recommender for alterations.
func (p *Planner) Recommend(ctx context.Context, reqs []schedule.ModificationRequest) (schedule.AlterationSet, error) {
	if p.recommender == nil {
		return schedule.AlterationSet{}, ErrNoRecommender
	}
	cur, ok := p.Current()
	if !ok {
		return schedule.AlterationSet{}, ErrNoSchedule
	}
	if cur.Term == "" || cur.Campus == "" {
		cur.Term, cur.Campus = p.termCampus(cur)
	}
	set, err := p.recommender.Recommend(ctx, cur, reqs)
	if err != nil {
		return schedule.AlterationSet{}, err
	}
	p.log.Info("alterations received", zap.Int("count", len(set.Alterations)))
	return set, nil
}

// ApplyAlteration applies an accepted alteration and stores the draft.
func (p *Planner) ApplyAlteration(ctx context.Context, alt schedule.Alteration) (schedule.Schedule, reconcile.Diff, error) {
	var diff reconcile.Diff
	cur, err := p.edit(ctx, func(s *reconcile.Session) error {
		var err error
		diff, err = s.ApplyAlteration(alt)
		return err
	})
	return cur, diff, err
}

// Rating fetches the rating for a course in the open schedule and attaches
// it to every matching course.
func (p *Planner) Rating(ctx context.Context, courseID string) (schedule.ClassScore, error) {
	cur, ok := p.Current()
	if !ok {
		return schedule.ClassScore{}, ErrNoSchedule
	}
	i := slices.IndexFunc(cur.Courses, func(c schedule.Course) bool { return c.CourseID == courseID })
	if i < 0 {
		return schedule.ClassScore{}, fmt.Errorf("course %q: %w", courseID, schedule.ErrNotFound)
	}

	score, err := p.backend.CourseRating(ctx, courseID, cur.Courses[i].Instructor)
	if err != nil {
		return schedule.ClassScore{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.session.SetCourseRating(courseID, score); err != nil {
		return schedule.ClassScore{}, err
	}
	updated, _ := p.session.Current()
	if err := p.persistDisplayData(ctx, updated); err != nil {
		return schedule.ClassScore{}, err
	}
	return score, nil
}

// Upcoming ranks the open schedule's items by how soon they next occur.
func (p *Planner) Upcoming(limit int) []upcoming.Occurrence {
	cur, ok := p.Current()
	if !ok {
		return nil
	}
	return upcoming.Rank(cur.Items(), p.now(), limit)
}

func (p *Planner) termCampus(s schedule.Schedule) (string, string) {
	term, campus := s.Term, s.Campus
	if term == "" {
		term = p.term
	}
	if campus == "" {
		campus = p.campus
	}
	return term, campus
}
