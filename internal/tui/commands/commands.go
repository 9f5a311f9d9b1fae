// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CSE5914-Group99/schedule-planner/internal/reconcile"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/summary"
)

// Planner is the part of the planner service the TUI drives.
type Planner interface {
	Refresh(ctx context.Context) ([]schedule.Schedule, error)
	Schedules(ctx context.Context) ([]schedule.Schedule, error)
	Open(ctx context.Context, localID int64) (schedule.Schedule, error)
	OpenFavorite(ctx context.Context) (schedule.Schedule, bool, error)
	Current() (schedule.Schedule, bool)
	State() reconcile.State
	Dirty() bool
	SetConfirm(fn reconcile.ConfirmFunc)
	Create(ctx context.Context, name, term, campus string) (schedule.Schedule, error)
	Edit(ctx context.Context, fn func(*reconcile.Session) error) (schedule.Schedule, error)
	Save(ctx context.Context) (schedule.Schedule, error)
	Favorite(ctx context.Context, localID int64) error
	Generate(ctx context.Context) ([]schedule.Schedule, error)
	SelectCandidate(index int) (schedule.Schedule, error)
	AcceptCandidate(ctx context.Context) (schedule.Schedule, error)
	DiscardCandidates() (schedule.Schedule, error)
	Analyze(ctx context.Context) (schedule.Schedule, bool, error)
}

// Timeout bounds every planner call made from the TUI.
const Timeout = 45 * time.Second

// LoadedMsg is sent when schedules are listed and one is open.
type LoadedMsg struct {
	Schedules []schedule.Schedule
	Open      schedule.Schedule
	HasOpen   bool
	// Offline is set when the backend could not be reached and the local
	// copy was used instead.
	Offline error
}

// OpenedMsg is sent when another schedule is opened.
type OpenedMsg struct {
	Schedule schedule.Schedule
}

// EditedMsg is sent after a local change to the open schedule.
type EditedMsg struct {
	Schedule schedule.Schedule
	Status   string
}

// SavedMsg is sent when the open schedule reached the backend.
type SavedMsg struct {
	Schedule schedule.Schedule
}

// ConfirmNameMsg asks the user to keep a placeholder name before saving.
type ConfirmNameMsg struct {
	Name string
}

// GeneratedMsg carries the candidate schedules; the first one is previewed.
type GeneratedMsg struct {
	Candidates []schedule.Schedule
}

// PreviewMsg is sent when another candidate is previewed.
type PreviewMsg struct {
	Schedule schedule.Schedule
	Index    int
}

// PreviewClosedMsg is sent when a preview was kept or discarded.
type PreviewClosedMsg struct {
	Schedule schedule.Schedule
	Kept     bool
}

// AnalyzedMsg is sent when difficulty analysis finished.
type AnalyzedMsg struct {
	Schedule schedule.Schedule
	Ran      bool
}

// WeekSummaryMsg is sent when week summary data is ready.
type WeekSummaryMsg struct {
	Summary *summary.WeekSummary
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), Timeout)
}

// Load refreshes from the backend and opens the favorite schedule. A failed
// refresh falls back to the local store.
func Load(p Planner) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		msg := LoadedMsg{}
		list, err := p.Refresh(ctx)
		if err != nil {
			msg.Offline = err
			list, err = p.Schedules(ctx)
			if err != nil {
				return ErrMsg{Err: err}
			}
		}
		msg.Schedules = list

		if cur, ok := p.Current(); ok {
			msg.Open, msg.HasOpen = cur, true
			return msg
		}
		s, ok, err := p.OpenFavorite(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		msg.Open, msg.HasOpen = s, ok
		return msg
	}
}

// Open switches to the schedule with localID.
func Open(p Planner, localID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		s, err := p.Open(ctx, localID)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("opening schedule: %w", err)}
		}
		return OpenedMsg{Schedule: s}
	}
}

// Create starts a new draft and opens it.
func Create(p Planner, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		s, err := p.Create(ctx, name, "", "")
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating schedule: %w", err)}
		}
		return EditedMsg{Schedule: s, Status: fmt.Sprintf("Created %q", s.Name)}
	}
}

// Rename renames the open schedule.
func Rename(p Planner, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		s, err := p.Edit(ctx, func(sess *reconcile.Session) error {
			return sess.Rename(name)
		})
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("renaming: %w", err)}
		}
		return EditedMsg{Schedule: s, Status: fmt.Sprintf("Renamed to %q", s.Name)}
	}
}

// DeleteItem removes a course or event from the open schedule.
func DeleteItem(p Planner, item schedule.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		s, err := p.Edit(ctx, func(sess *reconcile.Session) error {
			if item.Kind == schedule.KindCourse {
				return sess.DeleteCourse(item.ID)
			}
			return sess.DeleteEvent(item.ID)
		})
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("removing %s: %w", item.Label(), err)}
		}
		return EditedMsg{Schedule: s, Status: fmt.Sprintf("Removed %s", item.Label())}
	}
}

// Save pushes the open schedule. keepGeneric answers the placeholder name
// question; when it is false and the name is a placeholder, a
// ConfirmNameMsg comes back instead of an error.
func Save(p Planner, keepGeneric bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		p.SetConfirm(func(string) bool { return keepGeneric })
		s, err := p.Save(ctx)
		if err != nil {
			if errors.Is(err, reconcile.ErrGenericName) {
				cur, _ := p.Current()
				return ConfirmNameMsg{Name: cur.Name}
			}
			return ErrMsg{Err: fmt.Errorf("saving: %w", err)}
		}
		return SavedMsg{Schedule: s}
	}
}

// Favorite marks the schedule with localID as the favorite.
func Favorite(p Planner, localID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := p.Favorite(ctx, localID); err != nil {
			return ErrMsg{Err: fmt.Errorf("setting favorite: %w", err)}
		}
		list, err := p.Schedules(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		cur, ok := p.Current()
		return LoadedMsg{Schedules: list, Open: cur, HasOpen: ok}
	}
}

// Generate asks the backend for alternative schedules.
func Generate(p Planner) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		candidates, err := p.Generate(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("generating: %w", err)}
		}
		return GeneratedMsg{Candidates: candidates}
	}
}

// SelectCandidate previews candidate index. It runs synchronously because
// nothing leaves the process.
func SelectCandidate(p Planner, index int) tea.Cmd {
	return func() tea.Msg {
		s, err := p.SelectCandidate(index)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return PreviewMsg{Schedule: s, Index: index}
	}
}

// AcceptCandidate keeps the previewed schedule as an unsaved edit.
func AcceptCandidate(p Planner) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		s, err := p.AcceptCandidate(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("keeping candidate: %w", err)}
		}
		return PreviewClosedMsg{Schedule: s, Kept: true}
	}
}

// DiscardCandidates restores the schedule from before generation.
func DiscardCandidates(p Planner) tea.Cmd {
	return func() tea.Msg {
		s, err := p.DiscardCandidates()
		if err != nil {
			return ErrMsg{Err: err}
		}
		return PreviewClosedMsg{Schedule: s}
	}
}

// Analyze scores the open schedule's difficulty.
func Analyze(p Planner) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		s, ran, err := p.Analyze(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("analyzing: %w", err)}
		}
		return AnalyzedMsg{Schedule: s, Ran: ran}
	}
}

// WeekSummary builds the summary of the open schedule for the week of ref.
func WeekSummary(s schedule.Schedule, ref time.Time) tea.Cmd {
	return func() tea.Msg {
		ws, err := summary.BuildWeekSummary(context.Background(), s, ref, nil)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return WeekSummaryMsg{Summary: ws}
	}
}

// CopyText puts text on the system clipboard.
func CopyText(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what + " to the clipboard"}
	}
}
