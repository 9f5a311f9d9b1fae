package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSE5914-Group99/schedule-planner/internal/config"
	"github.com/CSE5914-Group99/schedule-planner/internal/db"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/service"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type stubBackend struct {
	nextID     int64
	added      []schedule.Schedule
	saved      []schedule.Schedule
	candidates []schedule.Schedule
	alts       schedule.AlterationSet
}

func (b *stubBackend) UserID() string { return "u1" }

func (b *stubBackend) ListSchedules(context.Context) ([]schedule.Schedule, []error, error) {
	return nil, nil, nil
}

func (b *stubBackend) AddSchedule(_ context.Context, s schedule.Schedule) (int64, error) {
	b.nextID++
	b.added = append(b.added, s)
	return 100 + b.nextID, nil
}

func (b *stubBackend) SaveSchedule(_ context.Context, s schedule.Schedule) error {
	b.saved = append(b.saved, s)
	return nil
}

func (b *stubBackend) SetFavorite(context.Context, schedule.Schedule) error { return nil }

func (b *stubBackend) DeleteSchedule(context.Context, int64) error { return nil }

func (b *stubBackend) Generate(context.Context, schedule.Schedule, string, string, string) ([]schedule.Schedule, error) {
	return b.candidates, nil
}

func (b *stubBackend) Analyze(_ context.Context, _ string, in ...schedule.Schedule) ([]schedule.Schedule, error) {
	out := in[0]
	out.DifficultyScore = 72
	out.WeeklyHours = 18.5
	return []schedule.Schedule{out}, nil
}

func (b *stubBackend) CourseRating(context.Context, string, string) (schedule.ClassScore, error) {
	return schedule.ClassScore{Score: 61, TimeLoad: 3}, nil
}

func (b *stubBackend) Recommend(context.Context, schedule.Schedule, []schedule.ModificationRequest) (schedule.AlterationSet, error) {
	return b.alts, nil
}

// monday0800 is Monday 2025-09-01 08:00.
var monday0800 = time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)

type harness struct {
	t       *testing.T
	planner *service.Planner
	backend *stubBackend
	cfg     *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	be := &stubBackend{}
	p := service.New(service.Options{
		Backend: be,
		Store:   store,
		Term:    "Autumn 2025",
		Campus:  "Columbus",
		Now:     func() time.Time { return monday0800 },
	})
	cfg := config.Default()
	return &harness{t: t, planner: p, backend: be, cfg: cfg}
}

// run executes one command line against a fresh App sharing the planner,
// the way separate invocations share the local store.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	app := NewApp(Deps{
		Planner: h.planner,
		Config:  h.cfg,
		In:      strings.NewReader(stdin),
		Now:     func() time.Time { return monday0800 },
	})
	var out bytes.Buffer
	app.Root().SetOut(&out)
	app.Root().SetErr(&out)
	app.Root().SetArgs(args)
	err := app.Root().Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func TestCLI_CreateEditSave(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("new", "Fall plan")
	assert.Contains(t, out, `Created draft #1 "Fall plan"`)

	out = h.mustRun("-s", "1", "course", "add", "CSE 2221", "--title", "Software I",
		"--days", "Mon,Wed,Fri", "--start", "9:10", "--end", "10:05", "--credits", "4")
	assert.Contains(t, out, "Added CSE 2221")

	out = h.mustRun("-s", "Fall plan", "event", "add", "Work", "--days", "mon", "--start", "09:30", "--end", "11:00")
	assert.Contains(t, out, "Added Work")
	assert.Contains(t, out, "warning: overlaps CSE 2221")

	out = h.mustRun("list")
	assert.Contains(t, out, "Fall plan")
	assert.Contains(t, out, "unsaved")
	assert.Contains(t, out, "1 course, 1 event")

	out = h.mustRun("-s", "1", "save")
	assert.Contains(t, out, `Saved "Fall plan" (id 101)`)
	require.Len(t, h.backend.added, 1)
	assert.Equal(t, "09:10", h.backend.added[0].Courses[0].StartTime)

	out = h.mustRun("list")
	assert.NotContains(t, out, "unsaved")
}

func TestCLI_EditAndRemoveByCourseID(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Plan")
	h.mustRun("course", "add", "CSE 2221", "--days", "Mon", "--start", "9:10", "--end", "10:05")

	h.mustRun("course", "edit", "cse2221", "--start", "11:30", "--end", "12:25", "--instructor", "Ng")
	s, ok := h.planner.Current()
	require.True(t, ok)
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "11:30", s.Courses[0].StartTime)
	assert.Equal(t, "Ng", s.Courses[0].Instructor)
	assert.Equal(t, []schedule.Day{schedule.Monday}, s.Courses[0].RepeatDays)

	h.mustRun("course", "rm", "CSE 2221")
	s, _ = h.planner.Current()
	assert.Empty(t, s.Courses)

	_, err := h.run("", "course", "rm", "CSE 9999")
	require.ErrorIs(t, err, schedule.ErrNotFound)
}

func TestCLI_SaveGenericNameNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Untitled Schedule")

	out, err := h.run("n\n", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Not saved")
	assert.Empty(t, h.backend.added)

	out, err = h.run("y\n", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved")
	assert.Len(t, h.backend.added, 1)
}

func TestCLI_NoSchedules(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "show")
	require.ErrorIs(t, err, errNoSchedules)
}

func TestCLI_Upcoming(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Plan")
	h.mustRun("course", "add", "CSE 2221", "--days", "Mon,Wed", "--start", "9:10", "--end", "10:05")
	h.mustRun("course", "add", "ENGL 1110")

	out := h.mustRun("upcoming", "-n", "3")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Mon 09:10")
	assert.Contains(t, lines[0], "from now")
	assert.Contains(t, lines[1], "Wed 09:10")
	assert.Contains(t, lines[2], "ENGL 1110")
	assert.Contains(t, lines[2], "no fixed time")

	out = h.mustRun("upcoming", "-n", "1", "--date", "today", "--time", "10:00")
	assert.Contains(t, out, "Wed 09:10")
}

func TestCLI_GenerateAndPick(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Plan")
	h.mustRun("event", "add", "Work", "--days", "Tue", "--start", "13:00", "--end", "15:00")

	h.backend.candidates = []schedule.Schedule{
		{Courses: []schedule.Course{{
			ItemBase: schedule.ItemBase{Title: "Calculus", RepeatDays: []schedule.Day{schedule.Tuesday}, StartTime: "09:00", EndTime: "10:00"},
			CourseID: "MATH 1151",
		}}},
		{Courses: []schedule.Course{{
			ItemBase: schedule.ItemBase{Title: "Physics", RepeatDays: []schedule.Day{schedule.Monday}, StartTime: "10:00", EndTime: "11:00"},
			CourseID: "PHYS 1250",
		}}},
	}

	out := h.mustRun("generate")
	assert.Contains(t, out, "Option 1")
	assert.Contains(t, out, "Option 2")
	assert.Contains(t, out, "2 option(s)")
	s, _ := h.planner.Current()
	assert.Empty(t, s.Courses, "listing options must not change the schedule")

	out = h.mustRun("generate", "--pick", "2")
	assert.Contains(t, out, "Kept option 2")
	s, _ = h.planner.Current()
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "PHYS 1250", s.Courses[0].CourseID)
	require.Len(t, s.Events, 1, "events survive generation")

	_, err := h.run("", "generate", "--pick", "5")
	require.Error(t, err)
}

func TestCLI_AnalyzeOnce(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Plan")
	h.mustRun("course", "add", "CSE 2221", "--days", "Mon", "--start", "9:10", "--end", "10:05")

	out := h.mustRun("analyze")
	assert.Contains(t, out, "Difficulty 72 (Challenging)")
	assert.NotContains(t, out, "Already analyzed")

	out = h.mustRun("analyze")
	assert.Contains(t, out, "Already analyzed")
}

func TestCLI_AlterApply(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Plan")
	h.mustRun("course", "add", "CSE 2331", "--days", "Tue,Thu", "--start", "8:00", "--end", "9:20")
	h.backend.alts = schedule.AlterationSet{Alterations: []schedule.Alteration{{
		Name:   "Swap to CSE 2421",
		Remove: []string{"CSE 2331 (Dr. Smith)"},
		Add: []schedule.Course{{
			ItemBase: schedule.ItemBase{Title: "Systems I", RepeatDays: []schedule.Day{schedule.Monday}, StartTime: "14:00", EndTime: "15:20"},
			CourseID: "CSE 2421",
		}},
		Confidence: 0.8,
	}}}

	out := h.mustRun("alter", "CSE 2331", "--reason", "exams")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "Swap to CSE 2421")
	assert.Contains(t, out, "confidence 80%")

	out = h.mustRun("alter", "CSE 2331", "--apply", "1")
	assert.Contains(t, out, "Removed: CSE 2331")
	assert.Contains(t, out, "Added:   CSE 2421")
	s, _ := h.planner.Current()
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "CSE 2421", s.Courses[0].CourseID)
}

func TestCLI_ExportAndImportICS(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Fall plan")
	h.mustRun("course", "add", "CSE 2221", "--title", "Software I", "--days", "Mon,Wed,Fri", "--start", "9:10", "--end", "10:05")
	h.mustRun("event", "add", "Work", "--days", "Tue", "--start", "13:00", "--end", "15:30")
	h.mustRun("course", "add", "ENGL 1110")

	path := filepath.Join(t.TempDir(), "fall.ics")
	out := h.mustRun("export", "ics", "-o", path, "--until", "2025-12-12")
	assert.Contains(t, out, "Wrote 2 item(s)")
	assert.Contains(t, out, "not exported: ENGL 1110")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BYDAY=MO,WE,FR")

	out = h.mustRun("import", path, "--new", "Copy")
	assert.Contains(t, out, `Imported 2 item(s) into "Copy"`)
	s, _ := h.planner.Current()
	assert.Equal(t, "Copy", s.Name)
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "Software I", s.Courses[0].Title)
	require.Len(t, s.Events, 1)
}

func TestCLI_ExportTSVToStdout(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "Plan")
	h.mustRun("course", "add", "CSE 2221", "--days", "Mon", "--start", "9:10", "--end", "10:05")

	out := h.mustRun("export", "tsv")
	assert.True(t, strings.HasPrefix(out, "Time\tMon\tTue"))
	assert.Contains(t, out, "09:00\tCSE 2221")
}

func TestCLI_Version(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version")
	assert.Equal(t, "planner dev (commit: none)\n", out)
}

func TestLaunchesTUI(t *testing.T) {
	tests := map[string]struct {
		args []string
		want bool
	}{
		"no args":    {nil, true},
		"debug flag": {[]string{"--debug"}, true},
		"subcommand": {[]string{"list"}, false},
		"nested":     {[]string{"course", "add"}, false},
		"unknown":    {[]string{"nope"}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, LaunchesTUI(tt.args))
		})
	}
}
