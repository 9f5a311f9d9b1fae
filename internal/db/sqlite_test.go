package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleSchedule(name string, remoteID int64) *schedule.Schedule {
	return &schedule.Schedule{
		ID:     remoteID,
		Name:   name,
		Campus: "Columbus",
		Term:   "Autumn 2025",
		Courses: []schedule.Course{
			{
				ItemBase: schedule.ItemBase{
					ID:         "c1",
					Title:      "Software I",
					RepeatDays: []schedule.Day{schedule.Monday, schedule.Wednesday, schedule.Friday},
					StartTime:  "09:10",
					EndTime:    "10:05",
					Color:      "#4F46E5",
				},
				CourseID:         "CSE 2221",
				Instructor:       "Ng",
				DifficultyRating: 64,
				CreditHours:      4,
				RatingDetails: &schedule.ClassScore{
					CourseID: "CSE 2221",
					Score:    64,
					Tags:     []string{"projects"},
				},
			},
			{
				ItemBase: schedule.ItemBase{ID: "c2", Title: "Online elective", RepeatDays: []schedule.Day{}},
				CourseID: "ENGL 1110",
			},
		},
		Events: []schedule.Event{
			{
				ItemBase: schedule.ItemBase{
					ID:         "e1",
					Title:      "Work",
					RepeatDays: []schedule.Day{schedule.Tuesday},
					StartTime:  "13:00",
					EndTime:    "17:00",
				},
				Location: "Library",
			},
		},
		CreditHours: 4,
		CreatedAt:   time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPutAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sc := sampleSchedule("Autumn plan", 12)
	if err := repo.Put(ctx, sc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if sc.LocalID == 0 {
		t.Fatal("expected LocalID to be set after insert")
	}

	got, err := repo.Get(ctx, sc.LocalID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Name != "Autumn plan" || got.ID != 12 || got.Term != "Autumn 2025" {
		t.Errorf("unexpected schedule header: %+v", got)
	}
	if !got.CreatedAt.Equal(sc.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, sc.CreatedAt)
	}
	if len(got.Courses) != 2 || len(got.Events) != 1 {
		t.Fatalf("expected 2 courses and 1 event, got %d and %d", len(got.Courses), len(got.Events))
	}

	c := got.Courses[0]
	if c.CourseID != "CSE 2221" || c.StartTime != "09:10" || c.Color != "#4F46E5" {
		t.Errorf("unexpected course: %+v", c)
	}
	if len(c.RepeatDays) != 3 || c.RepeatDays[2] != schedule.Friday {
		t.Errorf("RepeatDays = %v", c.RepeatDays)
	}
	if c.RatingDetails == nil || c.RatingDetails.Score != 64 || c.RatingDetails.Tags[0] != "projects" {
		t.Errorf("RatingDetails = %+v", c.RatingDetails)
	}
	if got.Courses[1].RatingDetails != nil {
		t.Error("expected no rating details for second course")
	}
	if got.Courses[1].RepeatDays == nil || len(got.Courses[1].RepeatDays) != 0 {
		t.Errorf("expected empty non-nil days, got %#v", got.Courses[1].RepeatDays)
	}
	if got.Events[0].Location != "Library" || got.Events[0].EndTime != "17:00" {
		t.Errorf("unexpected event: %+v", got.Events[0])
	}
}

func TestPutUpdateReplacesItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sc := sampleSchedule("Plan", 0)
	if err := repo.Put(ctx, sc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	sc.Name = "Renamed"
	sc.Courses = sc.Courses[:1]
	sc.Events = nil
	sc.Dirty = true
	if err := repo.Put(ctx, sc); err != nil {
		t.Fatalf("Put update failed: %v", err)
	}

	got, err := repo.Get(ctx, sc.LocalID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Renamed" || !got.Dirty {
		t.Errorf("unexpected header after update: %+v", got)
	}
	if len(got.Courses) != 1 || len(got.Events) != 0 {
		t.Errorf("expected 1 course and 0 events, got %d and %d", len(got.Courses), len(got.Events))
	}
}

func TestPutUnknownLocalID(t *testing.T) {
	repo := newTestRepo(t)
	sc := sampleSchedule("Ghost", 0)
	sc.LocalID = 999

	err := repo.Put(context.Background(), sc)
	if !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, 42); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByRemoteID(ctx, 42); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("GetByRemoteID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByRemoteID(ctx, 0); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("GetByRemoteID(0): expected ErrNotFound, got %v", err)
	}
}

func TestGetByRemoteID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sc := sampleSchedule("Remote", 77)
	if err := repo.Put(ctx, sc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := repo.GetByRemoteID(ctx, 77)
	if err != nil {
		t.Fatalf("GetByRemoteID failed: %v", err)
	}
	if got.LocalID != sc.LocalID {
		t.Errorf("LocalID = %d, want %d", got.LocalID, sc.LocalID)
	}
}

func TestListOrderedByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "Alpha", "beta"} {
		if err := repo.Put(ctx, sampleSchedule(name, 0)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(list))
	}
	want := []string{"Alpha", "beta", "zeta"}
	for i, sc := range list {
		if sc.Name != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, sc.Name, want[i])
		}
		if len(sc.Courses) != 2 {
			t.Errorf("list[%d] has %d courses, want 2", i, len(sc.Courses))
		}
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sc := sampleSchedule("Doomed", 0)
	if err := repo.Put(ctx, sc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := repo.Delete(ctx, sc.LocalID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, sc.LocalID); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, sc.LocalID); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestReplaceAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	kept := sampleSchedule("Kept", 1)
	stale := sampleSchedule("Stale", 2)
	draft := sampleSchedule("Draft", 0)
	draft.Dirty = true
	for _, sc := range []*schedule.Schedule{kept, stale, draft} {
		if err := repo.Put(ctx, sc); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	incoming := []schedule.Schedule{
		*sampleSchedule("Kept (server)", 1),
		*sampleSchedule("Fresh", 3),
	}
	if err := repo.ReplaceAll(ctx, incoming); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	if incoming[0].LocalID != kept.LocalID {
		t.Errorf("expected remote id 1 to keep local id %d, got %d", kept.LocalID, incoming[0].LocalID)
	}
	if incoming[1].LocalID == 0 {
		t.Error("expected new schedule to receive a local id")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	names := make(map[string]bool)
	for _, sc := range list {
		names[sc.Name] = true
	}
	for _, want := range []string{"Kept (server)", "Fresh", "Draft"} {
		if !names[want] {
			t.Errorf("expected %q to be stored, got %v", want, names)
		}
	}
	if names["Stale"] {
		t.Error("expected stale schedule to be removed")
	}
}

func TestSetFavorite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := sampleSchedule("A", 0)
	a.Favorite = true
	b := sampleSchedule("B", 0)
	for _, sc := range []*schedule.Schedule{a, b} {
		if err := repo.Put(ctx, sc); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	if err := repo.SetFavorite(ctx, b.LocalID); err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	favorites := 0
	for _, sc := range list {
		if sc.Favorite {
			favorites++
			if sc.LocalID != b.LocalID {
				t.Errorf("expected %q to be favorite, got %q", "B", sc.Name)
			}
		}
	}
	if favorites != 1 {
		t.Errorf("expected exactly one favorite, got %d", favorites)
	}

	if err := repo.SetFavorite(ctx, 999); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDaysRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		days []schedule.Day
		want string
	}{
		{"empty", []schedule.Day{}, ""},
		{"single", []schedule.Day{schedule.Monday}, "Monday"},
		{"several", []schedule.Day{schedule.Tuesday, schedule.Thursday}, "Tuesday,Thursday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := joinDays(tt.days)
			if joined != tt.want {
				t.Errorf("joinDays = %q, want %q", joined, tt.want)
			}
			back := splitDays(joined)
			if len(back) != len(tt.days) {
				t.Fatalf("splitDays returned %v", back)
			}
			for i := range back {
				if back[i] != tt.days[i] {
					t.Errorf("day %d = %q, want %q", i, back[i], tt.days[i])
				}
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   sql.NullString
		wantErr bool
		zero    bool
	}{
		{"null", sql.NullString{}, false, true},
		{"rfc3339", sql.NullString{String: "2025-01-15T10:00:00Z", Valid: true}, false, false},
		{"sqlite datetime", sql.NullString{String: "2025-01-15 10:00:00", Valid: true}, false, false},
		{"garbage", sql.NullString{String: "yesterday", Valid: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimestamp error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.IsZero() != tt.zero {
				t.Errorf("IsZero = %v, want %v", got.IsZero(), tt.zero)
			}
		})
	}
}

func TestSQLite_FailurePaths(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func(s *SQLite) error
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "set favorite rolls back on update error",
			call: func(s *SQLite) error { return s.SetFavorite(ctx, 3) },
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schedules`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec(`UPDATE schedules SET favorite`).
					WithArgs(int64(3)).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
		{
			name: "set favorite unknown id",
			call: func(s *SQLite) error { return s.SetFavorite(ctx, 8) },
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schedules`).
					WithArgs(int64(8)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			wantErr: schedule.ErrNotFound,
		},
		{
			name: "delete rolls back when child delete fails",
			call: func(s *SQLite) error { return s.Delete(ctx, 5) },
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM courses`).
					WithArgs(int64(5)).
					WillReturnError(sql.ErrTxDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrTxDone,
		},
		{
			name: "begin failure",
			call: func(s *SQLite) error { return s.Put(ctx, sampleSchedule("x", 0)) },
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
		{
			name: "replace all fails reading remote ids",
			call: func(s *SQLite) error { return s.ReplaceAll(ctx, nil) },
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT local_id, remote_id FROM schedules`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = conn.Close() }()

			tt.mock(mock)
			err = tt.call(NewWithDB(conn))
			require.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
