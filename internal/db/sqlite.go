// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// SQLite implements schedule.Store using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ schedule.Store = (*SQLite)(nil)

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// NewWithDB wraps an existing connection without running migrations.
func NewWithDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const scheduleColumns = `
	local_id, remote_id, name, favorite, difficulty_score, weekly_hours,
	credit_hours, campus, term, dirty, created_at, updated_at
`

// List returns every schedule ordered by name.
func (s *SQLite) List(ctx context.Context) ([]schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY name COLLATE NOCASE, local_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []schedule.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}

	for i := range list {
		if err := loadItems(ctx, s.db, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Get retrieves a schedule by local id.
func (s *SQLite) Get(ctx context.Context, localID int64) (*schedule.Schedule, error) {
	return s.getBy(ctx, "local_id", localID)
}

// GetByRemoteID retrieves a schedule by backend id.
func (s *SQLite) GetByRemoteID(ctx context.Context, remoteID int64) (*schedule.Schedule, error) {
	if remoteID == 0 {
		return nil, fmt.Errorf("schedule with remote id 0: %w", schedule.ErrNotFound)
	}
	return s.getBy(ctx, "remote_id", remoteID)
}

func (s *SQLite) getBy(ctx context.Context, column string, id int64) (*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE ` + column + ` = ? LIMIT 1`

	sc, err := scanSchedule(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s=%d: %w", column, id, schedule.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := loadItems(ctx, s.db, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Put inserts a schedule when LocalID is zero and replaces it otherwise.
func (s *SQLite) Put(ctx context.Context, sc *schedule.Schedule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := putTx(ctx, tx, sc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func putTx(ctx context.Context, tx queryer, sc *schedule.Schedule) error {
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now()
	}
	if sc.UpdatedAt.IsZero() {
		sc.UpdatedAt = sc.CreatedAt
	}

	args := []any{
		sc.ID,
		sc.Name,
		sc.Favorite,
		sc.DifficultyScore,
		sc.WeeklyHours,
		sc.CreditHours,
		sc.Campus,
		sc.Term,
		sc.Dirty,
		sc.CreatedAt.Format(time.RFC3339),
		sc.UpdatedAt.Format(time.RFC3339),
	}

	if sc.LocalID == 0 {
		query := `
			INSERT INTO schedules (
				remote_id, name, favorite, difficulty_score, weekly_hours,
				credit_hours, campus, term, dirty, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("inserting schedule %q: %w", sc.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		sc.LocalID = id
	} else {
		query := `
			UPDATE schedules SET
				remote_id = ?, name = ?, favorite = ?, difficulty_score = ?, weekly_hours = ?,
				credit_hours = ?, campus = ?, term = ?, dirty = ?, created_at = ?, updated_at = ?
			WHERE local_id = ?
		`
		result, err := tx.ExecContext(ctx, query, append(args, sc.LocalID)...)
		if err != nil {
			return fmt.Errorf("updating schedule %d: %w", sc.LocalID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("schedule %d: %w", sc.LocalID, schedule.ErrNotFound)
		}
		if err := deleteItems(ctx, tx, sc.LocalID); err != nil {
			return err
		}
	}

	return insertItems(ctx, tx, sc)
}

// Delete removes a schedule by local id.
func (s *SQLite) Delete(ctx context.Context, localID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteItems(ctx, tx, localID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE local_id = ?`, localID)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("schedule %d: %w", localID, schedule.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReplaceAll swaps the stored set for the given remote schedules.
// Existing rows keep their local id when the remote id matches. Dirty rows
// that were never saved remotely survive the swap.
func (s *SQLite) ReplaceAll(ctx context.Context, schedules []schedule.Schedule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := remoteIndex(ctx, tx)
	if err != nil {
		return err
	}

	keep := make(map[int64]bool, len(schedules))
	for i := range schedules {
		sc := schedules[i].Clone()
		sc.Dirty = false
		sc.LocalID = 0
		if sc.ID != 0 {
			sc.LocalID = existing[sc.ID]
		}
		if err := putTx(ctx, tx, &sc); err != nil {
			return err
		}
		schedules[i].LocalID = sc.LocalID
		keep[sc.LocalID] = true
	}

	rows, err := tx.QueryContext(ctx, `SELECT local_id FROM schedules WHERE NOT (remote_id = 0 AND dirty = 1)`)
	if err != nil {
		return fmt.Errorf("querying stale schedules: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning schedule id: %w", err)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating schedule ids: %w", err)
	}

	for _, id := range stale {
		if err := deleteItems(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE local_id = ?`, id); err != nil {
			return fmt.Errorf("deleting stale schedule %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func remoteIndex(ctx context.Context, q queryer) (map[int64]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT local_id, remote_id FROM schedules WHERE remote_id != 0`)
	if err != nil {
		return nil, fmt.Errorf("querying remote ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	idx := make(map[int64]int64)
	for rows.Next() {
		var local, remote int64
		if err := rows.Scan(&local, &remote); err != nil {
			return nil, fmt.Errorf("scanning remote id: %w", err)
		}
		idx[remote] = local
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating remote ids: %w", err)
	}
	return idx, nil
}

// SetFavorite marks exactly one schedule as favorite.
func (s *SQLite) SetFavorite(ctx context.Context, localID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE local_id = ?`, localID).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking schedule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("schedule %d: %w", localID, schedule.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE schedules SET favorite = (local_id = ?)`, localID); err != nil {
		return fmt.Errorf("setting favorite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row scanner) (schedule.Schedule, error) {
	var (
		sc        schedule.Schedule
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	err := row.Scan(
		&sc.LocalID,
		&sc.ID,
		&sc.Name,
		&sc.Favorite,
		&sc.DifficultyScore,
		&sc.WeeklyHours,
		&sc.CreditHours,
		&sc.Campus,
		&sc.Term,
		&sc.Dirty,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, err
	}
	if err != nil {
		return sc, fmt.Errorf("scanning schedule: %w", err)
	}

	if sc.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return sc, fmt.Errorf("parsing created at: %w", err)
	}
	if sc.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return sc, fmt.Errorf("parsing updated at: %w", err)
	}
	sc.Courses = []schedule.Course{}
	sc.Events = []schedule.Event{}
	return sc, nil
}

func loadItems(ctx context.Context, q queryer, sc *schedule.Schedule) error {
	courseQuery := `
		SELECT item_id, course_id, title, instructor, session, repeat_days, start_time, end_time,
		       color, difficulty_rating, credit_hours, campus, term, rating_details
		FROM courses
		WHERE schedule_id = ?
		ORDER BY position
	`
	rows, err := q.QueryContext(ctx, courseQuery, sc.LocalID)
	if err != nil {
		return fmt.Errorf("querying courses: %w", err)
	}
	for rows.Next() {
		var (
			c       schedule.Course
			days    string
			details sql.NullString
		)
		err := rows.Scan(
			&c.ID,
			&c.CourseID,
			&c.Title,
			&c.Instructor,
			&c.Session,
			&days,
			&c.StartTime,
			&c.EndTime,
			&c.Color,
			&c.DifficultyRating,
			&c.CreditHours,
			&c.Campus,
			&c.Term,
			&details,
		)
		if err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning course: %w", err)
		}
		c.RepeatDays = splitDays(days)
		if details.Valid && details.String != "" {
			var cs schedule.ClassScore
			if err := json.Unmarshal([]byte(details.String), &cs); err != nil {
				_ = rows.Close()
				return fmt.Errorf("decoding rating details for %s: %w", c.CourseID, err)
			}
			c.RatingDetails = &cs
		}
		sc.Courses = append(sc.Courses, c)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating courses: %w", err)
	}

	eventQuery := `
		SELECT item_id, title, description, location, repeat_days, start_time, end_time, color
		FROM events
		WHERE schedule_id = ?
		ORDER BY position
	`
	rows, err = q.QueryContext(ctx, eventQuery, sc.LocalID)
	if err != nil {
		return fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			e    schedule.Event
			days string
		)
		err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.Location,
			&days,
			&e.StartTime,
			&e.EndTime,
			&e.Color,
		)
		if err != nil {
			return fmt.Errorf("scanning event: %w", err)
		}
		e.RepeatDays = splitDays(days)
		sc.Events = append(sc.Events, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating events: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, q queryer, sc *schedule.Schedule) error {
	courseQuery := `
		INSERT INTO courses (
			schedule_id, position, item_id, course_id, title, instructor, session, repeat_days,
			start_time, end_time, color, difficulty_rating, credit_hours, campus, term, rating_details
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, c := range sc.Courses {
		var details any
		if c.RatingDetails != nil {
			buf, err := json.Marshal(c.RatingDetails)
			if err != nil {
				return fmt.Errorf("encoding rating details for %s: %w", c.CourseID, err)
			}
			details = string(buf)
		}
		_, err := q.ExecContext(ctx, courseQuery,
			sc.LocalID,
			i,
			c.ID,
			c.CourseID,
			c.Title,
			c.Instructor,
			c.Session,
			joinDays(c.RepeatDays),
			c.StartTime,
			c.EndTime,
			c.Color,
			c.DifficultyRating,
			c.CreditHours,
			c.Campus,
			c.Term,
			details,
		)
		if err != nil {
			return fmt.Errorf("inserting course %q: %w", c.CourseID, err)
		}
	}

	eventQuery := `
		INSERT INTO events (
			schedule_id, position, item_id, title, description, location,
			repeat_days, start_time, end_time, color
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, e := range sc.Events {
		_, err := q.ExecContext(ctx, eventQuery,
			sc.LocalID,
			i,
			e.ID,
			e.Title,
			e.Description,
			e.Location,
			joinDays(e.RepeatDays),
			e.StartTime,
			e.EndTime,
			e.Color,
		)
		if err != nil {
			return fmt.Errorf("inserting event %q: %w", e.Title, err)
		}
	}
	return nil
}

func deleteItems(ctx context.Context, q queryer, localID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM courses WHERE schedule_id = ?`, localID); err != nil {
		return fmt.Errorf("deleting courses: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM events WHERE schedule_id = ?`, localID); err != nil {
		return fmt.Errorf("deleting events: %w", err)
	}
	return nil
}

func joinDays(days []schedule.Day) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func splitDays(s string) []schedule.Day {
	if s == "" {
		return []schedule.Day{}
	}
	parts := strings.Split(s, ",")
	days := make([]schedule.Day, 0, len(parts))
	for _, p := range parts {
		days = append(days, schedule.Day(p))
	}
	return days
}

// parseTimestamp parses the formats SQLite might return for a timestamp column.
func parseTimestamp(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, v.String); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", v.String)
}
