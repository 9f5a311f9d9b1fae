package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/CSE5914-Group99/schedule-planner/internal/dateutil"
	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func testSchedule() schedule.Schedule {
	return schedule.Schedule{
		ID:   42,
		Name: "Fall plan",
		Courses: []schedule.Course{
			{
				ItemBase: schedule.ItemBase{
					ID:         "c1",
					Title:      "Software I",
					RepeatDays: []schedule.Day{schedule.Monday, schedule.Wednesday, schedule.Friday},
					StartTime:  "09:10",
					EndTime:    "10:05",
					Color:      "#3b82f6",
				},
				CourseID:         "CSE 2221",
				Instructor:       "Ng",
				CreditHours:      4,
				DifficultyRating: 64,
			},
			{
				ItemBase: schedule.ItemBase{ID: "c2", Title: "Online elective"},
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
					EndTime:    "15:30",
					Color:      "#06b6d4",
				},
				Location: "Library",
			},
		},
	}
}

func TestBuildCalendar(t *testing.T) {
	// Wednesday; the week starts Monday 2025-08-25.
	now := time.Date(2025, 8, 27, 12, 0, 0, 0, time.Local)
	cal, skipped := BuildCalendar(testSchedule(), ICSOptions{Now: now})

	require.Len(t, skipped, 1)
	assert.Equal(t, "ENGL 1110", skipped[0].Label())

	events := cal.Events()
	require.Len(t, events, 2)

	course := events[0]
	assert.Equal(t, "42-c1@schedule-planner", course.Id())
	assert.Equal(t, "CSE 2221 Software I", course.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20250825T091000", course.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250825T100500", course.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO,WE,FR", course.GetProperty(ics.ComponentPropertyRrule).Value)

	work := events[1]
	assert.Equal(t, "20250826T130000", work.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "Library", work.GetProperty(ics.ComponentPropertyLocation).Value)
}

func TestBuildCalendar_TermRange(t *testing.T) {
	term, err := dateutil.NewDateRange("2025-08-26", "2025-12-10")
	require.NoError(t, err)

	cal, _ := BuildCalendar(testSchedule(), ICSOptions{Range: *term})
	course := cal.Events()[0]

	// First class after a Tuesday start is Wednesday.
	assert.Equal(t, "20250827T091000", course.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO,WE,FR;UNTIL=20251210T235900", course.GetProperty(ics.ComponentPropertyRrule).Value)
}

func TestICSRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteICS(&buf, testSchedule(), ICSOptions{Now: time.Date(2025, 8, 27, 0, 0, 0, 0, time.Local)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")

	imported, err := ImportICS(&buf)
	require.NoError(t, err)

	require.Len(t, imported.Courses, 1)
	c := imported.Courses[0]
	assert.Equal(t, "CSE 2221", c.CourseID)
	assert.Equal(t, "Software I", c.Title)
	assert.Equal(t, "Ng", c.Instructor)
	assert.Equal(t, []schedule.Day{schedule.Monday, schedule.Wednesday, schedule.Friday}, c.RepeatDays)
	assert.Equal(t, "09:10", c.StartTime)
	assert.Equal(t, "10:05", c.EndTime)

	require.Len(t, imported.Events, 1)
	e := imported.Events[0]
	assert.Equal(t, "Work", e.Title)
	assert.Equal(t, []schedule.Day{schedule.Tuesday}, e.RepeatDays)
	assert.Equal(t, "Library", e.Location)
}

const oneOffCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a@test\r\n" +
	"SUMMARY:MATH1151 Calculus\r\n" +
	"DTSTART:20250902T124000\r\n" +
	"DTEND:20250902T140000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:b@test\r\n" +
	"SUMMARY:MATH1151 Calculus\r\n" +
	"DTSTART:20250904T124000\r\n" +
	"DTEND:20250904T140000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:c@test\r\n" +
	"SUMMARY:Overnight shift\r\n" +
	"DTSTART:20250905T220000\r\n" +
	"DTEND:20250906T060000\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestImportICS_MergesOneOffEvents(t *testing.T) {
	imported, err := ImportICS(strings.NewReader(oneOffCalendar))
	require.NoError(t, err)

	require.Len(t, imported.Courses, 1)
	c := imported.Courses[0]
	assert.Equal(t, "MATH 1151", c.CourseID)
	assert.Equal(t, "Calculus", c.Title)
	assert.Equal(t, []schedule.Day{schedule.Tuesday, schedule.Thursday}, c.RepeatDays)
	assert.Empty(t, imported.Events)
	assert.Equal(t, []string{"Overnight shift"}, imported.Skipped)
}

func TestImportICS_Empty(t *testing.T) {
	empty := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\nEND:VCALENDAR\r\n"
	_, err := ImportICS(strings.NewReader(empty))
	require.ErrorIs(t, err, ErrNoEvents)
}

func TestRuleDays(t *testing.T) {
	assert.Equal(t, []schedule.Day{schedule.Monday, schedule.Friday}, ruleDays("FREQ=WEEKLY;BYDAY=MO,FR"))
	assert.Equal(t, []schedule.Day{schedule.Tuesday}, ruleDays("FREQ=MONTHLY;BYDAY=1TU"))
	assert.Empty(t, ruleDays("FREQ=DAILY"))
}

func TestWriteXLSX(t *testing.T) {
	cfg := grid.DefaultConfig()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testSchedule(), cfg))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{weekSheet, itemsSheet}, f.GetSheetList())

	title, err := f.GetCellValue(weekSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Fall plan", title)

	header, err := f.GetCellValue(weekSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Monday", header)

	// 09:00 row is the second slot: row 4. Monday is column B.
	v, err := f.GetCellValue(weekSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "CSE 2221 09:10-10:05", v)

	// Work starts 13:00 on Tuesday (column C, row 8).
	v, err = f.GetCellValue(weekSheet, "C8")
	require.NoError(t, err)
	assert.Equal(t, "Work 13:00-15:30", v)

	untimed, err := f.GetCellValue(weekSheet, "A17")
	require.NoError(t, err)
	assert.Equal(t, "No fixed time: ENGL 1110", untimed)

	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Kind", rows[0][0])
	assert.Equal(t, []string{"course", "CSE 2221", "Software I", "Mon/Wed/Fri", "09:10", "10:05", "Ng", "4", "64"}, rows[1])
}

func TestTSV(t *testing.T) {
	cfg := grid.Config{StartHour: 9, EndHour: 13, SlotMinutes: 60, Days: schedule.Weekdays}
	out := TSV(testSchedule(), cfg)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 7)
	assert.Equal(t, "Time\tMon\tTue\tWed\tThu\tFri", lines[0])
	assert.Equal(t, "09:00\tCSE 2221\t\tCSE 2221\t\tCSE 2221", lines[1])
	assert.Equal(t, "13:00\t\tWork\t\t\t", lines[5])
	assert.Equal(t, "No fixed time\tENGL 1110", lines[6])
}
