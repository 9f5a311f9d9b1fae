package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/CSE5914-Group99/schedule-planner/internal/payload"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// ErrMaxRetriesExceeded is returned when no recommendation passed validation.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded, validation still failing")

// DefaultMaxRetries is used when a Recommender is built with a negative retry count.
const DefaultMaxRetries = 2

const recommendPrompt = `You are an academic advisor helping a student adjust a weekly course schedule.

Term: %s
Campus: %s

Current schedule:
%s

The student wants to replace these classes:
%s

Rules:
1. Suggest between 1 and 3 alternative alterations.
2. classes_to_remove must name classes from the current schedule using the course id, e.g. "CSE 2221".
3. Never add a class that is already in the schedule unless it is also removed.
4. Time slots use 24-hour HH:MM and full weekday names (Monday..Sunday).
5. Added classes must not overlap any remaining class or event, or each other.
6. estimated_difficulty_change and estimated_time_change are signed numbers (hours per week for time).
7. confidence is between 0 and 1.
8. Mention weekend or early-morning meetings in warnings.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "alterations": [
    {
      "alteration_name": "string",
      "description": "string",
      "classes_to_remove": ["string"],
      "classes_to_add": [
        {
          "class_id": "string",
          "teacher": "string",
          "time_slots": [{"start_time": "HH:MM", "end_time": "HH:MM", "repeat_days": ["Monday"]}],
          "why_recommended": "string"
        }
      ],
      "estimated_difficulty_change": 0,
      "estimated_time_change": 0,
      "confidence": 0.0,
      "warnings": ["string"]
    }
  ],
  "overall_summary": "string",
  "confidence": 0.0
}`

const recommendPromptCompact = `You adjust a student's weekly course schedule. Return JSON only.

Term: %s  Campus: %s

Schedule:
%s

Replace:
%s

Rules:
- classes_to_remove uses course ids from the schedule.
- Times are HH:MM (24-hour), days are full names.
- No overlaps with remaining classes or events.
- confidence between 0 and 1.

JSON schema:
{"alterations":[{"alteration_name":"","description":"","classes_to_remove":[""],"classes_to_add":[{"class_id":"","teacher":"","time_slots":[{"start_time":"HH:MM","end_time":"HH:MM","repeat_days":["Monday"]}],"why_recommended":""}],"estimated_difficulty_change":0,"estimated_time_change":0,"confidence":0,"warnings":[""]}],"overall_summary":"","confidence":0}`

// Recommender asks a chat model for schedule alterations and validates the
// answer before translating it into the domain model.
type Recommender struct {
	client     Client
	maxRetries int
	compact    bool
}

// NewRecommender creates a Recommender. A negative maxRetries selects
// DefaultMaxRetries. Compact prompts suit small local models.
func NewRecommender(client Client, maxRetries int, compact bool) *Recommender {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Recommender{client: client, maxRetries: maxRetries, compact: compact}
}

// BuildMessages creates the initial conversation for a recommendation.
func (r *Recommender) BuildMessages(s schedule.Schedule, reqs []schedule.ModificationRequest) []Message {
	tmpl := recommendPrompt
	if r.compact {
		tmpl = recommendPromptCompact
	}
	prompt := fmt.Sprintf(tmpl,
		orNone(s.Term),
		orNone(s.Campus),
		formatSchedule(s),
		formatRequests(reqs),
	)
	return []Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: "Recommend alterations for the classes listed above."},
	}
}

// Recommend implements the same contract as the backend recommendation call.
// Invalid answers are fed back to the model up to maxRetries times. When
// retries run out, alterations that did validate are still returned.
func (r *Recommender) Recommend(ctx context.Context, s schedule.Schedule, reqs []schedule.ModificationRequest) (schedule.AlterationSet, error) {
	if len(reqs) == 0 {
		return schedule.AlterationSet{}, errors.New("recommend: at least one class to replace is required")
	}

	messages := r.BuildMessages(s, reqs)
	validator := NewAlterationValidator(s)

	var (
		last   payload.AlterationResponse
		result ValidationResult
	)
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		var resp payload.AlterationResponse
		if err := r.client.ChatJSON(ctx, messages, &resp); err != nil {
			return schedule.AlterationSet{}, fmt.Errorf("LLM recommendation (attempt %d): %w", attempt+1, err)
		}
		last = resp

		result = validator.Validate(resp.Alterations)
		if result.Valid {
			return payload.TranslateAlterations(resp, s.Term, s.Campus), nil
		}

		if attempt < r.maxRetries {
			respJSON, _ := json.Marshal(resp)
			messages = append(messages,
				Message{Role: "assistant", Content: string(respJSON)},
				Message{Role: "user", Content: result.FormatErrors()},
			)
		}
	}

	bad := result.InvalidAlterations()
	kept := last.Alterations[:0:0]
	for i, a := range last.Alterations {
		if !bad[i] {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return schedule.AlterationSet{}, fmt.Errorf("%w: %s", ErrMaxRetriesExceeded, result.FormatErrors())
	}
	last.Alterations = kept
	return payload.TranslateAlterations(last, s.Term, s.Campus), nil
}

func formatSchedule(s schedule.Schedule) string {
	var b strings.Builder
	if len(s.Courses) == 0 && len(s.Events) == 0 {
		return "(empty)"
	}
	for _, c := range s.Courses {
		fmt.Fprintf(&b, "- class %s", c.CourseID)
		if c.Instructor != "" {
			fmt.Fprintf(&b, " (%s)", c.Instructor)
		}
		fmt.Fprintf(&b, ": %s\n", meeting(c.ItemBase))
	}
	for _, e := range s.Events {
		fmt.Fprintf(&b, "- event %s: %s\n", e.Title, meeting(e.ItemBase))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRequests(reqs []schedule.ModificationRequest) string {
	var b strings.Builder
	for _, r := range reqs {
		fmt.Fprintf(&b, "- %s", r.ClassToReplace)
		if r.Reason != "" {
			fmt.Fprintf(&b, " because %s", r.Reason)
		}
		if r.Criteria != "" {
			fmt.Fprintf(&b, "; wants %s", r.Criteria)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func meeting(b schedule.ItemBase) string {
	if !b.Timed() {
		return "no fixed meeting time"
	}
	days := make([]string, len(b.RepeatDays))
	for i, d := range b.RepeatDays {
		days[i] = d.Short()
	}
	if len(days) == 0 {
		return b.StartTime + "-" + b.EndTime
	}
	return strings.Join(days, "/") + " " + b.StartTime + "-" + b.EndTime
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}
