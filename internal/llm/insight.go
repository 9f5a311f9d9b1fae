package llm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

const advisorSystemPrompt = `You are a concise academic workload advisor. Output ONLY the exact format shown - no markdown, no extra text.`

const advisorPromptTemplate = `Review this weekly class schedule and output EXACTLY this format (no markdown, no code blocks):

THEME: [ 2-4 word theme ]

LOAD: One sentence on total contact hours and credit hours.
CRUNCH: The heaviest day and why.
GAPS: Mention back-to-back blocks or long idle gaps if any.

NEXT STEPS:
➜  First concrete change to balance the week.
➜  Second concrete change.

Data Format:
- [C] = Class (difficulty 0-100 when known), [E] = Event
- Credit hours: %s

Weekly Data:
%s

Rules:
- Keep each line under 70 characters
- Be specific with days and times from the data
- If no issue exists for a category, omit that line
- Output plain text only`

// Advisor produces a short plain-text assessment of a schedule.
type Advisor struct {
	client Client
}

// NewAdvisor creates an Advisor with the given LLM client.
func NewAdvisor(client Client) *Advisor {
	return &Advisor{client: client}
}

// Assess asks the model to comment on the weekly load of s.
func (a *Advisor) Assess(ctx context.Context, s schedule.Schedule) (string, error) {
	prompt := fmt.Sprintf(advisorPromptTemplate,
		fmt.Sprintf("%g", s.TotalCreditHours()),
		FormatWeek(s),
	)
	out, err := a.client.Chat(ctx, []Message{
		{Role: "system", Content: advisorSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("assessing schedule: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// FormatWeek lists the schedule day by day for model consumption.
func FormatWeek(s schedule.Schedule) string {
	var sb strings.Builder
	items := s.Items()

	for _, day := range schedule.AllDays {
		var today []schedule.Item
		for _, it := range items {
			if it.Timed() && it.OccursOn(day) {
				today = append(today, it)
			}
		}
		if len(today) == 0 {
			continue
		}
		sortByStart(today)

		fmt.Fprintf(&sb, "%s\n", day)
		for _, it := range today {
			tag := "[E]"
			if it.Kind == schedule.KindCourse {
				tag = "[C]"
			}
			label := it.Label()
			if it.Kind == schedule.KindCourse && it.Difficulty > 0 {
				label = fmt.Sprintf("%s (%d)", label, it.Difficulty)
			}
			fmt.Fprintf(&sb, "  %s-%s  %s  %s  %s\n",
				it.StartTime, it.EndTime, tag, label, schedule.FormatMinutes(it.Minutes()))
		}
	}

	var untimed []string
	for _, it := range items {
		if !it.Timed() {
			untimed = append(untimed, it.Label())
		}
	}
	if len(untimed) > 0 {
		fmt.Fprintf(&sb, "No fixed time: %s\n", strings.Join(untimed, ", "))
	}

	if sb.Len() == 0 {
		return "(empty week)\n"
	}
	return sb.String()
}

func sortByStart(items []schedule.Item) {
	slices.SortStableFunc(items, func(a, b schedule.Item) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
}
