package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/payload"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// ErrNoSchedules is returned when generation produced no usable candidate.
var ErrNoSchedules = errors.New("no valid schedules could be generated with the given constraints")

// Generate asks the backend for candidate schedules built from s.
// Courses that already carry times are treated as fixed by the backend.
func (c *Client) Generate(ctx context.Context, s schedule.Schedule, term, campus, preferences string) ([]schedule.Schedule, error) {
	req := payload.NewGenerateRequest(s, term, campus, preferences)
	data, err := c.do(ctx, "generate", http.MethodPost, "/schedules/generate", nil, req)
	if err != nil {
		return nil, err
	}
	out, errs := payload.DecodeGenerated(data)
	for _, e := range errs {
		c.log.Warn("skipping generated candidate", zap.Error(e))
	}
	if len(out) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("generate: %w", errors.Join(append([]error{ErrNoSchedules}, errs...)...))
		}
		return nil, ErrNoSchedules
	}
	c.log.Info("schedules generated", zap.Int("candidates", len(out)))
	return out, nil
}

// Analyze returns the schedules with difficulty score, weekly hours and
// credit hours filled in by the backend.
func (c *Client) Analyze(ctx context.Context, preferences string, schedules ...schedule.Schedule) ([]schedule.Schedule, error) {
	req := payload.NewAnalyzeRequest(preferences, schedules...)
	data, err := c.do(ctx, "analyze", http.MethodPost, "/schedules/analyze", nil, req)
	if err != nil {
		return nil, err
	}
	out, errs := payload.NormalizeAll(data)
	if len(out) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("analyze: %w", errors.Join(errs...))
	}
	return out, nil
}

// Recommend requests alterations that replace the given classes.
func (c *Client) Recommend(ctx context.Context, s schedule.Schedule, reqs []schedule.ModificationRequest) (schedule.AlterationSet, error) {
	body := payload.NewAlterationRequest(s, reqs)
	data, err := c.do(ctx, "recommend", http.MethodPost, "/schedules/alterations", nil, body)
	if err != nil {
		return schedule.AlterationSet{}, err
	}
	set, err := payload.DecodeAlterations(data, s.Term, s.Campus)
	if err != nil {
		return schedule.AlterationSet{}, fmt.Errorf("recommend: %w", err)
	}
	return set, nil
}
