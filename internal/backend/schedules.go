package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/payload"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// ListSchedules fetches and normalizes the user's schedules. Records that
// cannot be decoded are returned as per-record errors; the call still succeeds.
func (c *Client) ListSchedules(ctx context.Context) ([]schedule.Schedule, []error, error) {
	path, err := c.userPath()
	if err != nil {
		return nil, nil, err
	}
	data, err := c.do(ctx, "list schedules", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	list, errs := payload.NormalizeAll(data)
	for _, e := range errs {
		c.log.Warn("skipping schedule record", zap.Error(e))
	}
	return list, errs, nil
}

// AddSchedule creates a schedule and returns its backend id.
func (c *Client) AddSchedule(ctx context.Context, s schedule.Schedule) (int64, error) {
	path, err := c.userPath()
	if err != nil {
		return 0, err
	}
	body := payload.ToSavePayload(s)
	body.ScheduleID = 0
	data, err := c.do(ctx, "add schedule", http.MethodPost, path, nil, body)
	if err != nil {
		return 0, err
	}

	var resp struct {
		ID         payload.FlexID `json:"id"`
		ScheduleID payload.FlexID `json:"scheduleId"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			return 0, fmt.Errorf("add schedule: decoding response: %w", err)
		}
	}
	id := int64(resp.ID)
	if id == 0 {
		id = int64(resp.ScheduleID)
	}
	c.log.Info("schedule created", zap.String("name", s.Name), zap.Int64("schedule_id", id))
	return id, nil
}

// SaveSchedule updates an existing schedule. The call is an idempotent PUT
// keyed by user and schedule id.
func (c *Client) SaveSchedule(ctx context.Context, s schedule.Schedule) error {
	if s.ID == 0 {
		return fmt.Errorf("save schedule: %w: schedule has no backend id", schedule.ErrNotFound)
	}
	path, err := c.userPath()
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, "save schedule", http.MethodPut, path, nil, payload.ToSavePayload(s)); err != nil {
		return err
	}
	c.log.Info("schedule saved", zap.Int64("schedule_id", s.ID))
	return nil
}

// SetFavorite stores s with its favorite flag set.
func (c *Client) SetFavorite(ctx context.Context, s schedule.Schedule) error {
	s.Favorite = true
	return c.SaveSchedule(ctx, s)
}

// DeleteSchedule removes a schedule by backend id.
func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	path, err := c.userPath(strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, "delete schedule", http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.log.Info("schedule deleted", zap.Int64("schedule_id", id))
	return nil
}
