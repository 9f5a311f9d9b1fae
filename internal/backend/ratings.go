package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// RatingKey builds the cache key for a course rating.
func RatingKey(courseID, instructor string) string {
	return strings.ToUpper(strings.TrimSpace(courseID)) + "|" + strings.ToLower(strings.TrimSpace(instructor))
}

// CourseRating returns the backend's rating of a course, optionally for a
// specific instructor. Results are cached; concurrent lookups of the same key
// share one request.
func (c *Client) CourseRating(ctx context.Context, courseID, instructor string) (schedule.ClassScore, error) {
	if strings.TrimSpace(courseID) == "" {
		return schedule.ClassScore{}, fmt.Errorf("course rating: course id is required")
	}
	key := RatingKey(courseID, instructor)

	if score, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("rating cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return score, nil
	}

	v, err, _ := c.ratings.Do(key, func() (any, error) {
		var q url.Values
		if instructor != "" {
			q = url.Values{"teacher": []string{instructor}}
		}
		path := "/courses/" + url.PathEscape(strings.TrimSpace(courseID)) + "/ratings"
		data, err := c.do(ctx, "course rating", http.MethodGet, path, q, nil)
		if err != nil {
			return schedule.ClassScore{}, err
		}
		var score schedule.ClassScore
		if err := json.Unmarshal(data, &score); err != nil {
			return schedule.ClassScore{}, fmt.Errorf("course rating: decoding response: %w", err)
		}
		if score.CourseID == "" {
			score.CourseID = courseID
		}
		if err := c.cache.Set(ctx, key, score); err != nil {
			c.log.Warn("rating cache write failed", zap.String("key", key), zap.Error(err))
		}
		return score, nil
	})
	if err != nil {
		return schedule.ClassScore{}, err
	}
	return v.(schedule.ClassScore), nil
}
