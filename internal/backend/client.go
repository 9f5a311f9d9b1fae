// Package backend is a REST client for the schedule optimization service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 4 << 10

// ErrNoUser is returned when a user-scoped call is made without a user id.
var ErrNoUser = errors.New("backend user id is not configured")

// RemoteError wraps a failed backend call. StatusCode is 0 for transport errors.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the backend answered 404.
func (e *RemoteError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserID     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Cache      RatingCache
}

// Client talks to the backend over HTTP/JSON.
type Client struct {
	baseURL *url.URL
	userID  string
	http    *http.Client
	log     *zap.Logger
	cache   RatingCache
	ratings singleflight.Group
}

// New creates a backend client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("backend base url is required")
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	return &Client{
		baseURL: u,
		userID:  opts.UserID,
		http:    hc,
		log:     log.Named("backend"),
		cache:   cache,
	}, nil
}

// UserID returns the configured user id.
func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) userPath(parts ...string) (string, error) {
	if c.userID == "" {
		return "", ErrNoUser
	}
	p := "/users/" + url.PathEscape(c.userID) + "/schedules"
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p, nil
}

// do sends a JSON request and returns the raw response body on 2xx.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid path: %w", op, err)
	}
	u.Path = unescaped
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &RemoteError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.log.Debug("request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       msg,
			Err:        fmt.Errorf("status %s", resp.Status),
		}
	}
	return data, nil
}

// Health calls the root endpoint and returns its status field.
func (c *Client) Health(ctx context.Context) (string, error) {
	data, err := c.do(ctx, "health", http.MethodGet, "/", nil, nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("health: decoding response: %w", err)
	}
	return resp.Status, nil
}
