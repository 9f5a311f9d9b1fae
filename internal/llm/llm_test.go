package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"alterations": []}`,
			expected: `{"alterations": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the response: {"alterations": [{"alteration_name": "swap"}]}`,
			expected: `{"alterations": [{"alteration_name": "swap"}]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"alterations\": []}\n```",
			expected: `{"alterations": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"alterations\": []}\n```",
			expected: `{"alterations": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "trailing prose",
			input:    `{"outer": {"inner": true}} hope this helps`,
			expected: `{"outer": {"inner": true}}`,
		},
		{
			name:     "no json",
			input:    "sorry",
			expected: "sorry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDecodeJSON_Error(t *testing.T) {
	var v map[string]any
	if err := decodeJSON("not json at all", &v); err == nil {
		t.Fatal("expected error for non-JSON content")
	}
}

// scriptedClient returns canned replies in order.
type scriptedClient struct {
	replies  []string
	err      error
	calls    int
	messages [][]Message
}

func (c *scriptedClient) Chat(_ context.Context, messages []Message) (string, error) {
	c.messages = append(c.messages, append([]Message(nil), messages...))
	if c.err != nil {
		return "", c.err
	}
	if c.calls >= len(c.replies) {
		return "", errors.New("no more replies")
	}
	reply := c.replies[c.calls]
	c.calls++
	return reply, nil
}

func (c *scriptedClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

var _ Client = (*scriptedClient)(nil)

func TestLoadGitHubToken(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		got, err := LoadGitHubToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "env-token" {
			t.Errorf("token = %q, want env-token", got)
		}
	})

	t.Run("hosts file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("XDG_CONFIG_HOME", dir)
		if err := os.MkdirAll(filepath.Join(dir, "github-copilot"), 0o755); err != nil {
			t.Fatal(err)
		}
		data, _ := json.Marshal(map[string]any{
			"github.com": map[string]any{"oauth_token": "file-token"},
		})
		if err := os.WriteFile(filepath.Join(dir, "github-copilot", "hosts.json"), data, 0o600); err != nil {
			t.Fatal(err)
		}

		got, err := LoadGitHubToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "file-token" {
			t.Errorf("token = %q, want file-token", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		if _, err := LoadGitHubToken(); !errors.Is(err, ErrNoGitHubToken) {
			t.Errorf("expected ErrNoGitHubToken, got %v", err)
		}
	})
}

func TestExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token gh" {
			http.Error(w, "bad auth", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token": "bearer", "expires_at": 1}`))
	}))
	defer srv.Close()

	got, err := exchangeToken(context.Background(), srv.Client(), srv.URL, "gh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "bearer" {
		t.Errorf("token = %q, want bearer", got)
	}

	if _, err := exchangeToken(context.Background(), srv.Client(), srv.URL, "wrong"); err == nil {
		t.Error("expected error for rejected token")
	}
}
