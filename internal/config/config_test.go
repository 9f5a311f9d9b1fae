package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.StartHour != 8 || cfg.Grid.EndHour != 20 {
		t.Errorf("expected grid 8-20, got %d-%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
	if cfg.Grid.SlotMinutes != 60 {
		t.Errorf("expected 60 minute slots, got %d", cfg.Grid.SlotMinutes)
	}
	if cfg.Grid.ShowWeekend {
		t.Error("expected weekend hidden by default")
	}
	if cfg.Backend.Timeout.Duration != 30*time.Second {
		t.Errorf("expected timeout 30s, got %s", cfg.Backend.Timeout)
	}
	if cfg.Planner.Recommender != RecommenderBackend {
		t.Errorf("expected recommender backend, got %s", cfg.Planner.Recommender)
	}
	if cfg.LLM.Provider != "copilot" {
		t.Errorf("expected provider copilot, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %s", cfg.LLM.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Grid.StartHour != 8 {
		t.Errorf("expected default start hour, got %d", cfg.Grid.StartHour)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
start_hour = 7
end_hour = 22
slot_minutes = 30
show_weekend = true

[backend]
base_url = "https://planner.example.edu/api"
user_id = "buckeye.1"
timeout = "5s"

[planner]
term = "Autumn 2025"
campus = "Columbus"
recommender = "llm"
max_retries = 1

[llm]
provider = "ollama"
model = "llama3.2"
base_url = "http://localhost:11435"

[storage]
db_path = "/tmp/test.db"

[cache]
redis_url = "redis://localhost:6379/0"
ttl = "1h"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.StartHour != 7 || cfg.Grid.EndHour != 22 || cfg.Grid.SlotMinutes != 30 {
		t.Errorf("unexpected grid %+v", cfg.Grid)
	}
	if !cfg.Grid.ShowWeekend {
		t.Error("expected weekend shown")
	}
	if cfg.Backend.BaseURL != "https://planner.example.edu/api" {
		t.Errorf("unexpected base_url %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.UserID != "buckeye.1" {
		t.Errorf("unexpected user_id %s", cfg.Backend.UserID)
	}
	if cfg.Backend.Timeout.Duration != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.Backend.Timeout)
	}
	if !cfg.UsesLLM() {
		t.Error("expected llm recommender")
	}
	if cfg.Planner.MaxRetries != 1 {
		t.Errorf("expected max_retries 1, got %d", cfg.Planner.MaxRetries)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3.2" {
		t.Errorf("unexpected llm %+v", cfg.LLM)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("expected ttl 1h, got %s", cfg.Cache.TTL)
	}
	// Unset sections keep defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level, got %s", cfg.Log.Level)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid\nstart_hour = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[grid]
start_hour = 9

[backend]
user_id = "file-user"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("PLANNER_GRID_START_HOUR", "6")
	t.Setenv("PLANNER_GRID_SHOW_WEEKEND", "true")
	t.Setenv("PLANNER_BACKEND_USER_ID", "env-user")
	t.Setenv("PLANNER_BACKEND_TIMEOUT", "12s")
	t.Setenv("PLANNER_TERM", "Spring 2026")
	t.Setenv("PLANNER_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("PLANNER_DB_PATH", "/tmp/env.db")
	t.Setenv("PLANNER_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.StartHour != 6 {
		t.Errorf("expected env start hour 6, got %d", cfg.Grid.StartHour)
	}
	if !cfg.Grid.ShowWeekend {
		t.Error("expected env show_weekend")
	}
	if cfg.Backend.UserID != "env-user" {
		t.Errorf("expected env user, got %s", cfg.Backend.UserID)
	}
	if cfg.Backend.Timeout.Duration != 12*time.Second {
		t.Errorf("expected env timeout, got %s", cfg.Backend.Timeout)
	}
	if cfg.Planner.Term != "Spring 2026" {
		t.Errorf("expected env term, got %s", cfg.Planner.Term)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected env model, got %s", cfg.LLM.Model)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected env db path, got %s", cfg.Storage.DBPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected env log level, got %s", cfg.Log.Level)
	}
}

func TestLoadFrom_EnvInvalidValue(t *testing.T) {
	t.Setenv("PLANNER_GRID_SLOT_MINUTES", "often")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for non-numeric slot minutes")
	}
	if !strings.Contains(err.Error(), "reading environment") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PLANNER_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("PLANNER_TEST_DOTENV", "")
	if err := os.Unsetenv("PLANNER_TEST_DOTENV"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("PLANNER_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected from-file, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"start after end", func(c *Config) { c.Grid.StartHour, c.Grid.EndHour = 18, 9 }, "grid"},
		{"end past midnight", func(c *Config) { c.Grid.EndHour = 24 }, "grid"},
		{"odd slot", func(c *Config) { c.Grid.SlotMinutes = 25 }, "grid"},
		{"empty base url", func(c *Config) { c.Backend.BaseURL = "" }, "base_url"},
		{"non http base url", func(c *Config) { c.Backend.BaseURL = "ftp://files" }, "base_url"},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = Duration{} }, "timeout"},
		{"unknown recommender", func(c *Config) { c.Planner.Recommender = "oracle" }, "recommender"},
		{"negative retries", func(c *Config) { c.Planner.MaxRetries = -1 }, "max_retries"},
		{"llm without model", func(c *Config) { c.Planner.Recommender = "llm"; c.LLM.Model = " " }, "model"},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, "db_path"},
		{"bad redis url", func(c *Config) { c.Cache.RedisURL = "localhost:6379" }, "redis_url"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestGridLayout(t *testing.T) {
	cfg := Default()
	g := cfg.GridLayout()
	if len(g.Days) != 5 || g.Days[0] != schedule.Monday {
		t.Errorf("expected weekdays, got %v", g.Days)
	}

	cfg.Grid.ShowWeekend = true
	g = cfg.GridLayout()
	if len(g.Days) != 7 || g.Days[6] != schedule.Sunday {
		t.Errorf("expected full week, got %v", g.Days)
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte(" 90s ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("expected 90s, got %s", d.Duration)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot get home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		result := expandPath(tt.input)
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Grid.SlotMinutes = 30
	cfg.Backend.UserID = "buckeye.1"
	cfg.Backend.Timeout = Duration{45 * time.Second}
	cfg.Planner.Campus = "Newark"
	cfg.Storage.DBPath = "/tmp/saved.db"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if loaded.Grid.SlotMinutes != 30 {
		t.Errorf("expected slot 30, got %d", loaded.Grid.SlotMinutes)
	}
	if loaded.Backend.UserID != "buckeye.1" {
		t.Errorf("expected user buckeye.1, got %s", loaded.Backend.UserID)
	}
	if loaded.Backend.Timeout.Duration != 45*time.Second {
		t.Errorf("expected timeout 45s, got %s", loaded.Backend.Timeout)
	}
	if loaded.Planner.Campus != "Newark" {
		t.Errorf("expected campus Newark, got %s", loaded.Planner.Campus)
	}
}
