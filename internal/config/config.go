// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/CSE5914-Group99/schedule-planner/internal/grid"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// EnvPrefix prefixes every environment override, e.g. PLANNER_GRID_START_HOUR.
const EnvPrefix = "PLANNER_"

// Recommender backends.
const (
	RecommenderBackend = "backend"
	RecommenderLLM     = "llm"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid" envPrefix:"GRID_"`
	Backend BackendConfig `toml:"backend" envPrefix:"BACKEND_"`
	Planner PlannerConfig `toml:"planner"`
	LLM     LLMConfig     `toml:"llm" envPrefix:"LLM_"`
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache" envPrefix:"CACHE_"`
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	UI      UIConfig      `toml:"ui" envPrefix:"UI_"`
}

// GridConfig controls the weekly layout.
type GridConfig struct {
	StartHour   int  `toml:"start_hour" env:"START_HOUR"`
	EndHour     int  `toml:"end_hour" env:"END_HOUR"` // inclusive last row
	SlotMinutes int  `toml:"slot_minutes" env:"SLOT_MINUTES"`
	ShowWeekend bool `toml:"show_weekend" env:"SHOW_WEEKEND"`
}

// BackendConfig points at the schedule service.
type BackendConfig struct {
	BaseURL     string   `toml:"base_url" env:"BASE_URL"`
	UserID      string   `toml:"user_id" env:"USER_ID"`
	Timeout     Duration `toml:"timeout" env:"TIMEOUT"`
	Preferences string   `toml:"preferences" env:"PREFERENCES"` // free text sent with generate/analyze
}

// PlannerConfig holds defaults for new schedules and recommendations.
type PlannerConfig struct {
	Term        string `toml:"term" env:"TERM"`
	Campus      string `toml:"campus" env:"CAMPUS"`
	Recommender string `toml:"recommender" env:"RECOMMENDER"` // "backend" or "llm"
	MaxRetries  int    `toml:"max_retries" env:"MAX_RETRIES"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider" env:"PROVIDER"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model" env:"MODEL"`
	BaseURL  string `toml:"base_url" env:"BASE_URL"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path" env:"DB_PATH"`
}

// CacheConfig selects the rating cache. An empty RedisURL keeps ratings in memory.
type CacheConfig struct {
	RedisURL string   `toml:"redis_url" env:"REDIS_URL"`
	TTL      Duration `toml:"ttl" env:"TTL"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `toml:"format" env:"FORMAT"` // console or json
	File   string `toml:"file" env:"FILE"`     // empty logs to stderr
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme" env:"THEME"` // "mocha", "macchiato", "frappe", "latte", "light" or "auto"
}

// Duration is a time.Duration written as "30s" in TOML and env values.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			StartHour:   grid.DefaultStartHour,
			EndHour:     grid.DefaultEndHour,
			SlotMinutes: grid.DefaultSlotMinutes,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{30 * time.Second},
		},
		Planner: PlannerConfig{
			Recommender: RecommenderBackend,
			MaxRetries:  2,
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Cache: CacheConfig{
			TTL: Duration{24 * time.Hour},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "planner.db"
	}
	return filepath.Join(home, ".local", "share", "planner", "planner.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "planner", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays the file if it exists, then applies env
// overrides. A .env file in the working directory is read first.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies PLANNER_* variables on top of file values.
// Unset variables leave the current value untouched.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		var agg env.AggregateError
		if errors.As(err, &agg) && len(agg.Errors) > 0 {
			return fmt.Errorf("reading environment: %w", agg.Errors[0])
		}
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.GridLayout().Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	if c.Backend.BaseURL == "" {
		return errors.New("backend base_url must be set")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout.Duration <= 0 {
		return errors.New("backend timeout must be positive")
	}

	switch strings.ToLower(c.Planner.Recommender) {
	case RecommenderBackend, RecommenderLLM:
	default:
		return fmt.Errorf("planner recommender must be %q or %q, got %q",
			RecommenderBackend, RecommenderLLM, c.Planner.Recommender)
	}
	if c.Planner.MaxRetries < 0 {
		return errors.New("planner max_retries must not be negative")
	}
	if c.UsesLLM() && strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm model must be set when recommender is llm")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	if c.Cache.RedisURL != "" && !strings.HasPrefix(c.Cache.RedisURL, "redis://") && !strings.HasPrefix(c.Cache.RedisURL, "rediss://") {
		return fmt.Errorf("cache redis_url must start with redis:// or rediss://, got %q", c.Cache.RedisURL)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New("cache ttl must not be negative")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}

	return nil
}

// GridLayout converts the grid section into a layout configuration.
func (c *Config) GridLayout() grid.Config {
	g := grid.Config{
		StartHour:   c.Grid.StartHour,
		EndHour:     c.Grid.EndHour,
		SlotMinutes: c.Grid.SlotMinutes,
		Days:        schedule.Weekdays,
	}
	return g.WithWeekend(c.Grid.ShowWeekend)
}

// UsesLLM reports whether recommendations come from the configured model.
func (c *Config) UsesLLM() bool {
	return strings.EqualFold(c.Planner.Recommender, RecommenderLLM)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
