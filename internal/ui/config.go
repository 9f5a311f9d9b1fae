package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CSE5914-Group99/schedule-planner/internal/config"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
Environment variables prefixed with PLANNER_ override file values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInteractive(cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	})
	return cmd
}

func (a *App) runConfigInteractive(out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	if !a.promptYesNo(out, "\nWould you like to edit the configuration?") {
		return nil
	}

	r := a.reader()
	cfg.Backend.BaseURL = promptValue(r, out, "Schedule service URL", cfg.Backend.BaseURL)
	cfg.Backend.UserID = promptValue(r, out, "User id", cfg.Backend.UserID)
	cfg.Planner.Term = promptValue(r, out, "Default term", cfg.Planner.Term)
	cfg.Planner.Campus = promptValue(r, out, "Default campus", cfg.Planner.Campus)
	cfg.Grid.StartHour = promptInt(r, out, "Grid first hour", cfg.Grid.StartHour)
	cfg.Grid.EndHour = promptInt(r, out, "Grid last hour", cfg.Grid.EndHour)
	cfg.Grid.SlotMinutes = promptInt(r, out, "Minutes per row", cfg.Grid.SlotMinutes)
	cfg.Planner.Recommender = promptValue(r, out, "Recommender (backend or llm)", cfg.Planner.Recommender)
	cfg.LLM.Provider = promptValue(r, out, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(r, out, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(r, out, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(r, out, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(r, out, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[backend]")
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.Backend.BaseURL)
	fmt.Fprintf(out, "  user_id          = %s\n", cfg.Backend.UserID)
	fmt.Fprintf(out, "  timeout          = %s\n", cfg.Backend.Timeout)
	fmt.Fprintln(out, "\n[planner]")
	fmt.Fprintf(out, "  term             = %s\n", cfg.Planner.Term)
	fmt.Fprintf(out, "  campus           = %s\n", cfg.Planner.Campus)
	fmt.Fprintf(out, "  recommender      = %s\n", cfg.Planner.Recommender)
	fmt.Fprintln(out, "\n[grid]")
	fmt.Fprintf(out, "  start_hour       = %d\n", cfg.Grid.StartHour)
	fmt.Fprintf(out, "  end_hour         = %d\n", cfg.Grid.EndHour)
	fmt.Fprintf(out, "  slot_minutes     = %d\n", cfg.Grid.SlotMinutes)
	fmt.Fprintf(out, "  show_weekend     = %t\n", cfg.Grid.ShowWeekend)
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	if cfg.Cache.RedisURL != "" {
		fmt.Fprintln(out, "\n[cache]")
		fmt.Fprintf(out, "  redis_url        = %s\n", cfg.Cache.RedisURL)
		fmt.Fprintf(out, "  ttl              = %s\n", cfg.Cache.TTL)
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
}

// reader returns the shared prompt reader.
func (a *App) reader() *bufio.Reader {
	if r, ok := a.in.(*bufio.Reader); ok {
		return r
	}
	r := bufio.NewReader(a.in)
	a.in = r
	return r
}

func (a *App) promptYesNo(out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := a.reader().ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(r *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(r *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(r, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  %q is not a number.\n", value)
	}
}

func promptTheme(r *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(r, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
