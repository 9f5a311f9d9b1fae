// Package ui provides the command line interface for the planner.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CSE5914-Group99/schedule-planner/internal/config"
	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
	"github.com/CSE5914-Group99/schedule-planner/internal/service"
	"github.com/CSE5914-Group99/schedule-planner/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

var errNoSchedules = errors.New("no schedules yet: run 'planner sync' or 'planner new'")

// HealthChecker reports whether the backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) (string, error)
}

// Deps are the services the CLI drives.
type Deps struct {
	Planner *service.Planner
	Config  *config.Config
	Logger  *zap.Logger
	Health  HealthChecker
	In      io.Reader // prompt input, defaults to stdin
	Now     func() time.Time
}

// App holds the CLI application state.
type App struct {
	planner *service.Planner
	config  *config.Config
	log     *zap.Logger
	health  HealthChecker
	in      io.Reader
	now     func() time.Time
	root    *cobra.Command
	debug   bool   // Enable debug logging
	target  string // --schedule: local id or name
}

// NewApp creates a new CLI application.
func NewApp(d Deps) *App {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	in := d.In
	if in == nil {
		in = os.Stdin
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	a := &App{
		planner: d.Planner,
		config:  d.Config,
		log:     log,
		health:  d.Health,
		in:      in,
		now:     now,
	}

	a.root = &cobra.Command{
		Use:   "planner",
		Short: "Plan and review a weekly course schedule",
		Long: `planner keeps a weekly course schedule in sync with the schedule service.

Run without arguments to open the weekly grid. Subcommands cover the same
operations for scripting: editing courses and events, saving, generating
alternatives, difficulty analysis and calendar export.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.planner, a.config, tui.Options{Debug: a.debug, Logger: a.log})
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().StringVarP(&a.target, "schedule", "s", "", "Schedule to act on (local id or name, default: favorite)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.healthCmd())
	a.root.AddCommand(a.syncCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.upcomingCmd())
	a.root.AddCommand(a.newCmd())
	a.root.AddCommand(a.renameCmd())
	a.root.AddCommand(a.courseCmd())
	a.root.AddCommand(a.eventCmd())
	a.root.AddCommand(a.saveCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.favoriteCmd())
	a.root.AddCommand(a.generateCmd())
	a.root.AddCommand(a.analyzeCmd())
	a.root.AddCommand(a.alterCmd())
	a.root.AddCommand(a.ratingCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planner %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the schedule service is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.health == nil {
				return errors.New("no backend configured")
			}
			status, err := a.health.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", formatStats("ok"), a.config.Backend.BaseURL, status)
			return nil
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI with ctx available to every command.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// LaunchesTUI reports whether args would open the interactive grid rather
// than run a subcommand. The TUI owns the terminal, so callers pick a logger
// that stays off stderr.
func LaunchesTUI(args []string) bool {
	root := NewApp(Deps{}).root
	cmd, _, err := root.Find(args)
	return err == nil && cmd == root
}

// Root exposes the root command, mainly for tests.
func (a *App) Root() *cobra.Command {
	return a.root
}

// open loads the schedule selected by --schedule into the session, or the
// favorite when the flag is empty.
func (a *App) open(ctx context.Context) (schedule.Schedule, error) {
	target := strings.TrimSpace(a.target)
	if target == "" {
		s, ok, err := a.planner.OpenFavorite(ctx)
		if err != nil {
			return schedule.Schedule{}, err
		}
		if !ok {
			return schedule.Schedule{}, errNoSchedules
		}
		return s, nil
	}

	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		s, err := a.planner.Open(ctx, id)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("schedule %d: %w", id, err)
		}
		return s, nil
	}

	list, err := a.planner.Schedules(ctx)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("listing schedules: %w", err)
	}
	i := slices.IndexFunc(list, func(s schedule.Schedule) bool {
		return strings.EqualFold(strings.TrimSpace(s.Name), target)
	})
	if i < 0 {
		return schedule.Schedule{}, fmt.Errorf("schedule %q: %w", target, schedule.ErrNotFound)
	}
	return a.planner.Open(ctx, list[i].LocalID)
}
