package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "planner-debug.log"

// newDebugLogger writes key presses, mode changes and planner results to
// DebugLogPath in the current directory. The terminal belongs to the TUI, so
// the log never goes to stderr.
func newDebugLogger() (*zap.Logger, error) {
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel)
	return zap.New(core), nil
}

func (m Model) logKey(msg tea.KeyMsg) {
	m.log.Debug("key", zap.String("key", msg.String()), zap.Stringer("mode", m.mode))
}

func (m Model) logModeChange(from, to Mode, reason string) {
	if from == to {
		return
	}
	m.log.Debug("mode change", zap.Stringer("from", from), zap.Stringer("to", to), zap.String("reason", reason))
}

func (m Model) logCursor(reason string) {
	m.log.Debug("cursor",
		zap.Int("day", m.cursor.Day),
		zap.Int("slot", m.cursor.Slot),
		zap.String("reason", reason))
}
