// Package tui provides the Bubble Tea integration for tui-tetris.
// It handles the terminal UI loop, input mapping, saved games and the SSH
// session flow.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// TickMsg drives one GameModel frame.
type TickMsg time.Time

// tickCmd schedules the next frame. Gravity is counted in frames, so the
// rate also sets how fast pieces fall.
func tickCmd(rate int) tea.Cmd {
	if rate <= 0 {
		rate = core.DefaultTickRate
	}
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
