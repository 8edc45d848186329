package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "[]", core.ColorCyan)
	s.DrawTextColor(2, 0, "..", core.ColorGray)
	s.DrawText(1, 1, "ok")
	s.SetColor(5, 1, '#', core.Color(200)) // outside the palette

	lines := strings.Split(RenderScreen(s), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 6 {
			t.Errorf("line %d width = %d, want 6", i, w)
		}
	}
	if !strings.Contains(lines[0], "[]") || !strings.Contains(lines[0], "..") {
		t.Errorf("first line lost its cells: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ok") || !strings.Contains(lines[1], "#") {
		t.Errorf("second line lost its cells: %q", lines[1])
	}
}

func TestRenderEmptyScreen(t *testing.T) {
	if got := RenderScreen(core.NewScreen(0, 0)); got != "" {
		t.Errorf("RenderScreen(0x0) = %q, want empty", got)
	}
}
