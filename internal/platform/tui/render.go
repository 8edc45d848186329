package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/tui-tetris/internal/core"
)

// palette is indexed by core.Color. Piece colors follow the usual
// tetromino scheme; gray is the well and the empty-cell dots.
var palette = [...]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     fg("1"),
	core.ColorGreen:   fg("2"),
	core.ColorYellow:  fg("3"),
	core.ColorBlue:    fg("4"),
	core.ColorMagenta: fg("5"),
	core.ColorCyan:    fg("6"),
	core.ColorWhite:   fg("7"),
	core.ColorOrange:  fg("208"),
	core.ColorGray:    fg("240"),
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(palette) {
		return palette[c]
	}
	return palette[core.ColorDefault]
}

// RenderScreen turns the cell buffer into terminal text, one line per row.
// Each run of same-colored cells is styled once.
func RenderScreen(s *core.Screen) string {
	var out, run strings.Builder
	out.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			out.WriteByte('\n')
		}
		runColor := s.GetCell(0, y).Color
		for x := range s.Width() {
			c := s.GetCell(x, y)
			if c.Color != runColor {
				out.WriteString(styleFor(runColor).Render(run.String()))
				run.Reset()
				runColor = c.Color
			}
			run.WriteRune(c.Rune)
		}
		out.WriteString(styleFor(runColor).Render(run.String()))
		run.Reset()
	}
	return out.String()
}
