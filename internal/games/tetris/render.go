package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

const (
	cellW   = 2  // screen columns per board column
	hudGap  = 3  // space between the well and the HUD
	hudW    = 20 // minimum HUD width
	blockCh = '█'
)

var kindColors = map[engine.Kind]core.Color{
	engine.KindStick:  core.ColorCyan,
	engine.KindL:      core.ColorOrange,
	engine.KindJ:      core.ColorBlue,
	engine.KindS:      core.ColorGreen,
	engine.KindZ:      core.ColorRed,
	engine.KindSquare: core.ColorYellow,
	engine.KindT:      core.ColorMagenta,
}

// layout holds the screen positions of the well for one frame.
type layout struct {
	left       int // x of the left wall
	top        int // y of the highest visible buffer row
	bufferRows int // buffer rows that fit on screen
	wellW      int
}

func (g *Game) layout() layout {
	h := g.eng.Height()
	l := layout{wellW: g.eng.Width()*cellW + 2}
	l.bufferRows = core.Clamp(g.screenH-(h+2), 0, g.eng.BufferZone())
	l.left = max(0, (g.screenW-(l.wellW+hudGap+hudW))/2)
	l.top = max(0, (g.screenH-(l.bufferRows+h+2))/2)
	return l
}

// wallY returns the screen row of the well's top edge.
func (l layout) wallY() int {
	return l.top + l.bufferRows
}

// screenPos maps a board cell to the screen. Buffer rows sit above the
// dashed edge.
func (g *Game) screenPos(l layout, x, y int) (int, int) {
	sy := l.wallY() + g.eng.Height() - y
	if y >= g.eng.Height() {
		sy--
	}
	return l.left + 1 + x*cellW, sy
}

// checkScreenSize checks if the screen is large enough for the well and HUD.
func (g *Game) checkScreenSize() {
	minW := g.eng.Width()*cellW + 2 + hudGap + hudW
	minH := g.eng.Height() + 2
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize adapts the layout to a new screen size without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	l := g.layout()
	g.renderWell(dst, l)
	g.renderCells(dst, l)
	g.renderHUD(dst, l)
	g.renderOverlays(dst, l)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", g.eng.Width()*cellW+2+hudGap+hudW, g.eng.Height()+2))
}

// renderWell draws the walls. The top edge is dashed: it marks the start
// of the buffer zone rather than a wall.
func (g *Game) renderWell(dst *core.Screen, l layout) {
	dst.DrawBox(core.NewRect(l.left, l.wallY(), l.wellW, g.eng.Height()+2), core.ColorGray)
	dst.DrawHLine(l.left+1, l.wallY(), l.wellW-2, '╌', core.ColorGray)
}

// renderCells draws committed cells, the piece in play and empty markers.
func (g *Game) renderCells(dst *core.Screen, l layout) {
	active := map[core.Point]core.Color{}
	if p, px, py, ok := g.eng.Current(); ok {
		c, found := kindColors[p.Kind()]
		if !found {
			c = core.ColorWhite
		}
		for _, off := range p.Cells() {
			active[core.Pt(px+off.X, py+off.Y)] = c
		}
	}

	rows := g.eng.Height() + l.bufferRows
	for y := range rows {
		for x := range g.eng.Width() {
			sx, sy := g.screenPos(l, x, y)
			if c, ok := active[core.Pt(x, y)]; ok {
				dst.SetColor(sx, sy, blockCh, c)
				dst.SetColor(sx+1, sy, blockCh, c)
				continue
			}
			if g.eng.Occupied(x, y) {
				dst.SetColor(sx, sy, blockCh, core.ColorWhite)
				dst.SetColor(sx+1, sy, blockCh, core.ColorWhite)
				continue
			}
			if y < g.eng.Height() {
				dst.SetColor(sx+1, sy, '.', core.ColorGray)
			}
		}
	}
}

// renderHUD draws score, piece count, speed and pilot beside the well.
func (g *Game) renderHUD(dst *core.Screen, l layout) {
	x := l.left + l.wellW + hudGap
	y := l.wallY()

	pilot := "Human"
	if g.eng.Strategy().Name() == engine.StrategyAuto {
		pilot = "Computer"
	}
	level := int(g.difficulty.Level(g.eng.Score(), g.frames)*9) + 1

	dst.DrawTextColor(x, y, "TETRIS", core.ColorCyan)
	dst.DrawText(x, y+2, fmt.Sprintf("Score:  %d", g.eng.Score()))
	dst.DrawText(x, y+3, fmt.Sprintf("Pieces: %d", g.eng.Count()))
	dst.DrawText(x, y+4, fmt.Sprintf("Level:  %d", level))
	dst.DrawText(x, y+5, fmt.Sprintf("Pilot:  %s", pilot))

	hints := []string{"←/→  move", "↑    rotate", "↓    drop", "spc  down", "a    pilot", "p    pause", "^s   save"}
	for i, h := range hints {
		dst.DrawTextColor(x, y+7+i, h, core.ColorGray)
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, l layout) {
	centerX := l.left + l.wellW/2
	centerY := l.wallY() + (g.eng.Height()+2)/2

	if g.eng.State() == engine.StateStopped {
		g.drawOverlay(dst, centerX, centerY,
			"GAME OVER",
			fmt.Sprintf("Score: %d", g.eng.Score()),
			fmt.Sprintf("Pieces: %d", g.eng.Count()),
			"R: restart")
		return
	}

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "P: resume")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		dst.DrawHLine(boxX, y, boxW, ' ', core.ColorDefault)
	}
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), core.ColorWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, boxY+1+i, line)
	}
}
