// Package tetris registers the falling-block game with the platform. It
// owns frame timing (gravity, pause, pilot toggling) and rendering; the
// simulation itself lives in the engine subpackage.
package tetris

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// GameID is the registry and storage identifier.
const GameID = "tetris"

// Package-level settings, applied on the next Reset.
var (
	configPath   string
	presetName   string
	pilotMode    string
	engineLogger = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset (easy, normal, hard, fixed).
func SetDifficultyPreset(preset string) {
	presetName = preset
}

// SetPilotMode overrides the configured pilot ("manual" or "auto").
// Empty keeps the config value.
func SetPilotMode(mode string) {
	pilotMode = mode
}

// SetLogger sets the logger handed to new engines.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	engineLogger = l
}

// Game adapts the engine to the platform's fixed-rate loop.
type Game struct {
	cfg        config.TetrisConfig
	difficulty *config.DifficultyManager
	eng        *engine.Engine
	pilot      string // per-game override of pilotMode

	screenW int
	screenH int

	frames       int // frames since the game started
	gravityTimer int
	paused       bool
	tooSmall     bool
}

// New creates a game with the default configuration. Reset loads the
// configured one.
func New() *Game {
	cfg := config.DefaultTetrisConfig()
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		eng:        engine.New(engineConfig(cfg), engine.WithLogger(engineLogger)),
	}
}

func engineConfig(cfg config.TetrisConfig) engine.Config {
	return engine.Config{
		Width:      cfg.Board.Width,
		Height:     cfg.Board.Height,
		BufferZone: cfg.Board.BufferZone,
	}
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset loads configuration and starts a fresh game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		engineLogger.Warn("using default config", "err", err)
		cfg = config.DefaultTetrisConfig()
	}
	if preset, err := config.ParsePreset(presetName); err == nil {
		config.ApplyTetrisPreset(&cfg, preset)
	} else {
		engineLogger.Warn("ignoring difficulty", "err", err)
	}
	if pilotMode != "" {
		cfg.Pilot.Mode = pilotMode
	}
	if g.pilot != "" {
		cfg.Pilot.Mode = g.pilot
	}

	strategy, err := engine.StrategyByName(cfg.Pilot.Mode)
	if err != nil {
		engineLogger.Warn("falling back to manual pilot", "err", err)
		strategy = engine.Manual{}
	}

	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.eng = engine.New(engineConfig(cfg), engine.WithStrategy(strategy), engine.WithLogger(engineLogger))
	g.eng.NewGame(uint64(rc.Seed))

	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.frames = 0
	g.gravityTimer = 0
	g.paused = false
	g.checkScreenSize()
}

// Step applies this frame's input, then gravity.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall || !g.eng.Running() {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions() {
		switch a {
		case core.ActionPause:
			g.paused = !g.paused
		case core.ActionAutopilot:
			g.togglePilot()
		default:
			if m, ok := moveFor(a); ok && !g.paused && g.eng.Running() {
				g.eng.Tick(m)
			}
		}
	}

	if g.paused || !g.eng.Running() {
		return core.StepResult{State: g.State()}
	}

	g.frames++
	g.gravityTimer++
	if g.gravityTimer >= g.GravityInterval() {
		g.gravityTimer = 0
		g.eng.Tick(engine.MoveDown)
	}

	return core.StepResult{State: g.State()}
}

// moveFor maps platform actions to engine moves.
func moveFor(a core.Action) (engine.Move, bool) {
	switch a {
	case core.ActionLeft:
		return engine.MoveLeft, true
	case core.ActionRight:
		return engine.MoveRight, true
	case core.ActionRotate:
		return engine.MoveRotate, true
	case core.ActionDrop:
		return engine.MoveDrop, true
	case core.ActionSoftDrop:
		return engine.MoveDown, true
	}
	return 0, false
}

func (g *Game) togglePilot() {
	var next engine.Strategy = engine.RandomPilot{}
	if g.eng.Strategy().Name() == engine.StrategyAuto {
		next = engine.Manual{}
	}
	g.eng.SetStrategy(next)
	engineLogger.Debug("pilot switched", "pilot", next.Name())
}

// SetPilot implements registry.Piloted.
func (g *Game) SetPilot(mode string) error {
	strategy, err := engine.StrategyByName(mode)
	if err != nil {
		return err
	}
	g.pilot = strategy.Name()
	g.eng.SetStrategy(strategy)
	return nil
}

// GravityInterval returns the current number of frames per automatic DOWN.
func (g *Game) GravityInterval() int {
	return g.difficulty.GravityInterval(
		g.cfg.Gravity.TicksPerRow,
		g.cfg.Gravity.MinTicksPerRow,
		g.eng.Score(),
		g.frames,
	)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.eng.Score(),
		GameOver: g.eng.State() == engine.StateStopped,
		Paused:   g.paused,
	}
}

// Result implements registry.Reporter.
func (g *Game) Result() registry.Result {
	return registry.Result{
		Score:  g.eng.Score(),
		Pieces: g.eng.Count(),
		Pilot:  g.eng.Strategy().Name(),
	}
}

// SaveState implements registry.Persistent.
func (g *Game) SaveState() ([]byte, error) {
	return g.eng.MarshalBinary()
}

// LoadState implements registry.Persistent. The loaded game starts paused
// so the player can get their bearings.
func (g *Game) LoadState(data []byte) error {
	if err := g.eng.UnmarshalBinary(data); err != nil {
		return err
	}
	g.gravityTimer = 0
	g.paused = g.eng.Running()
	g.checkScreenSize()
	return nil
}

// Engine exposes the simulation for inspection.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←/→: Move | ↑: Rotate | ↓: Drop | Space: Down | A: Autopilot | P: Pause | Ctrl+S: Save | Q: Quit"
}
