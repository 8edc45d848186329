package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// SaveNameLayout is the time layout of default save names.
const SaveNameLayout = "2006.01.02.15.04.05"

// footerLines is the number of screen rows reserved below the game.
const footerLines = 1

// SaveName returns the default name for a save made at t.
func SaveName(t time.Time) string {
	return t.Format(SaveNameLayout)
}

// resizer is implemented by games that can follow a terminal resize
// without restarting.
type resizer interface {
	Resize(w, h int)
}

// GameOption configures a GameModel.
type GameOption func(*GameModel)

// WithInitialState loads a saved game right after the first Reset.
func WithInitialState(data []byte) GameOption {
	return func(m *GameModel) {
		m.initial = data
	}
}

// WithLogger sets the logger for save and score events.
func WithLogger(l *log.Logger) GameOption {
	return func(m *GameModel) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithExitOnBack makes the back key end the program. Used when the game
// runs without a menu around it.
func WithExitOnBack() GameOption {
	return func(m *GameModel) {
		m.exitOnBack = true
	}
}

// withClock overrides time.Now for save names.
func withClock(now func() time.Time) GameOption {
	return func(m *GameModel) {
		m.now = now
	}
}

// GameModel runs one game: input mapping, fixed-rate ticks, saving and
// score recording.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	logger     *log.Logger
	now        func() time.Time
	initial    []byte

	status     string
	exitOnBack bool
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel resets the game and, if an initial state was given, loads
// it. The screen keeps one row for the help line.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...GameOption) (GameModel, error) {
	cfg = cfg.WithDefaults()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	m.help.Width = cfg.ScreenW
	for _, opt := range opts {
		opt(&m)
	}

	m.game.Reset(m.gameConfig())
	if m.initial != nil {
		p, ok := game.(registry.Persistent)
		if !ok {
			return m, fmt.Errorf("%s does not support saved games", game.ID())
		}
		if err := p.LoadState(m.initial); err != nil {
			return m, fmt.Errorf("cannot load saved game: %w", err)
		}
		m.status = "Game loaded (paused)"
	}
	m.gameState = m.game.State()
	// A finished game loaded from a save was recorded when it ended.
	m.scoreSaved = m.gameState.GameOver
	return m, nil
}

func gameHeight(screenH int) int {
	return max(0, screenH-footerLines)
}

// gameConfig is the runtime config as seen by the game.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Save) {
		m.save()
		return m, nil
	}

	m.status = ""
	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		// Back leaves only a paused or finished game; otherwise it pauses.
		if !m.gameState.GameOver && !m.gameState.Paused {
			m.inputFrame.Set(core.ActionPause)
			return m, nil
		}
		if m.exitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case core.ActionRestart:
		if !m.gameState.GameOver {
			return m, nil
		}
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleResize follows the terminal size. Games that cannot resize in
// place are restarted unless they are already over.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, gameHeight(msg.Height))
	} else if !m.gameState.GameOver {
		m.game.Reset(m.gameConfig())
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.recordScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordScore stores the finished game. Zero scores are not recorded.
func (m *GameModel) recordScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}

	entry := storage.ScoreEntry{GameID: m.game.ID(), Score: m.gameState.Score}
	if r, ok := m.game.(registry.Reporter); ok {
		res := r.Result()
		entry.Pilot = res.Pilot
		entry.Pieces = res.Pieces
	}
	if _, err := m.store.SaveScore(entry); err != nil {
		m.logger.Error("cannot record score", "game", entry.GameID, "err", err)
		return
	}
	m.logger.Info("score recorded", "game", entry.GameID, "score", entry.Score, "pilot", entry.Pilot)
}

// save stores the current game under a timestamped name. Existing names
// are never overwritten.
func (m *GameModel) save() {
	p, ok := m.game.(registry.Persistent)
	if !ok {
		m.status = "This game cannot be saved"
		return
	}
	if m.store == nil {
		m.status = "No database, cannot save"
		return
	}

	data, err := p.SaveState()
	if err != nil {
		m.status = "Save failed: " + err.Error()
		m.logger.Error("cannot encode game", "err", err)
		return
	}

	name := SaveName(m.now())
	if _, err := m.store.SaveGame(name, m.game.ID(), m.game.State().Score, data); err != nil {
		if errors.Is(err, storage.ErrSaveExists) {
			m.status = fmt.Sprintf("Save %s already exists", name)
			return
		}
		m.status = "Save failed: " + err.Error()
		m.logger.Error("cannot save game", "name", name, "err", err)
		return
	}
	m.status = "Saved as " + name
	m.logger.Info("game saved", "name", name, "game", m.game.ID())
}

// View renders the game and the footer line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m GameModel) footer() string {
	if m.status != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Render(m.status)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys))
}

// Status returns the last save or load message.
func (m GameModel) Status() string {
	return m.status
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one game in the terminal until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...GameOption) error {
	opts = append(opts, WithExitOnBack())
	model, err := NewGameModel(game, store, cfg, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
