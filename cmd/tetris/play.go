package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagAuto bool
	flagLoad string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of Tetris.

Controls:
  Left/Right - Move
  Up         - Rotate
  Down       - Drop
  Space      - Move down one row
  A/Tab      - Toggle computer pilot
  P          - Pause
  Ctrl+S     - Save (named after the current time)
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at the slowest gravity, speeds up with score
  normal - Start at 30% speed-up
  hard   - Start at 70% speed-up
  fixed  - Gravity never changes

Examples:
  tetris play
  tetris play --auto
  tetris play --difficulty hard
  tetris play --load 2024.05.01.12.00.00
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagAuto, "auto", false, "Let the computer pilot play")
	playCmd.Flags().StringVar(&flagLoad, "load", "", "Resume a saved game by name")
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	if flagAuto {
		tetris.SetPilotMode(config.PilotAuto)
	}

	game, err := registry.Create(tetris.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	opts := []tui.GameOption{tui.WithLogger(uiLogger())}
	if flagLoad != "" {
		data, loadErr := loadSave(store, flagLoad)
		if loadErr != nil {
			if store != nil {
				store.Close()
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", loadErr)
			os.Exit(1)
		}
		opts = append(opts, tui.WithInitialState(data))
	}

	runErr := tui.Run(game, store, terminalConfig(), opts...)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// loadSave fetches the snapshot stored under name.
func loadSave(store *storage.Store, name string) ([]byte, error) {
	if store == nil {
		return nil, fmt.Errorf("cannot load %q without a database", name)
	}
	entry, err := store.LoadGame(name)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("no saved game named %q (see 'tetris saves list')", name)
	}
	if entry.GameID != tetris.GameID {
		return nil, fmt.Errorf("save %q belongs to %s", name, entry.GameID)
	}
	return entry.Data, nil
}
