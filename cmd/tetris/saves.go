package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var flagSaveName string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage saved games",
	Long: `List, inspect, delete, export and import saved games.

Games are saved from the game screen with Ctrl+S under a name made from
the current time (yyyy.MM.dd.HH.mm.ss). Names are never overwritten.

Examples:
  tetris saves list
  tetris saves show 2024.05.01.12.00.00
  tetris saves delete 2024.05.01.12.00.00
  tetris saves export 2024.05.01.12.00.00 game.yaml
  tetris saves import game.yaml --name friday`,
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.Store) error {
			saves, err := store.ListSaves(tetris.GameID)
			if err != nil {
				return err
			}
			if len(saves) == 0 {
				fmt.Println("No saved games.")
				return nil
			}
			fmt.Printf("  %-21s  %-8s  %s\n", "Name", "Score", "Saved")
			fmt.Printf("  %-21s  %-8s  %s\n", "----", "-----", "-----")
			for _, s := range saves {
				fmt.Printf("  %-21s  %-8d  %s\n", s.Name, s.Score, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var savesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.Store) error {
			data, err := loadSave(store, args[0])
			if err != nil {
				return err
			}
			s, err := engine.DecodeSnapshot(data)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %dx%d, score %d, %d pieces, %s, pilot %s\n",
				args[0], s.Width, s.Height, s.Score, s.Count, s.State, s.Strategy)
			for i, row := range s.Rows {
				if i == s.BufferZone {
					fmt.Println("  " + strings.Repeat("-", s.Width))
				}
				fmt.Println("  " + row)
			}
			return nil
		})
	},
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.Store) error {
			ok, err := store.DeleteSave(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no saved game named %q", args[0])
			}
			logger.Info("save deleted", "name", args[0])
			return nil
		})
	},
}

var savesExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a saved game to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.Store) error {
			data, err := loadSave(store, args[0])
			if err != nil {
				return err
			}
			if err := writeNewFile(args[1], data); err != nil {
				return err
			}
			logger.Info("save exported", "name", args[0], "file", args[1])
			return nil
		})
	},
}

var savesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a saved game from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("cannot read save: %w", err)
		}
		s, err := engine.DecodeSnapshot(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		name := flagSaveName
		if name == "" {
			name = tui.SaveName(time.Now())
		}
		return withStore(func(store *storage.Store) error {
			if _, err := store.SaveGame(name, tetris.GameID, s.Score, data); err != nil {
				if errors.Is(err, storage.ErrSaveExists) {
					return fmt.Errorf("a save named %q already exists; pick another with --name", name)
				}
				return err
			}
			logger.Info("save imported", "name", name, "file", args[0])
			return nil
		})
	},
}

func init() {
	savesImportCmd.Flags().StringVar(&flagSaveName, "name", "", "Save name (default: current time)")

	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesDeleteCmd)
	savesCmd.AddCommand(savesExportCmd)
	savesCmd.AddCommand(savesImportCmd)
}

// withStore opens the database for the duration of fn.
func withStore(fn func(*storage.Store) error) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// writeNewFile writes data to path, refusing to replace an existing file.
func writeNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
