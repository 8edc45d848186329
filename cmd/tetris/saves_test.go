package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func TestWriteNewFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")

	if err := writeNewFile(path, []byte("one")); err != nil {
		t.Fatalf("writeNewFile() failed: %v", err)
	}
	if err := writeNewFile(path, []byte("two")); err == nil {
		t.Fatal("second write should fail")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "one" {
		t.Errorf("file = %q, want %q", data, "one")
	}
}

func TestLoadSave(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveGame("mine", tetris.GameID, 5, []byte("data")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if _, err := store.SaveGame("other", "snake", 5, []byte("data")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	data, err := loadSave(store, "mine")
	if err != nil || string(data) != "data" {
		t.Errorf("loadSave(mine) = %q, %v", data, err)
	}

	tests := []struct {
		name  string
		store *storage.Store
		want  string
	}{
		{"missing", store, "no saved game"},
		{"other", store, "belongs to snake"},
		{"mine", nil, "without a database"},
	}
	for _, tt := range tests {
		_, err := loadSave(tt.store, tt.name)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("loadSave(%q) error = %v, want %q", tt.name, err, tt.want)
		}
	}
}
