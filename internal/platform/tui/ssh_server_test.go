package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func step(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = sm
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestSessionPlayAndBack(t *testing.T) {
	m := NewSessionModel(nil, stubID, testCfg, nil)

	m = step(t, m, keyEnter)
	if m.screen != screenGame || m.game == nil {
		t.Fatalf("expected the game screen, got %d", m.screen)
	}
	if lastStub.pilot != "manual" {
		t.Errorf("pilot = %q, want manual", lastStub.pilot)
	}

	// First esc pauses, second leaves.
	m = step(t, m, keyEsc, TickMsg{}, keyEsc)
	if m.screen != screenMenu || m.game != nil {
		t.Errorf("expected the menu, got screen %d", m.screen)
	}
}

func TestSessionWatchAutopilot(t *testing.T) {
	m := NewSessionModel(nil, stubID, testCfg, nil)
	m = step(t, m, keyDown, keyEnter)
	if m.screen != screenGame {
		t.Fatalf("expected the game screen, got %d", m.screen)
	}
	if lastStub.pilot != "auto" {
		t.Errorf("pilot = %q, want auto", lastStub.pilot)
	}
}

func TestSessionLoadSavedGame(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveGame("2024.01.01.00.00.00", stubID, 10, []byte("state")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	m := NewSessionModel(store, stubID, testCfg, nil)
	m = step(t, m, keyDown, keyDown, keyEnter)
	if m.screen != screenSaves {
		t.Fatalf("expected the saves screen, got %d", m.screen)
	}

	m = step(t, m, keyEnter)
	if m.screen != screenGame {
		t.Fatalf("expected the game screen, got %d", m.screen)
	}
	if string(lastStub.loaded) != "state" {
		t.Errorf("loaded = %q, want %q", lastStub.loaded, "state")
	}
}

func TestSessionScoresAndQuit(t *testing.T) {
	m := NewSessionModel(nil, stubID, testCfg, nil)
	m = step(t, m, keyDown, keyDown, keyDown, keyEnter)
	if m.screen != screenScores {
		t.Fatalf("expected the scores screen, got %d", m.screen)
	}

	m = step(t, m, keyEsc)
	if m.screen != screenMenu {
		t.Fatalf("expected the menu, got %d", m.screen)
	}

	next, cmd := m.Update(runes("q"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should end the session")
	}
}

func TestSessionUnknownGame(t *testing.T) {
	m := NewSessionModel(nil, "missing", testCfg, nil)
	m = step(t, m, keyEnter)
	if m.screen != screenMenu {
		t.Errorf("expected to stay in the menu, got %d", m.screen)
	}
	if m.status == "" {
		t.Error("expected an error status")
	}
}
