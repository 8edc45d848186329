package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSaveExists is returned when a save name is already taken. Saves are
// never overwritten.
var ErrSaveExists = errors.New("save already exists")

// SaveEntry is a stored game snapshot.
type SaveEntry struct {
	ID        int64
	Name      string
	GameID    string
	Score     int
	Data      []byte // nil in listings
	CreatedAt time.Time
}

// SaveGame stores a snapshot under name.
// Returns ErrSaveExists if the name is taken.
func (s *Store) SaveGame(name, gameID string, score int, data []byte) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("storage: save name is empty")
	}

	result, err := s.db.Exec(
		`INSERT INTO saves (name, game_id, score, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, gameID, score, data,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game %q: %w", name, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game %q: %w", name, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("storage: %q: %w", name, ErrSaveExists)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// LoadGame retrieves a save by name. Returns nil, nil if it doesn't exist.
func (s *Store) LoadGame(name string) (*SaveEntry, error) {
	var e SaveEntry
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, name, game_id, score, data, created_at
		 FROM saves
		 WHERE name = ?`,
		name,
	).Scan(&e.ID, &e.Name, &e.GameID, &e.Score, &e.Data, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load game %q: %w", name, err)
	}

	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

// ListSaves returns save metadata for the given game, newest first.
func (s *Store) ListSaves(gameID string) ([]SaveEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, name, game_id, score, created_at
		 FROM saves
		 WHERE game_id = ?
		 ORDER BY created_at DESC, id DESC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var entries []SaveEntry
	for rows.Next() {
		var e SaveEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Name, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteSave removes a save. Reports whether it existed.
func (s *Store) DeleteSave(name string) (bool, error) {
	result, err := s.db.Exec("DELETE FROM saves WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete save %q: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete save %q: %w", name, err)
	}
	return n > 0, nil
}
