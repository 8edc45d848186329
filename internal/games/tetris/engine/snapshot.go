package engine

import (
	"encoding/hex"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

const (
	cellFilled = '#'
	cellEmpty  = '.'
)

// PieceState locates the piece in play.
type PieceState struct {
	Kind     string `yaml:"kind"`
	Rotation int    `yaml:"rotation"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
}

// Snapshot is the persistable state of an engine. Rows hold the committed
// grid top row first; the piece in play is stored separately.
type Snapshot struct {
	Version    int         `yaml:"version"`
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	BufferZone int         `yaml:"buffer_zone"`
	Rows       []string    `yaml:"rows"`
	Piece      *PieceState `yaml:"piece,omitempty"`
	Score      int         `yaml:"score"`
	Count      int         `yaml:"count"`
	State      string      `yaml:"state"`
	Strategy   string      `yaml:"strategy"`
	Ticks      uint64      `yaml:"ticks"`
	RNG        string      `yaml:"rng"`
}

// Snapshot captures the engine state.
func (e *Engine) Snapshot() Snapshot {
	rng, err := e.src.MarshalBinary()
	if err != nil {
		// PCG.MarshalBinary never fails.
		panic(err)
	}

	s := Snapshot{
		Version:    SnapshotVersion,
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		BufferZone: e.cfg.BufferZone,
		Rows:       make([]string, 0, e.board.Height()),
		Score:      e.score,
		Count:      e.count,
		State:      e.state.String(),
		Strategy:   e.strategy.Name(),
		Ticks:      e.ticks,
		RNG:        hex.EncodeToString(rng),
	}

	var sb strings.Builder
	for y := e.board.Height() - 1; y >= 0; y-- {
		sb.Reset()
		for x := 0; x < e.board.Width(); x++ {
			if e.board.committed(x, y) {
				sb.WriteByte(cellFilled)
			} else {
				sb.WriteByte(cellEmpty)
			}
		}
		s.Rows = append(s.Rows, sb.String())
	}

	if e.current != nil {
		s.Piece = &PieceState{
			Kind:     e.current.Kind().String(),
			Rotation: e.current.Rotation(),
			X:        e.curX,
			Y:        e.curY,
		}
	}
	return s
}

// Restore replaces the engine state with s. The engine is left unchanged
// when s is invalid.
func (e *Engine) Restore(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrSnapshot, s.Version)
	}
	cfg, err := s.shape()
	if err != nil {
		return err
	}
	total := cfg.Height + cfg.BufferZone

	state, err := parseState(s.State)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	strategy, err := StrategyByName(s.Strategy)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	raw, err := hex.DecodeString(s.RNG)
	if err != nil {
		return fmt.Errorf("%w: rng: %v", ErrSnapshot, err)
	}
	// Decode into a scratch source so a bad state leaves e untouched.
	src := *e.src
	if err := src.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("%w: rng: %v", ErrSnapshot, err)
	}

	board := NewBoard(cfg.Width, total)
	for i, row := range s.Rows {
		y := total - 1 - i
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case cellFilled:
				board.base.cells[y*cfg.Width+x] = true
				board.base.widths[y]++
			case cellEmpty:
			default:
				return fmt.Errorf("%w: row %d: unexpected %q", ErrSnapshot, i, row[x])
			}
		}
	}
	board.recomputeHeights()

	var (
		current    *Piece
		curX, curY int
	)
	if s.Piece != nil {
		kind, err := ParseKind(s.Piece.Kind)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSnapshot, err)
		}
		p, ok := CatalogPiece(kind, s.Piece.Rotation)
		if !ok {
			return fmt.Errorf("%w: no rotation %d for %s", ErrSnapshot, s.Piece.Rotation, kind)
		}
		if out := board.Place(p, s.Piece.X, s.Piece.Y); out.Failed() {
			return fmt.Errorf("%w: piece %s at (%d,%d): %s", ErrSnapshot, kind, s.Piece.X, s.Piece.Y, out)
		}
		current, curX, curY = p, s.Piece.X, s.Piece.Y
	}
	if state == StateRunning && current == nil {
		return fmt.Errorf("%w: running without a piece in play", ErrSnapshot)
	}

	e.cfg = cfg
	e.board = board
	e.current, e.curX, e.curY = current, curX, curY
	e.score = s.Score
	e.count = s.Count
	e.ticks = s.Ticks
	e.state = state
	e.strategy = strategy
	*e.src = src
	e.logger.Debug("snapshot restored", "score", e.score, "count", e.count, "state", e.state)
	return nil
}

// shape checks the declared dimensions against the row data. The board
// is only allocated once its size is backed by that many cells of input.
func (s Snapshot) shape() (Config, error) {
	cfg := Config{Width: s.Width, Height: s.Height, BufferZone: s.BufferZone}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.BufferZone < 0 {
		return Config{}, fmt.Errorf("%w: bad dimensions %dx%d+%d", ErrSnapshot, s.Width, s.Height, s.BufferZone)
	}
	// A sum that overflows goes negative and never matches a row count.
	total := cfg.Height + cfg.BufferZone
	if len(s.Rows) != total {
		return Config{}, fmt.Errorf("%w: %d rows, want %d+%d", ErrSnapshot, len(s.Rows), s.Height, s.BufferZone)
	}
	for i, row := range s.Rows {
		if len(row) != cfg.Width {
			return Config{}, fmt.Errorf("%w: row %d has width %d, want %d", ErrSnapshot, i, len(row), cfg.Width)
		}
	}
	return cfg, nil
}

// MarshalBinary encodes the engine snapshot as YAML.
func (e *Engine) MarshalBinary() ([]byte, error) {
	return yaml.Marshal(e.Snapshot())
}

// DecodeSnapshot parses MarshalBinary output and checks that it restores
// cleanly into an engine of its own dimensions.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	cfg, err := s.shape()
	if err != nil {
		return Snapshot{}, err
	}
	scratch := New(cfg)
	if err := scratch.Restore(s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// UnmarshalBinary restores the engine from MarshalBinary output.
func (e *Engine) UnmarshalBinary(data []byte) error {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	return e.Restore(s)
}
