// Package engine implements the falling-block simulation: piece catalog,
// board with staged placement, and the per-tick move protocol.
//
// The engine is single-threaded and advances only when Tick is called.
// Randomness is confined to spawning and to the automated strategy; both
// draw from one seeded PCG source whose state is part of the snapshot.
package engine

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// Move is a requested change to the piece in play.
type Move int

const (
	MoveRotate Move = iota
	MoveLeft
	MoveRight
	MoveDrop
	MoveDown
)

// String returns the move name.
func (m Move) String() string {
	switch m {
	case MoveRotate:
		return "rotate"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MoveDrop:
		return "drop"
	case MoveDown:
		return "down"
	default:
		return fmt.Sprintf("move(%d)", int(m))
	}
}

// ParseMove is the inverse of Move.String.
func ParseMove(s string) (Move, error) {
	for m := MoveRotate; m <= MoveDown; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMove, s)
}

// State is the engine lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateStopped
)

// String returns the state name used in snapshots.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func parseState(s string) (State, error) {
	for st := StateNotStarted; st <= StateStopped; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", s)
}

// Config fixes the board geometry.
type Config struct {
	Width      int // columns
	Height     int // playable rows
	BufferZone int // hidden rows above the playable area
}

// DefaultConfig returns the classic 10x20 board with four buffer rows.
func DefaultConfig() Config {
	return Config{Width: 10, Height: 20, BufferZone: 4}
}

// ScoreForRows maps the number of rows cleared by one landing to points.
func ScoreForRows(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 5
	case n == 2:
		return 10
	case n == 3:
		return 20
	case n == 4:
		return 40
	default:
		return 50
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy sets the initial move strategy. Defaults to Manual.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithLogger sets the logger for lifecycle events. Defaults to a discard
// logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithCatalog replaces the spawn catalog. Pieces must come from Catalog
// for snapshots to round-trip.
func WithCatalog(pieces []*Piece) Option {
	return func(e *Engine) {
		e.pieces = pieces
	}
}

// candidate is the scratch position computed during one move.
type candidate struct {
	piece *Piece
	x, y  int
}

// Engine owns the board and drives the tick protocol.
type Engine struct {
	cfg    Config
	board  *Board
	pieces []*Piece

	current    *Piece
	curX, curY int
	next       candidate

	count int
	score int
	ticks uint64
	state State

	src *rand.PCG
	rng *rand.Rand

	strategy Strategy
	logger   *log.Logger
}

// New creates an engine that has not started yet.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.BufferZone < 0 {
		panic(fmt.Errorf("engine: %w: config %+v", ErrOutOfRange, cfg))
	}
	src := rand.NewPCG(0, 0)
	e := &Engine{
		cfg:      cfg,
		board:    NewBoard(cfg.Width, cfg.Height+cfg.BufferZone),
		pieces:   Catalog(),
		src:      src,
		rng:      rand.New(src),
		strategy: Manual{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartGame seeds the random source, resets score and counter and spawns
// the first piece. The board keeps its committed cells; use NewGame to
// clear them as well.
func (e *Engine) StartGame(seed uint64) {
	e.src.Seed(seed, seed^0x9e3779b97f4a7c15)
	e.board.Undo()
	e.current = nil
	e.score = 0
	e.count = 0
	e.ticks = 0
	e.state = StateRunning
	e.logger.Debug("game started", "seed", seed, "strategy", e.strategy.Name())
	e.spawn()
}

// NewGame clears the board and starts again.
func (e *Engine) NewGame(seed uint64) {
	e.board.Reset()
	e.StartGame(seed)
}

// StopGame freezes the engine. Board and score stay inspectable.
func (e *Engine) StopGame() {
	if e.state == StateRunning {
		e.logger.Debug("game stopped", "score", e.score, "count", e.count)
	}
	e.state = StateStopped
}

// SetStrategy swaps the move strategy; it applies from the next tick.
func (e *Engine) SetStrategy(s Strategy) {
	if s == nil {
		s = Manual{}
	}
	e.strategy = s
}

// Strategy returns the active move strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Tick applies one requested move, then lets the strategy add one of its
// own. Ticks while not running are ignored. Panics with ErrBadMove for
// moves outside the defined set.
func (e *Engine) Tick(m Move) {
	if e.state != StateRunning {
		return
	}
	e.ticks++
	e.execute(m)

	if e.state != StateRunning {
		return
	}
	if extra, ok := e.strategy.NextMove(e.view()); ok {
		e.execute(extra)
	}
}

func (e *Engine) view() View {
	return View{Board: e.board, Piece: e.current, X: e.curX, Y: e.curY, Rand: e.rng}
}

// execute runs one move through the place/rollback protocol.
func (e *Engine) execute(m Move) {
	if m < MoveRotate || m > MoveDown {
		panic(fmt.Errorf("engine: %w: %d", ErrBadMove, int(m)))
	}
	if e.current == nil {
		return
	}

	// The piece in play is the pending placement; lift it off first.
	e.board.Undo()
	e.computeNewPosition(m)

	failed := e.setCurrent(e.next.piece, e.next.x, e.next.y).Failed()
	if failed {
		if out := e.board.Place(e.current, e.curX, e.curY); out.Failed() {
			panic(fmt.Errorf("engine: restoring %s at (%d,%d): %s", e.current, e.curX, e.curY, out))
		}
	}

	if failed && m == MoveDown {
		e.land()
	}
}

// computeNewPosition fills e.next with the candidate for m.
func (e *Engine) computeNewPosition(m Move) {
	e.next = candidate{piece: e.current, x: e.curX, y: e.curY}

	switch m {
	case MoveLeft:
		e.next.x--
	case MoveRight:
		e.next.x++
	case MoveRotate:
		e.next.piece = e.current.Next()
		e.next.x += (e.current.Width() - e.next.piece.Width()) / 2
		e.next.y += (e.current.Height() - e.next.piece.Height()) / 2
	case MoveDown:
		e.next.y--
	case MoveDrop:
		e.next.y = min(e.board.PlacementHeight(e.next.piece, e.next.x), e.curY)
	}
}

// setCurrent stages piece at (x, y) and adopts it on success.
func (e *Engine) setCurrent(piece *Piece, x, y int) Outcome {
	out := e.board.Place(piece, x, y)
	if !out.Failed() {
		e.current, e.curX, e.curY = piece, x, y
	}
	return out
}

// land locks the piece in play, clears rows and either spawns the next
// piece or ends the game.
func (e *Engine) land() {
	e.board.Commit()
	e.current = nil
	e.count++

	cleared := e.board.ClearRows()
	e.score += ScoreForRows(cleared)
	if cleared > 0 {
		e.logger.Debug("rows cleared", "rows", cleared, "score", e.score)
	}

	if e.board.MaxHeight() > e.board.Height()-e.cfg.BufferZone {
		e.logger.Debug("stack reached buffer zone", "height", e.board.MaxHeight())
		e.StopGame()
		return
	}
	e.spawn()
}

// spawn puts a random catalog piece at the top of the playable area,
// horizontally centered.
func (e *Engine) spawn() {
	piece := e.pieces[e.rng.IntN(len(e.pieces))]
	x := (e.board.Width() - piece.Width()) / 2
	y := e.cfg.Height - piece.Height()

	out := e.setCurrent(piece, x, y)
	e.logger.Debug("piece spawned", "kind", piece.Kind(), "x", x, "y", y, "outcome", out)
	if out != OutcomeOK {
		e.StopGame()
	}
}

// Width returns the number of columns.
func (e *Engine) Width() int {
	return e.cfg.Width
}

// Height returns the playable height, buffer rows excluded.
func (e *Engine) Height() int {
	return e.cfg.Height
}

// TotalHeight returns the board height including buffer rows.
func (e *Engine) TotalHeight() int {
	return e.board.Height()
}

// BufferZone returns the number of hidden rows above the playable area.
func (e *Engine) BufferZone() int {
	return e.cfg.BufferZone
}

// Occupied reports whether a cell is filled, including the piece in play.
func (e *Engine) Occupied(x, y int) bool {
	return e.board.Occupied(x, y)
}

// ColumnHeight returns the visible height of column x.
func (e *Engine) ColumnHeight(x int) int {
	return e.board.ColumnHeight(x)
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Count returns the number of pieces landed this game.
func (e *Engine) Count() int {
	return e.count
}

// Ticks returns the number of accepted ticks this game.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Running reports whether ticks are being accepted.
func (e *Engine) Running() bool {
	return e.state == StateRunning
}

// Current returns the piece in play and its origin. ok is false when no
// piece is in play.
func (e *Engine) Current() (piece *Piece, x, y int, ok bool) {
	if e.current == nil {
		return nil, 0, 0, false
	}
	return e.current, e.curX, e.curY, true
}

// Board exposes the board for read-only inspection.
func (e *Engine) Board() *Board {
	return e.board
}
