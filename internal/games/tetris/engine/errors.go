package engine

import "errors"

// Usage errors. The engine panics with an error wrapping one of these when
// a caller breaks the board or tick protocol; they are never recovered
// internally.
var (
	// ErrOutOfRange reports a column or cell index outside the board.
	ErrOutOfRange = errors.New("index out of range")

	// ErrPending reports a second placement staged before the first was
	// committed or undone, or a row clear with a placement still staged.
	ErrPending = errors.New("placement already pending")

	// ErrBadMove reports a move value outside the defined move set.
	ErrBadMove = errors.New("bad move")
)

// ErrSnapshot is returned when a snapshot cannot be decoded or restored.
var ErrSnapshot = errors.New("invalid snapshot")
