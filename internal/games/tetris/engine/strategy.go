package engine

import (
	"fmt"
	"math/rand/v2"
)

// Strategy names accepted by StrategyByName and stored in snapshots.
const (
	StrategyManual = "manual"
	StrategyAuto   = "auto"
)

// View is the read-only state handed to a Strategy. The board still holds
// the piece in play as its pending placement.
type View struct {
	Board *Board
	Piece *Piece
	X, Y  int
	Rand  *rand.Rand
}

// Strategy decides whether the engine applies an extra move after the
// externally requested one.
type Strategy interface {
	// Name identifies the strategy in snapshots and the HUD.
	Name() string

	// NextMove returns a follow-up move, or false to add nothing.
	NextMove(v View) (Move, bool)
}

// Manual relays the external driver's moves and never adds its own.
type Manual struct{}

// Name implements Strategy.
func (Manual) Name() string { return StrategyManual }

// NextMove implements Strategy.
func (Manual) NextMove(View) (Move, bool) { return 0, false }

// RandomPilot is the reference computer player: each tick it picks one of
// ROTATE, LEFT or RIGHT uniformly. It makes no attempt to play well.
type RandomPilot struct{}

var pilotMoves = [...]Move{MoveRotate, MoveLeft, MoveRight}

// Name implements Strategy.
func (RandomPilot) Name() string { return StrategyAuto }

// NextMove implements Strategy.
func (RandomPilot) NextMove(v View) (Move, bool) {
	if v.Piece == nil || v.Rand == nil {
		return 0, false
	}
	return pilotMoves[v.Rand.IntN(len(pilotMoves))], true
}

// StrategyByName returns the strategy registered under name.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case StrategyManual, "human", "":
		return Manual{}, nil
	case StrategyAuto, "computer":
		return RandomPilot{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
