package engine

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func mustPanicWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("Expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("Expected panic wrapping %v, got %v", target, r)
		}
	}()
	fn()
}

func square() *Piece {
	p, _ := CatalogPiece(KindSquare, 0)
	return p
}

func cell() *Piece {
	return NewPiece(core.Pt(0, 0))
}

// commitAt places and commits p, failing the test on rejection.
func commitAt(t *testing.T, b *Board, p *Piece, x, y int) {
	t.Helper()
	if out := b.Place(p, x, y); out.Failed() {
		t.Fatalf("Place(%v, %d, %d) = %v", p, x, y, out)
	}
	b.Commit()
}

func TestPlaceAndUndo(t *testing.T) {
	b := NewBoard(3, 4)

	if out := b.Place(square(), 0, 0); out != OutcomeOK {
		t.Fatalf("Expected OK, got %v", out)
	}
	if !b.Pending() {
		t.Error("Expected pending placement")
	}
	if b.ColumnHeight(0) != 2 || b.RowWidth(0) != 2 {
		t.Errorf("Pending state not visible: height=%d width=%d", b.ColumnHeight(0), b.RowWidth(0))
	}
	if !b.Occupied(1, 1) {
		t.Error("Pending cell (1,1) should read occupied")
	}

	b.Undo()
	if b.Pending() || b.ColumnHeight(0) != 0 || b.RowWidth(0) != 0 || b.Occupied(1, 1) {
		t.Error("Undo should restore the empty board")
	}
}

func TestPlaceOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		width int
		x, y  int
		want  Outcome
	}{
		{"fits", 3, 1, 0, OutcomeOK},
		{"fills row", 2, 0, 0, OutcomeRowFilled},
		{"left wall", 3, -1, 0, OutcomeOutOfBounds},
		{"right wall", 3, 2, 0, OutcomeOutOfBounds},
		{"floor", 3, 0, -1, OutcomeOutOfBounds},
		{"ceiling", 3, 0, 3, OutcomeOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(tt.width, 4)
			out := b.Place(square(), tt.x, tt.y)
			if out != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, out)
			}
			if out.Failed() == b.Pending() {
				t.Errorf("Pending=%v after outcome %v", b.Pending(), out)
			}
		})
	}
}

func TestPlaceOverlap(t *testing.T) {
	b := NewBoard(3, 4)
	commitAt(t, b, square(), 0, 0)

	if out := b.Place(square(), 1, 1); out != OutcomeBadOverlap {
		t.Errorf("Expected bad overlap, got %v", out)
	}
	if b.Pending() {
		t.Error("Rejected placement must not be staged")
	}

	// Bounds are checked before overlap.
	if out := b.Place(square(), -1, 0); out != OutcomeOutOfBounds {
		t.Errorf("Expected out of bounds, got %v", out)
	}
}

func TestPlaceTwicePanics(t *testing.T) {
	b := NewBoard(4, 4)
	b.Place(cell(), 0, 0)
	mustPanicWith(t, ErrPending, func() { b.Place(cell(), 2, 0) })
}

func TestCommit(t *testing.T) {
	b := NewBoard(4, 6)
	commitAt(t, b, square(), 1, 2)

	if b.Pending() {
		t.Error("Commit should clear the pending slot")
	}
	if b.ColumnHeight(1) != 4 || b.ColumnHeight(0) != 0 {
		t.Errorf("Unexpected heights: col0=%d col1=%d", b.ColumnHeight(0), b.ColumnHeight(1))
	}
	if b.MaxHeight() != 4 {
		t.Errorf("Expected max height 4, got %d", b.MaxHeight())
	}

	// Undo after commit leaves committed cells alone.
	b.Undo()
	if !b.Occupied(2, 3) {
		t.Error("Committed cell lost after Undo")
	}
}

func TestClearRows(t *testing.T) {
	b := NewBoard(3, 4)
	row := NewPiece(core.Pt(0, 0), core.Pt(1, 0), core.Pt(2, 0))
	commitAt(t, b, row, 0, 0)
	commitAt(t, b, cell(), 1, 1)
	commitAt(t, b, row, 0, 2)

	if n := b.ClearRows(); n != 2 {
		t.Fatalf("Expected 2 rows cleared, got %d", n)
	}
	if !b.Occupied(1, 0) || b.Occupied(0, 0) || b.Occupied(2, 0) {
		t.Error("Surviving row should drop to the floor")
	}
	if b.RowWidth(0) != 1 || b.RowWidth(1) != 0 {
		t.Errorf("Unexpected row widths: %d, %d", b.RowWidth(0), b.RowWidth(1))
	}
	if b.ColumnHeight(1) != 1 || b.MaxHeight() != 1 {
		t.Errorf("Heights not recomputed: col1=%d max=%d", b.ColumnHeight(1), b.MaxHeight())
	}

	if n := b.ClearRows(); n != 0 {
		t.Errorf("Expected nothing to clear, got %d", n)
	}
}

func TestClearRowsWithPendingPanics(t *testing.T) {
	b := NewBoard(3, 4)
	b.Place(cell(), 0, 0)
	mustPanicWith(t, ErrPending, func() { b.ClearRows() })
}

func TestPlacementHeight(t *testing.T) {
	b := NewBoard(4, 6)
	commitAt(t, b, cell(), 2, 0)
	s, _ := CatalogPiece(KindS, 0)

	// The raised third column of S hooks over the single cell.
	if y := b.PlacementHeight(s, 0); y != 0 {
		t.Errorf("Expected S to rest at 0, got %d", y)
	}
	if y := b.PlacementHeight(s, 1); y != 1 {
		t.Errorf("Expected S to rest at 1, got %d", y)
	}
	if y := b.PlacementHeight(square(), 2); y != 1 {
		t.Errorf("Expected square to rest at 1, got %d", y)
	}
}

// randomBoard commits each cell of a w x h board with probability fill.
func randomBoard(t *testing.T, rng *rand.Rand, w, h int, fill float64) *Board {
	t.Helper()
	b := NewBoard(w, h)
	for y := range h {
		for x := range w {
			if rng.Float64() < fill {
				commitAt(t, b, cell(), x, y)
			}
		}
	}
	return b
}

func TestPlacementProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 42))

	for trial := range 200 {
		w, h := 4+rng.IntN(7), 6+rng.IntN(9)
		b := randomBoard(t, rng, w, h, 0.3*rng.Float64())
		before := b.base
		before.cells = append([]bool(nil), b.base.cells...)
		before.heights = append([]int(nil), b.base.heights...)
		before.widths = append([]int(nil), b.base.widths...)

		for _, root := range Catalog() {
			for _, p := range root.Rotations() {
				for x := 0; x+p.Width() <= w; x++ {
					y := b.PlacementHeight(p, x)
					if y+p.Height() <= h {
						if out := b.Place(p, x, y); out.Failed() {
							t.Fatalf("trial %d: Place(%v, %d, PlacementHeight=%d) = %v", trial, p, x, y, out)
						}
						b.Undo()
					}
					// One row lower always hits the stack.
					if y > 0 && y-1+p.Height() <= h {
						if out := b.Place(p, x, y-1); out != OutcomeBadOverlap {
							t.Fatalf("trial %d: Place(%v, %d, %d) = %v, want bad overlap", trial, p, x, y-1, out)
						}
					}

					if b.Pending() || !reflect.DeepEqual(before, b.base) {
						t.Fatalf("trial %d: Place and Undo changed the committed grid (%v at x=%d)", trial, p, x)
					}
				}
			}
		}

		for x := range w {
			want := 0
			for y := range h {
				if b.Occupied(x, y) {
					want = y + 1
				}
			}
			if got := b.ColumnHeight(x); got != want {
				t.Fatalf("trial %d: ColumnHeight(%d) = %d, want %d", trial, x, got, want)
			}
		}
	}
}

func TestOutOfRangePanics(t *testing.T) {
	b := NewBoard(3, 4)
	mustPanicWith(t, ErrOutOfRange, func() { b.ColumnHeight(3) })
	mustPanicWith(t, ErrOutOfRange, func() { b.ColumnHeight(-1) })
	mustPanicWith(t, ErrOutOfRange, func() { b.RowWidth(4) })
	mustPanicWith(t, ErrOutOfRange, func() { b.Occupied(0, -1) })
}

func TestBoardReset(t *testing.T) {
	b := NewBoard(3, 4)
	commitAt(t, b, square(), 0, 0)
	b.Place(cell(), 2, 0)

	b.Reset()
	if b.Pending() || b.MaxHeight() != 0 {
		t.Error("Reset should clear everything")
	}
}

func TestOutcomeOrder(t *testing.T) {
	if !(OutcomeOK < OutcomeRowFilled && OutcomeRowFilled < OutcomeOutOfBounds && OutcomeOutOfBounds < OutcomeBadOverlap) {
		t.Error("Outcomes must be ordered from best to worst")
	}
	if OutcomeRowFilled.Failed() || !OutcomeOutOfBounds.Failed() {
		t.Error("Only out-of-bounds and overlap are failures")
	}
}
