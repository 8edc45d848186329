package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Outcome is the result of a placement attempt, ordered from best to worst.
type Outcome int

const (
	// OutcomeOK means the piece was staged and no row became full.
	OutcomeOK Outcome = iota
	// OutcomeRowFilled means the piece was staged and completed a row.
	OutcomeRowFilled
	// OutcomeOutOfBounds means a cell fell outside the board; nothing was staged.
	OutcomeOutOfBounds
	// OutcomeBadOverlap means a cell hit an occupied cell; nothing was staged.
	OutcomeBadOverlap
)

// Failed reports whether the placement was rejected.
func (o Outcome) Failed() bool {
	return o >= OutcomeOutOfBounds
}

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRowFilled:
		return "row_filled"
	case OutcomeOutOfBounds:
		return "out_of_bounds"
	case OutcomeBadOverlap:
		return "bad_overlap"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// grid is one complete occupancy state with its caches.
type grid struct {
	cells   []bool // row-major, y*width + x
	heights []int  // per column: highest occupied y + 1
	widths  []int  // per row: occupied cell count
}

// overlay is a staged placement on top of the committed grid.
type overlay struct {
	cells   []core.Point // absolute board coordinates
	heights []int
	widths  []int
}

// Board is the well. y grows upward from the floor at y == 0.
//
// The board holds a committed grid and at most one pending placement.
// Commit folds the placement into the grid; Undo drops it. Queries answer
// for the visible state, committed cells plus the pending placement.
type Board struct {
	width   int
	height  int
	base    grid
	pending *overlay
}

// NewBoard creates an empty board. height includes any buffer rows.
func NewBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Errorf("board: %w: size %dx%d", ErrOutOfRange, width, height))
	}
	b := &Board{width: width, height: height}
	b.Reset()
	return b
}

// Reset clears all cells and any pending placement.
func (b *Board) Reset() {
	b.base = grid{
		cells:   make([]bool, b.width*b.height),
		heights: make([]int, b.width),
		widths:  make([]int, b.height),
	}
	b.pending = nil
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows, buffer rows included.
func (b *Board) Height() int {
	return b.height
}

// Pending reports whether a placement is staged.
func (b *Board) Pending() bool {
	return b.pending != nil
}

// ColumnHeight returns the highest occupied row in column x plus one, or 0
// for an empty column. Panics with ErrOutOfRange for a bad column.
func (b *Board) ColumnHeight(x int) int {
	if x < 0 || x >= b.width {
		panic(fmt.Errorf("board: %w: column %d", ErrOutOfRange, x))
	}
	return b.heights()[x]
}

// MaxHeight returns the tallest column height.
func (b *Board) MaxHeight() int {
	tallest := 0
	for _, h := range b.heights() {
		tallest = max(tallest, h)
	}
	return tallest
}

// RowWidth returns the number of occupied cells in row y.
func (b *Board) RowWidth(y int) int {
	if y < 0 || y >= b.height {
		panic(fmt.Errorf("board: %w: row %d", ErrOutOfRange, y))
	}
	if b.pending != nil {
		return b.pending.widths[y]
	}
	return b.base.widths[y]
}

// Occupied reports whether cell (x, y) is filled. Panics with
// ErrOutOfRange outside the board.
func (b *Board) Occupied(x, y int) bool {
	if !b.inBounds(x, y) {
		panic(fmt.Errorf("board: %w: cell (%d,%d)", ErrOutOfRange, x, y))
	}
	if b.base.cells[y*b.width+x] {
		return true
	}
	if b.pending != nil {
		for _, pt := range b.pending.cells {
			if pt.X == x && pt.Y == y {
				return true
			}
		}
	}
	return false
}

// committed reports the committed occupancy of an in-bounds cell.
func (b *Board) committed(x, y int) bool {
	return b.base.cells[y*b.width+x]
}

// PlacementHeight returns the y at which p would come to rest if dropped
// straight down in column x. Columns of p that fall outside the board are
// ignored; Place reports those as out of bounds.
func (b *Board) PlacementHeight(p *Piece, x int) int {
	heights := b.heights()
	y := 0
	for i, low := range p.Skirt() {
		col := x + i
		if col < 0 || col >= b.width {
			continue
		}
		y = max(y, heights[col]-low)
	}
	return y
}

// Place stages p with its origin at (x, y). Failed outcomes leave the board
// untouched; successful ones leave a pending placement that must be
// committed or undone before the next Place. Panics with ErrPending if a
// placement is already staged.
func (b *Board) Place(p *Piece, x, y int) Outcome {
	if b.pending != nil {
		panic(fmt.Errorf("board: %w", ErrPending))
	}

	cells := make([]core.Point, 0, len(p.Cells()))
	for _, off := range p.Cells() {
		pt := core.Pt(x+off.X, y+off.Y)
		if !b.inBounds(pt.X, pt.Y) {
			return OutcomeOutOfBounds
		}
		cells = append(cells, pt)
	}
	for _, pt := range cells {
		if b.committed(pt.X, pt.Y) {
			return OutcomeBadOverlap
		}
	}

	ov := &overlay{
		cells:   cells,
		heights: append([]int(nil), b.base.heights...),
		widths:  append([]int(nil), b.base.widths...),
	}
	outcome := OutcomeOK
	for _, pt := range cells {
		ov.widths[pt.Y]++
		ov.heights[pt.X] = max(ov.heights[pt.X], pt.Y+1)
		if ov.widths[pt.Y] == b.width {
			outcome = OutcomeRowFilled
		}
	}
	b.pending = ov
	return outcome
}

// Commit folds the pending placement into the committed grid. No-op when
// nothing is pending.
func (b *Board) Commit() {
	if b.pending == nil {
		return
	}
	for _, pt := range b.pending.cells {
		b.base.cells[pt.Y*b.width+pt.X] = true
	}
	b.base.heights = b.pending.heights
	b.base.widths = b.pending.widths
	b.pending = nil
}

// Undo drops the pending placement. No-op when nothing is pending.
func (b *Board) Undo() {
	b.pending = nil
}

// ClearRows removes every full row of the committed grid, shifting the rows
// above down, and returns how many rows were removed. Panics with
// ErrPending if a placement is still staged.
func (b *Board) ClearRows() int {
	if b.pending != nil {
		panic(fmt.Errorf("board: clear rows: %w", ErrPending))
	}

	cleared := 0
	to := 0
	for from := 0; from < b.height; from++ {
		if b.base.widths[from] == b.width {
			cleared++
			continue
		}
		if to != from {
			copy(b.base.cells[to*b.width:(to+1)*b.width], b.base.cells[from*b.width:(from+1)*b.width])
			b.base.widths[to] = b.base.widths[from]
		}
		to++
	}
	if cleared == 0 {
		return 0
	}

	for y := to; y < b.height; y++ {
		clear(b.base.cells[y*b.width : (y+1)*b.width])
		b.base.widths[y] = 0
	}
	b.recomputeHeights()
	return cleared
}

func (b *Board) recomputeHeights() {
	for x := 0; x < b.width; x++ {
		h := 0
		for y := b.height - 1; y >= 0; y-- {
			if b.base.cells[y*b.width+x] {
				h = y + 1
				break
			}
		}
		b.base.heights[x] = h
	}
}

func (b *Board) heights() []int {
	if b.pending != nil {
		return b.pending.heights
	}
	return b.base.heights
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}
