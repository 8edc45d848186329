package engine

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Kind identifies one of the canonical catalog shapes.
type Kind int

const (
	KindNone Kind = iota
	KindStick
	KindL
	KindJ
	KindS
	KindZ
	KindSquare
	KindT
)

var kindNames = map[Kind]string{
	KindNone:   "none",
	KindStick:  "stick",
	KindL:      "l",
	KindJ:      "j",
	KindS:      "s",
	KindZ:      "z",
	KindSquare: "square",
	KindT:      "t",
}

// String returns the lowercase kind name used in snapshots.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown piece kind %q", s)
}

// Piece is an immutable shape: a set of cell offsets normalized so that the
// lowest x and y are both zero. Rotating never mutates a piece; it yields
// another one.
type Piece struct {
	body   []core.Point
	width  int
	height int
	skirt  []int

	kind      Kind
	rotation  int
	next      *Piece
	rotations []*Piece
}

// NewPiece builds a free-standing piece from cell offsets. Offsets are
// normalized, de-duplicated and sorted by x then y.
func NewPiece(points ...core.Point) *Piece {
	if len(points) == 0 {
		panic("engine: piece needs at least one cell")
	}

	minX, minY := points[0].X, points[0].Y
	for _, pt := range points[1:] {
		minX = min(minX, pt.X)
		minY = min(minY, pt.Y)
	}

	body := make([]core.Point, 0, len(points))
	for _, pt := range points {
		body = append(body, core.Pt(pt.X-minX, pt.Y-minY))
	}
	slices.SortFunc(body, func(a, b core.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	body = slices.Compact(body)

	p := &Piece{body: body}
	for _, pt := range body {
		p.width = max(p.width, pt.X+1)
		p.height = max(p.height, pt.Y+1)
	}

	p.skirt = make([]int, p.width)
	for i := range p.skirt {
		p.skirt[i] = p.height
	}
	for _, pt := range body {
		p.skirt[pt.X] = min(p.skirt[pt.X], pt.Y)
	}
	return p
}

// Cells returns the cell offsets sorted by x, then y. The slice is shared
// and must not be modified.
func (p *Piece) Cells() []core.Point {
	return p.body
}

// Width returns the width of the bounding box.
func (p *Piece) Width() int {
	return p.width
}

// Height returns the height of the bounding box.
func (p *Piece) Height() int {
	return p.height
}

// Skirt returns, for each column of the piece, the lowest occupied y.
func (p *Piece) Skirt() []int {
	return p.skirt
}

// Kind returns the catalog kind, or KindNone for free-standing pieces.
func (p *Piece) Kind() Kind {
	return p.kind
}

// Rotation returns the index of this shape in its kind's rotation cycle.
func (p *Piece) Rotation() int {
	return p.rotation
}

// Rotations returns the distinct rotation cycle this piece belongs to.
// Free-standing pieces return nil.
func (p *Piece) Rotations() []*Piece {
	return p.rotations
}

// Rotate returns the shape turned 90 degrees counter-clockwise, computed
// from the cells alone.
func (p *Piece) Rotate() *Piece {
	rotated := make([]core.Point, len(p.body))
	for i, pt := range p.body {
		rotated[i] = core.Pt(-pt.Y, pt.X)
	}
	return NewPiece(rotated...)
}

// Next returns the next distinct rotation. Catalog pieces answer from the
// precomputed cycle; other pieces rotate on demand.
func (p *Piece) Next() *Piece {
	if p.next != nil {
		return p.next
	}
	return p.Rotate()
}

// Equal reports whether two pieces have the same cell set.
func (p *Piece) Equal(other *Piece) bool {
	if p == other {
		return true
	}
	if other == nil {
		return false
	}
	return slices.Equal(p.body, other.body)
}

// String renders the body as a list of offsets.
func (p *Piece) String() string {
	return fmt.Sprint(p.body)
}

// templates lists the canonical shapes in their spawn orientation.
var templates = []struct {
	kind  Kind
	cells []core.Point
}{
	{KindStick, []core.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3}}},
	{KindL, []core.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 0}}},
	{KindJ, []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}}},
	{KindS, []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}}},
	{KindZ, []core.Point{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 0}}},
	{KindSquare, []core.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
	{KindT, []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}},
}

var (
	catalogOnce sync.Once
	catalog     []*Piece
)

// Catalog returns the spawn orientation of every canonical shape. The
// catalog is built once and shared; callers must treat it as read-only.
func Catalog() []*Piece {
	catalogOnce.Do(func() {
		catalog = make([]*Piece, 0, len(templates))
		for _, tmpl := range templates {
			catalog = append(catalog, buildRotations(tmpl.kind, NewPiece(tmpl.cells...)))
		}
	})
	return catalog
}

// CatalogPiece looks up a catalog shape by kind and rotation index.
func CatalogPiece(kind Kind, rotation int) (*Piece, bool) {
	for _, root := range Catalog() {
		if root.kind != kind {
			continue
		}
		if rotation < 0 || rotation >= len(root.rotations) {
			return nil, false
		}
		return root.rotations[rotation], true
	}
	return nil, false
}

// buildRotations rotates start until the cycle closes, keeping only
// distinct shapes, and links them into a ring.
func buildRotations(kind Kind, start *Piece) *Piece {
	cycle := []*Piece{start}
	for cur := start.Rotate(); !cur.Equal(start); cur = cur.Rotate() {
		if slices.ContainsFunc(cycle, cur.Equal) {
			continue
		}
		cycle = append(cycle, cur)
	}

	for i, p := range cycle {
		p.kind = kind
		p.rotation = i
		p.next = cycle[(i+1)%len(cycle)]
		p.rotations = cycle
	}
	return start
}
