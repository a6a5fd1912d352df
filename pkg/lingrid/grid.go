package lingrid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Cell is one sampling-grid point.
//
// The cell rectangle extends dx to the west and dy to the south of the anchor:
// [X-dx, X] x [Y-dy, Y].
type Cell struct {
	ID int     // Externally assigned cell identifier
	X  float64 // Anchor (north-east corner) X
	Y  float64 // Anchor (north-east corner) Y
}

// Grid is an ordered set of cells sharing one cell size.
//
// Output rows follow the order of Cells. A Grid is immutable once built and may
// be shared between goroutines.
type Grid struct {
	Cells []Cell
	DX    float64
	DY    float64

	boxes []r2.Box
}

// NewGrid validates cells and cell size and precomputes cell rectangles.
func NewGrid(cells []Cell, dx, dy float64) (*Grid, error) {
	if !(dx > 0) || math.IsInf(dx, 0) {
		return nil, fmt.Errorf("invalid cell width %v: must be positive and finite", dx)
	}
	if !(dy > 0) || math.IsInf(dy, 0) {
		return nil, fmt.Errorf("invalid cell height %v: must be positive and finite", dy)
	}

	g := &Grid{
		Cells: make([]Cell, len(cells)),
		DX:    dx,
		DY:    dy,
		boxes: make([]r2.Box, len(cells)),
	}
	copy(g.Cells, cells)

	for i, c := range g.Cells {
		if !finite(c.X) || !finite(c.Y) {
			return nil, fmt.Errorf("cell %d: anchor (%v, %v) is not finite", c.ID, c.X, c.Y)
		}
		g.boxes[i] = r2.Box{
			Min: r2.Vec{X: c.X - dx, Y: c.Y - dy},
			Max: r2.Vec{X: c.X, Y: c.Y},
		}
	}
	return g, nil
}

// Len returns the number of cells
func (g *Grid) Len() int {
	return len(g.Cells)
}

// CellBox returns the rectangle of the cell at index i
func (g *Grid) CellBox(i int) r2.Box {
	return g.boxes[i]
}

// CellBounds returns the rectangle of the cell at index i as Bounds
func (g *Grid) CellBounds(i int) Bounds {
	b := g.boxes[i]
	return Bounds{MinX: b.Min.X, MaxX: b.Max.X, MinY: b.Min.Y, MaxY: b.Max.Y}
}

// IDs returns the cell identifiers in grid order
func (g *Grid) IDs() []int {
	ids := make([]int, len(g.Cells))
	for i, c := range g.Cells {
		ids[i] = c.ID
	}
	return ids
}

// Bounds returns the union of all cell rectangles.
func (g *Grid) Bounds() Bounds {
	if len(g.Cells) == 0 {
		return Bounds{}
	}

	bounds := g.CellBounds(0)
	for i := 1; i < len(g.Cells); i++ {
		bounds = bounds.Union(g.CellBounds(i))
	}

	return bounds
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
