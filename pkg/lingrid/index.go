package lingrid

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// cellFinder returns, in ascending cell index order, the cells whose rectangle
// may intersect a record's extent. Implementations must never drop a cell that
// shares a point with bounds.
type cellFinder interface {
	candidates(bounds Bounds, dst []int) []int
}

// linearScan tests every cell
type linearScan struct {
	grid *Grid
}

func (s linearScan) candidates(bounds Bounds, dst []int) []int {
	dst = dst[:0]
	for i := range s.grid.Cells {
		if bounds.Intersects(s.grid.CellBounds(i)) {
			dst = append(dst, i)
		}
	}
	return dst
}

// cellIndex provides fast candidate queries over the grid using an R-tree.
//
// Queries are O(log N) with the R-tree, compared to O(N) with linear scan.
type cellIndex struct {
	grid  *Grid
	rtree *rtreego.Rtree
	pad   float64
}

// cellEntry is the R-tree item for one cell
type cellEntry struct {
	index int
	rect  rtreego.Rect
}

// Bounds method for rtreego.Spatial interface.
func (e *cellEntry) Bounds() rtreego.Rect {
	return e.rect
}

// buildCellIndex creates an R-tree over the cells of g.
func buildCellIndex(g *Grid) (*cellIndex, error) {
	// Create R-tree (2D, min=25 children, max=50 children)
	rtree := rtreego.NewTree(2, 25, 50)

	extent := 1.0
	for i := range g.Cells {
		b := g.CellBounds(i)
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{b.MinX, b.MinY},
			rtreego.Point{b.MaxX, b.MaxY},
		)
		if err != nil {
			return nil, err
		}
		rtree.Insert(&cellEntry{index: i, rect: rect})

		extent = max(extent, math.Abs(b.MinX), math.Abs(b.MaxX), math.Abs(b.MinY), math.Abs(b.MaxY))
	}

	return &cellIndex{
		grid:  g,
		rtree: rtree,
		// rtreego treats touching rectangles as disjoint; widen queries so cells
		// that only share an edge with a record are still returned.
		pad: extent * 1e-9,
	}, nil
}

func (idx *cellIndex) candidates(bounds Bounds, dst []int) []int {
	dst = dst[:0]

	q := bounds.Expand(idx.pad)
	queryRect, err := rtreego.NewRectFromPoints(
		rtreego.Point{q.MinX, q.MinY},
		rtreego.Point{q.MaxX, q.MaxY},
	)
	if err != nil {
		return linearScan{grid: idx.grid}.candidates(bounds, dst)
	}

	for _, spatial := range idx.rtree.SearchIntersect(queryRect) {
		entry := spatial.(*cellEntry)
		// Padding can admit neighbours; keep only true closed-box overlaps
		if bounds.Intersects(idx.grid.CellBounds(entry.index)) {
			dst = append(dst, entry.index)
		}
	}

	// Output order is grid order, whatever order the tree returns
	sort.Ints(dst)
	return dst
}

// Count returns the number of indexed cells.
func (idx *cellIndex) Count() int {
	return idx.rtree.Size()
}

func newCellFinder(g *Grid, useIndex bool) (cellFinder, error) {
	if !useIndex || g.Len() == 0 {
		return linearScan{grid: g}, nil
	}
	return buildCellIndex(g)
}
