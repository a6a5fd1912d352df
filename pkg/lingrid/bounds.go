package lingrid

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/beetlebugorg/lingrid/internal/parser"
)

// Bounds represents an axis-aligned extent in the grid's coordinate system.
//
// Bounds are closed: edges belong to the extent.
type Bounds struct {
	MinX float64 // Western edge
	MaxX float64 // Eastern edge
	MinY float64 // Southern edge
	MaxY float64 // Northern edge
}

// Contains returns true if the point (x, y) is within the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY
}

// Intersects returns true if the given bounds share at least one point with
// this bounds, including a shared edge or corner.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxX < b.MinX ||
		other.MinX > b.MaxX ||
		other.MaxY < b.MinY ||
		other.MinY > b.MaxY)
}

// Expand returns a new Bounds expanded by the given margin in all directions.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinX: b.MinX - margin,
		MaxX: b.MaxX + margin,
		MinY: b.MinY - margin,
		MaxY: b.MaxY + margin,
	}
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, other.MinX),
		MaxX: max(b.MaxX, other.MaxX),
		MinY: min(b.MinY, other.MinY),
		MaxY: max(b.MaxY, other.MaxY),
	}
}

// Box converts the bounds to a gonum box
func (b Bounds) Box() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: b.MinX, Y: b.MinY},
		Max: r2.Vec{X: b.MaxX, Y: b.MaxY},
	}
}

// lineBounds calculates the extent of the points that form segments.
//
// The record's declared bounding box is not trusted; the extent is recomputed so
// the fast reject can never drop a segment. ok is false when the record has no
// segments at all.
func lineBounds(line *parser.Polyline) (Bounds, bool) {
	ranges := line.PartRanges()
	if len(ranges) == 0 {
		return Bounds{}, false
	}

	// Initialize with first coordinate
	first := line.Points[ranges[0].Start]
	bounds := Bounds{
		MinX: first.X,
		MaxX: first.X,
		MinY: first.Y,
		MaxY: first.Y,
	}

	// Expand to include all coordinates
	for _, r := range ranges {
		for _, p := range line.Points[r.Start:r.End] {
			if p.X < bounds.MinX {
				bounds.MinX = p.X
			}
			if p.X > bounds.MaxX {
				bounds.MaxX = p.X
			}
			if p.Y < bounds.MinY {
				bounds.MinY = p.Y
			}
			if p.Y > bounds.MaxY {
				bounds.MaxY = p.Y
			}
		}
	}

	return bounds, true
}
