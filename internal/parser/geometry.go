package parser

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeType is the shape type tag declared in the main file header
type ShapeType int32

const (
	ShapeTypeNull        ShapeType = 0
	ShapeTypePoint       ShapeType = 1
	ShapeTypePolyLine    ShapeType = 3
	ShapeTypePolygon     ShapeType = 5
	ShapeTypeMultiPoint  ShapeType = 8
	ShapeTypePointZ      ShapeType = 11
	ShapeTypePolyLineZ   ShapeType = 13
	ShapeTypePolygonZ    ShapeType = 15
	ShapeTypeMultiPointZ ShapeType = 18
	ShapeTypePointM      ShapeType = 21
	ShapeTypePolyLineM   ShapeType = 23
	ShapeTypePolygonM    ShapeType = 25
	ShapeTypeMultiPointM ShapeType = 28
	ShapeTypeMultiPatch  ShapeType = 31
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeNull:
		return "Null"
	case ShapeTypePoint:
		return "Point"
	case ShapeTypePolyLine:
		return "PolyLine"
	case ShapeTypePolygon:
		return "Polygon"
	case ShapeTypeMultiPoint:
		return "MultiPoint"
	case ShapeTypePointZ:
		return "PointZ"
	case ShapeTypePolyLineZ:
		return "PolyLineZ"
	case ShapeTypePolygonZ:
		return "PolygonZ"
	case ShapeTypeMultiPointZ:
		return "MultiPointZ"
	case ShapeTypePointM:
		return "PointM"
	case ShapeTypePolyLineM:
		return "PolyLineM"
	case ShapeTypePolygonM:
		return "PolygonM"
	case ShapeTypeMultiPointM:
		return "MultiPointM"
	case ShapeTypeMultiPatch:
		return "MultiPatch"
	default:
		return "Unknown"
	}
}

// IsPolyline reports whether records of this type can be decoded
func (t ShapeType) IsPolyline() bool {
	return t == ShapeTypePolyLine || t == ShapeTypePolyLineZ || t == ShapeTypePolyLineM
}

// Range is a closed [Min, Max] interval of Z or M values
type Range struct {
	Min, Max float64
}

// Shape is one decoded polyline record: *Polyline, *PolylineZ or *PolylineM.
type Shape interface {
	Type() ShapeType
	// Line returns the 2D part common to every variant
	Line() *Polyline
}

// Polyline is a record of one or more disjoint parts.
//
// Parts holds the start index of each part in Points. A record read from a
// null-shape slot has no parts and no points.
type Polyline struct {
	Number int
	Box    r2.Box
	Parts  []int
	Points []r2.Vec
}

func (p *Polyline) Type() ShapeType { return ShapeTypePolyLine }
func (p *Polyline) Line() *Polyline { return p }

// PolylineZ carries one elevation per point. M is optional in the format and is
// nil when the record omits it.
type PolylineZ struct {
	Polyline
	ZRange Range
	Z      []float64
	MRange Range
	M      []float64
}

func (p *PolylineZ) Type() ShapeType { return ShapeTypePolyLineZ }

// PolylineM carries one measure per point
type PolylineM struct {
	Polyline
	MRange Range
	M      []float64
}

func (p *PolylineM) Type() ShapeType { return ShapeTypePolyLineM }

// PartRange is a half-open [Start, End) range of point indices forming one part
type PartRange struct {
	Start, End int
}

// Segments returns the number of segments in the part
func (r PartRange) Segments() int {
	return r.End - r.Start - 1
}

// PartRanges splits Points into the record's parts. Segments never span two
// parts.
//
// Part starts are taken in order; a start that does not advance past the previous
// one, or that is >= len(Points) (the trailing end-marker convention), is ignored
// so the current part continues. Points before Parts[0] belong to the first part.
// Parts with fewer than two points are dropped.
func (p *Polyline) PartRanges() []PartRange {
	n := len(p.Points)
	if n < 2 {
		return nil
	}

	starts := make([]int, 1, max(len(p.Parts), 1))
	for i := 1; i < len(p.Parts); i++ {
		s := p.Parts[i]
		if s > starts[len(starts)-1] && s < n {
			starts = append(starts, s)
		}
	}

	ranges := make([]PartRange, 0, len(starts))
	for i, start := range starts {
		end := n
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end-start >= 2 {
			ranges = append(ranges, PartRange{Start: start, End: end})
		}
	}
	return ranges
}

// NumSegments returns how many segments PartRanges produces
func (p *Polyline) NumSegments() int {
	total := 0
	for _, r := range p.PartRanges() {
		total += r.Segments()
	}
	return total
}

// Length returns the total Euclidean length of all parts
func (p *Polyline) Length() float64 {
	total := 0.0
	for _, r := range p.PartRanges() {
		for k := r.Start; k+1 < r.End; k++ {
			total += r2.Norm(r2.Sub(p.Points[k+1], p.Points[k]))
		}
	}
	return total
}
