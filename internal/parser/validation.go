package parser

import (
	"fmt"
	"math"
)

// ValidateShape checks a decoded record against polyline rules:
// at least one part and two points, part starts strictly increasing within
// [0, len(Points)) with one trailing start equal to len(Points) allowed, finite
// coordinates, and one Z/M value per point.
//
// A null record (no parts, no points) is valid.
func ValidateShape(shape Shape) error {
	if shape == nil {
		return &ErrInvalidGeometry{Reason: "shape is nil"}
	}
	line := shape.Line()
	invalid := func(format string, args ...any) error {
		return &ErrInvalidGeometry{RecordNumber: line.Number, Reason: fmt.Sprintf(format, args...)}
	}

	if line.Number <= 0 {
		return invalid("record number %d is not positive", line.Number)
	}
	if len(line.Parts) == 0 && len(line.Points) == 0 {
		return nil
	}
	if len(line.Points) < 2 {
		return invalid("polyline has %d points, need at least 2", len(line.Points))
	}
	if len(line.Parts) == 0 {
		return invalid("polyline has no parts")
	}

	n := len(line.Points)
	for i, start := range line.Parts {
		if i > 0 && start <= line.Parts[i-1] {
			return invalid("part %d starts at %d, not after part %d at %d", i, start, i-1, line.Parts[i-1])
		}
		trailing := i == len(line.Parts)-1 && start == n
		if (start < 0 || start >= n) && !trailing {
			return invalid("part %d start %d outside [0, %d)", i, start, n)
		}
	}

	for i, p := range line.Points {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return invalid("coordinate %d is not finite", i)
		}
	}

	switch s := shape.(type) {
	case *PolylineZ:
		if len(s.Z) != n {
			return invalid("%d Z values for %d points", len(s.Z), n)
		}
		if s.M != nil && len(s.M) != n {
			return invalid("%d M values for %d points", len(s.M), n)
		}
	case *PolylineM:
		if len(s.M) != n {
			return invalid("%d M values for %d points", len(s.M), n)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
