// Package clip computes the part of a line segment that lies inside an
// axis-aligned rectangle.
//
// Rectangles are closed: a segment running along an edge is inside, and a
// segment lying on an edge shared by two cells counts toward both.
package clip

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// interval returns the parameter range [t0, t1] of P(t) = p1 + t*(p2-p1),
// t in [0, 1], that satisfies all four half-plane constraints of box.
//
// Each constraint is written as t*p <= q. When p is zero the segment is parallel
// to that edge and the constraint holds for every t or for none.
func interval(p1, p2 r2.Vec, box r2.Box) (t0, t1 float64, ok bool) {
	d := r2.Sub(p2, p1)
	t0, t1 = 0, 1

	constraints := [4][2]float64{
		{-d.X, p1.X - box.Min.X}, // x >= xMin
		{d.X, box.Max.X - p1.X},  // x <= xMax
		{-d.Y, p1.Y - box.Min.Y}, // y >= yMin
		{d.Y, box.Max.Y - p1.Y},  // y <= yMax
	}
	for _, c := range constraints {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			// entering
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			// leaving
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return t0, t1, t0 <= t1
}

// Length returns the Euclidean length of the part of segment p1-p2 inside box.
// A zero-length segment contributes 0 wherever it is.
func Length(p1, p2 r2.Vec, box r2.Box) float64 {
	if p1 == p2 {
		return 0
	}
	t0, t1, ok := interval(p1, p2, box)
	if !ok {
		return 0
	}
	return (t1 - t0) * r2.Norm(r2.Sub(p2, p1))
}

// Segment returns the endpoints of the part of p1-p2 inside box. ok is false
// when that part has no length, including a segment that only touches a corner.
func Segment(p1, p2 r2.Vec, box r2.Box) (a, b r2.Vec, ok bool) {
	if p1 == p2 {
		return r2.Vec{}, r2.Vec{}, false
	}
	t0, t1, ok := interval(p1, p2, box)
	if !ok || t0 == t1 {
		return r2.Vec{}, r2.Vec{}, false
	}
	d := r2.Sub(p2, p1)
	return r2.Add(p1, r2.Scale(t0, d)), r2.Add(p1, r2.Scale(t1, d)), true
}

// Overlaps reports whether two closed boxes share at least one point
func Overlaps(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
