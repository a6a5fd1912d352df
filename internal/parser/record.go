package parser

import (
	"math/bits"

	"gonum.org/v1/gonum/spatial/r2"
)

// maxPrealloc caps the capacity reserved from a declared count before its bytes
// have been read. Longer arrays grow as data arrives.
const maxPrealloc = 1 << 16

// decodeRecord reads one record, starting at its record number.
//
// Record layout:
//
//	record number      uint32 BE
//	content length     uint32, 16-bit words, excludes the 8-byte record header
//	                   (BE by convention, some writers emit LE)
//	shape type         int32 LE (the stream-wide type is authoritative)
//	box                4 x float64 LE
//	numParts           int32 LE
//	numPoints          int32 LE
//	parts              numParts x int32 LE
//	points             numPoints x (X, Y) float64 LE
//	PolyLineZ:         Z range, numPoints Z values, optional M range and M values
//	PolyLineM:         M range, numPoints M values
//
// io.EOF is returned only when the stream ends exactly on a record boundary.
func (rd *Reader) decodeRecord() (Shape, error) {
	fr := rd.fr
	fr.record = 0
	start := fr.offset

	number, err := fr.recordNumber()
	if err != nil {
		return nil, err
	}
	fr.record = int(number)

	contentWords, err := fr.uint32BE("content length")
	if err != nil {
		return nil, err
	}
	declared := 2 * int64(contentWords)
	rd.words = contentWords

	tag, err := fr.int32LE("shape type")
	if err != nil {
		return nil, err
	}

	line := Polyline{Number: int(number)}
	if ShapeType(tag) == ShapeTypeNull && (rd.opts.ValidateContentLength || rd.bodyEnds(4)) {
		// Deleted feature slot: nothing but the tag follows
		return rd.finish(rd.wrap(line), start, declared)
	}

	var box [4]float64
	if err := fr.float64sLE("bounding box", box[:]); err != nil {
		return nil, err
	}
	line.Box = r2.Box{
		Min: r2.Vec{X: box[0], Y: box[1]},
		Max: r2.Vec{X: box[2], Y: box[3]},
	}

	numParts, err := fr.uint32LE("part count")
	if err != nil {
		return nil, err
	}
	numPoints, err := fr.uint32LE("point count")
	if err != nil {
		return nil, err
	}
	if err := rd.checkCounts(numParts, numPoints); err != nil {
		return nil, err
	}

	line.Parts = make([]int, 0, min(int(numParts), maxPrealloc))
	for range numParts {
		v, err := fr.int32LE("part index")
		if err != nil {
			return nil, err
		}
		line.Parts = append(line.Parts, int(v))
	}

	if line.Points, err = rd.readPoints(int(numPoints)); err != nil {
		return nil, err
	}

	shape, err := rd.readMeasures(line, int(numPoints), start, declared)
	if err != nil {
		return nil, err
	}
	return rd.finish(shape, start, declared)
}

// checkCounts rejects counts over the configured limits, or counts that cannot
// fit in the bytes left in the declared stream, before anything is allocated.
func (rd *Reader) checkCounts(numParts, numPoints uint32) error {
	if rd.opts.MaxParts > 0 && int64(numParts) > int64(rd.opts.MaxParts) {
		return &ErrResourceExhausted{RecordNumber: rd.fr.record, What: "parts", Count: numParts, Limit: rd.opts.MaxParts}
	}
	if rd.opts.MaxPoints > 0 && int64(numPoints) > int64(rd.opts.MaxPoints) {
		return &ErrResourceExhausted{RecordNumber: rd.fr.record, What: "points", Count: numPoints, Limit: rd.opts.MaxPoints}
	}
	if rd.limit <= 0 {
		return nil
	}

	need := 4*int64(numParts) + 16*int64(numPoints)
	switch rd.shapeType {
	case ShapeTypePolyLineZ, ShapeTypePolyLineM:
		need += 16 + 8*int64(numPoints)
	}
	if rd.fr.offset+need > rd.limit {
		field := "points"
		if rd.fr.offset+4*int64(numParts) > rd.limit {
			field = "part index"
		}
		return &ErrTruncatedRecord{RecordNumber: rd.fr.record, Field: field, Offset: rd.fr.offset}
	}
	return nil
}

// readMeasures reads the Z and M blocks of the stream's variant
func (rd *Reader) readMeasures(line Polyline, numPoints int, start, declared int64) (Shape, error) {
	fr := rd.fr
	switch rd.shapeType {
	case ShapeTypePolyLineZ:
		z := &PolylineZ{Polyline: line}
		if err := rd.readRange("Z range", &z.ZRange); err != nil {
			return nil, err
		}
		var err error
		if z.Z, err = rd.readValues("Z values", numPoints); err != nil {
			return nil, err
		}
		// M is optional for PolyLineZ
		used := fr.offset - start - recordHeaderSize
		hasM := !rd.bodyEnds(used)
		if rd.opts.ValidateContentLength {
			hasM = declared >= used+16+8*int64(numPoints)
		}
		if hasM {
			if err := rd.readRange("M range", &z.MRange); err != nil {
				return nil, err
			}
			if z.M, err = rd.readValues("M values", numPoints); err != nil {
				return nil, err
			}
		}
		return z, nil

	case ShapeTypePolyLineM:
		m := &PolylineM{Polyline: line}
		if err := rd.readRange("M range", &m.MRange); err != nil {
			return nil, err
		}
		var err error
		if m.M, err = rd.readValues("M values", numPoints); err != nil {
			return nil, err
		}
		return m, nil

	default:
		return &line, nil
	}
}

// bodyEnds reports whether a record body of used bytes is complete, either
// because the stream's declared length ends there or because the content
// length, read in either byte order, says so.
func (rd *Reader) bodyEnds(used int64) bool {
	if rd.limit > 0 && rd.fr.offset >= rd.limit {
		return true
	}
	return 2*int64(rd.words) == used || 2*int64(bits.ReverseBytes32(rd.words)) == used
}

// readPoints reads n points, growing the slice as their bytes arrive
func (rd *Reader) readPoints(n int) ([]r2.Vec, error) {
	pts := make([]r2.Vec, 0, min(n, maxPrealloc))
	for len(pts) < n {
		k := min(n-len(pts), chunkValues/2)
		xy := rd.scratch[:2*k]
		if err := rd.fr.float64sLE("points", xy); err != nil {
			return nil, err
		}
		for i := 0; i < k; i++ {
			pts = append(pts, r2.Vec{X: xy[2*i], Y: xy[2*i+1]})
		}
	}
	return pts, nil
}

// readValues reads n doubles, growing the slice as their bytes arrive
func (rd *Reader) readValues(field string, n int) ([]float64, error) {
	vals := make([]float64, 0, min(n, maxPrealloc))
	for len(vals) < n {
		k := min(n-len(vals), chunkValues)
		if err := rd.fr.float64sLE(field, rd.scratch[:k]); err != nil {
			return nil, err
		}
		vals = append(vals, rd.scratch[:k]...)
	}
	return vals, nil
}

func (rd *Reader) readRange(field string, r *Range) error {
	var v [2]float64
	if err := rd.fr.float64sLE(field, v[:]); err != nil {
		return err
	}
	r.Min, r.Max = v[0], v[1]
	return nil
}

// wrap returns an empty record of the stream's variant
func (rd *Reader) wrap(line Polyline) Shape {
	switch rd.shapeType {
	case ShapeTypePolyLineZ:
		return &PolylineZ{Polyline: line}
	case ShapeTypePolyLineM:
		return &PolylineM{Polyline: line}
	default:
		return &line
	}
}

// finish checks the content length and, if enabled, the geometry
func (rd *Reader) finish(shape Shape, start, declared int64) (Shape, error) {
	consumed := rd.fr.offset - start - recordHeaderSize
	if rd.opts.ValidateContentLength && consumed != declared {
		return nil, &ErrContentLengthMismatch{
			RecordNumber: shape.Line().Number,
			Declared:     declared,
			Consumed:     consumed,
		}
	}
	if rd.opts.ValidateGeometry {
		if err := ValidateShape(shape); err != nil {
			return nil, err
		}
	}
	return shape, nil
}
