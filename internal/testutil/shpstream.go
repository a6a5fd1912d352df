// Package testutil provides shared test utilities and fixtures.
//
// It builds synthetic .shp byte streams so decoder and driver tests do not
// depend on files checked into the repository.
package testutil

import (
	"encoding/binary"
	"math"
)

// Shape type tags, mirrored here so the parser's own tests can import this package.
const (
	PolyLine  int32 = 3
	PolyLineZ int32 = 13
	PolyLineM int32 = 23
)

// Record describes one synthetic polyline record.
type Record struct {
	Number int
	Parts  []int        // defaults to []int{0}
	Points [][2]float64 // X, Y

	Z      []float64
	M      []float64
	ZRange [2]float64
	MRange [2]float64

	// OmitM drops the optional M block of a PolyLineZ record
	OmitM bool

	// Null writes a null-shape record (tag 0, no body)
	Null bool

	// ContentWords overrides the computed content length when non-zero
	ContentWords uint32

	// LittleEndianLength writes the content length little-endian
	LittleEndianLength bool
}

// Line is a convenience constructor for a single-part record
func Line(number int, points ...[2]float64) Record {
	return Record{Number: number, Points: points}
}

// Stream encodes a main file header followed by records of shapeType.
func Stream(shapeType int32, records ...Record) []byte {
	var body []byte
	for _, rec := range records {
		body = append(body, RecordBytes(shapeType, rec)...)
	}

	header := make([]byte, 100)
	binary.BigEndian.PutUint32(header[0:4], 9994)
	binary.BigEndian.PutUint32(header[24:28], uint32((100+len(body))/2))
	binary.LittleEndian.PutUint32(header[28:32], 1000)
	binary.LittleEndian.PutUint32(header[32:36], uint32(shapeType))
	minX, minY, maxX, maxY := extent(records)
	putFloat64(header[36:], minX)
	putFloat64(header[44:], minY)
	putFloat64(header[52:], maxX)
	putFloat64(header[60:], maxY)

	return append(header, body...)
}

// RecordBytes encodes one record including its 8-byte record header.
func RecordBytes(shapeType int32, rec Record) []byte {
	var content []byte
	if rec.Null {
		content = binary.LittleEndian.AppendUint32(content, 0)
	} else {
		content = recordContent(shapeType, rec)
	}

	words := uint32(len(content) / 2)
	if rec.ContentWords != 0 {
		words = rec.ContentWords
	}

	out := make([]byte, 0, 8+len(content))
	out = binary.BigEndian.AppendUint32(out, uint32(rec.Number))
	if rec.LittleEndianLength {
		out = binary.LittleEndian.AppendUint32(out, words)
	} else {
		out = binary.BigEndian.AppendUint32(out, words)
	}
	return append(out, content...)
}

func recordContent(shapeType int32, rec Record) []byte {
	parts := rec.Parts
	if parts == nil {
		parts = []int{0}
	}

	b := binary.LittleEndian.AppendUint32(nil, uint32(shapeType))
	minX, minY, maxX, maxY := bounds(rec.Points)
	b = appendFloat64(b, minX, minY, maxX, maxY)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(parts)))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(rec.Points)))
	for _, p := range parts {
		b = binary.LittleEndian.AppendUint32(b, uint32(int32(p)))
	}
	for _, p := range rec.Points {
		b = appendFloat64(b, p[0], p[1])
	}

	switch shapeType {
	case PolyLineZ:
		b = appendFloat64(b, rec.ZRange[0], rec.ZRange[1])
		b = appendFloat64(b, perPoint(rec.Z, len(rec.Points))...)
		if !rec.OmitM {
			b = appendFloat64(b, rec.MRange[0], rec.MRange[1])
			b = appendFloat64(b, perPoint(rec.M, len(rec.Points))...)
		}
	case PolyLineM:
		b = appendFloat64(b, rec.MRange[0], rec.MRange[1])
		b = appendFloat64(b, perPoint(rec.M, len(rec.Points))...)
	}
	return b
}

// perPoint pads or trims values to one per point
func perPoint(values []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, values)
	return out
}

func bounds(points [][2]float64) (minX, minY, maxX, maxY float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return minX, minY, maxX, maxY
}

func extent(records []Record) (minX, minY, maxX, maxY float64) {
	var all [][2]float64
	for _, rec := range records {
		all = append(all, rec.Points...)
	}
	return bounds(all)
}

func appendFloat64(b []byte, values ...float64) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

func putFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}
