package parser

import (
	"errors"
	"io"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// HeaderSize is the length of the main file header; records start here.
	HeaderSize = 100

	fileCode      = 9994
	formatVersion = 1000

	// recordHeaderSize covers record number and content length
	recordHeaderSize = 8
)

// Header holds the stream-wide fields of the main file header.
//
// Binary format (100 bytes):
//
//	0-3    file code (int32 BE, 9994)
//	4-23   unused
//	24-27  file length in 16-bit words (int32 BE), header included
//	28-31  version (int32 LE, 1000)
//	32-35  shape type (int32 LE)
//	36-67  Xmin, Ymin, Xmax, Ymax (float64 LE)
//	68-83  Zmin, Zmax (float64 LE)
//	84-99  Mmin, Mmax (float64 LE)
type Header struct {
	FileLength int64 // bytes
	Version    int32
	ShapeType  ShapeType
	Box        r2.Box
	ZRange     Range
	MRange     Range
}

// ReadHeader reads and decodes the main file header
func ReadHeader(r io.Reader) (*Header, error) {
	data := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &ErrInvalidHeader{Reason: "stream shorter than 100-byte header"}
		}
		return nil, err
	}
	return parseHeader(data)
}

func parseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, &ErrInvalidHeader{Reason: "stream shorter than 100-byte header"}
	}
	if code := int32(getUint32BE(data[0:4])); code != fileCode {
		return nil, &ErrInvalidHeader{Reason: "bad file code"}
	}

	h := &Header{
		FileLength: 2 * int64(getUint32BE(data[24:28])),
		Version:    getInt32LE(data[28:32]),
		ShapeType:  ShapeType(getInt32LE(data[32:36])),
		Box: r2.Box{
			Min: r2.Vec{X: getFloat64LE(data[36:44]), Y: getFloat64LE(data[44:52])},
			Max: r2.Vec{X: getFloat64LE(data[52:60]), Y: getFloat64LE(data[60:68])},
		},
		ZRange: Range{Min: getFloat64LE(data[68:76]), Max: getFloat64LE(data[76:84])},
		MRange: Range{Min: getFloat64LE(data[84:92]), Max: getFloat64LE(data[92:100])},
	}

	if h.Version != formatVersion {
		return nil, &ErrInvalidHeader{Reason: "unsupported version"}
	}
	if h.FileLength < HeaderSize {
		return nil, &ErrInvalidHeader{Reason: "file length smaller than header"}
	}
	if !h.ShapeType.IsPolyline() {
		return nil, &ErrUnsupportedShapeType{Type: h.ShapeType}
	}
	return h, nil
}
