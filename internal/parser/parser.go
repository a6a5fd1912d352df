package parser

import (
	"bufio"
	"io"
	"os"
)

// ParseOptions configures record decoding
type ParseOptions struct {
	// ValidateGeometry: if true, reject records that break polyline rules
	// (see ValidateShape). Default: false, the driver tolerates malformed parts.
	ValidateGeometry bool

	// ValidateContentLength: if true, the content length is read big-endian and
	// the bytes a record body consumes must equal it. When false the field is
	// only consulted to spot empty bodies and a missing PolyLineZ M block.
	// Default: false
	ValidateContentLength bool

	// MaxParts and MaxPoints cap the per-record counts the reader will allocate
	// for. Zero means no cap.
	MaxParts  int
	MaxPoints int
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ValidateGeometry:      false,
		ValidateContentLength: false,
		MaxParts:              1 << 24,
		MaxPoints:             1 << 27,
	}
}

// Reader decodes polyline records one at a time from a .shp byte stream.
//
// Only the record being returned is held in memory; callers consume it and move
// on. A Reader is not safe for concurrent use.
type Reader struct {
	Header *Header // nil for headerless record streams

	fr        *fieldReader
	shapeType ShapeType
	limit     int64 // declared stream length in bytes, 0 if unknown
	opts      ParseOptions
	closer    io.Closer
	words     uint32 // raw content length of the current record
	scratch   [chunkValues]float64
}

// Open opens a .shp file and reads its main header
func Open(filename string, opts ParseOptions) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &ErrStreamOpen{Path: filename, Err: err}
	}
	rd, err := NewReader(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.closer = f
	return rd, nil
}

// NewReader reads the main header from r and returns a Reader positioned at the
// first record. Records are read until the declared file length is consumed or
// the stream ends on a record boundary.
func NewReader(r io.Reader, opts ParseOptions) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	header, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	return &Reader{
		Header:    header,
		fr:        newFieldReader(br, HeaderSize),
		shapeType: header.ShapeType,
		limit:     header.FileLength,
		opts:      opts,
	}, nil
}

// NewRecordReader returns a Reader for a stream that starts directly at a record,
// with the shape type supplied by the caller. Reading stops at end of stream.
func NewRecordReader(r io.Reader, shapeType ShapeType, opts ParseOptions) (*Reader, error) {
	if !shapeType.IsPolyline() {
		return nil, &ErrUnsupportedShapeType{Type: shapeType}
	}
	return &Reader{
		fr:        newFieldReader(bufio.NewReaderSize(r, 64*1024), 0),
		shapeType: shapeType,
		opts:      opts,
	}, nil
}

// ShapeType returns the stream-wide shape type
func (rd *Reader) ShapeType() ShapeType {
	return rd.shapeType
}

// Offset returns the number of stream bytes consumed so far
func (rd *Reader) Offset() int64 {
	return rd.fr.offset
}

// Next decodes the next record. It returns io.EOF once the stream is exhausted.
func (rd *Reader) Next() (Shape, error) {
	if rd.limit > 0 && rd.fr.offset >= rd.limit {
		return nil, io.EOF
	}
	return rd.decodeRecord()
}

// Close releases the underlying file when the Reader was created by Open
func (rd *Reader) Close() error {
	if rd.closer == nil {
		return nil
	}
	err := rd.closer.Close()
	rd.closer = nil
	return err
}

// ReadAll decodes every remaining record. Nothing is returned on error.
func ReadAll(rd *Reader) ([]Shape, error) {
	var shapes []Shape
	for {
		shape, err := rd.Next()
		if err == io.EOF {
			return shapes, nil
		}
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
}
