package parser

import (
	"fmt"
)

// ErrTruncatedRecord indicates the stream ended before a record field was fully read.
// No part of the record is usable.
type ErrTruncatedRecord struct {
	RecordNumber int // 0 when the record header itself was cut short
	Field        string
	Offset       int64 // stream offset where the field starts
}

func (e *ErrTruncatedRecord) Error() string {
	if e.RecordNumber == 0 {
		return fmt.Sprintf("truncated record: %s at offset %d", e.Field, e.Offset)
	}
	return fmt.Sprintf("truncated record %d: %s at offset %d", e.RecordNumber, e.Field, e.Offset)
}

// ErrResourceExhausted indicates a record declares more parts or points than the
// reader is allowed to allocate.
type ErrResourceExhausted struct {
	RecordNumber int
	What         string // "parts" or "points"
	Count        uint32
	Limit        int
}

func (e *ErrResourceExhausted) Error() string {
	return fmt.Sprintf("record %d: %d %s exceeds limit %d", e.RecordNumber, e.Count, e.What, e.Limit)
}

// ErrStreamOpen indicates the source byte stream could not be opened
type ErrStreamOpen struct {
	Path string
	Err  error
}

func (e *ErrStreamOpen) Error() string {
	return fmt.Sprintf("open stream %s: %v", e.Path, e.Err)
}

func (e *ErrStreamOpen) Unwrap() error {
	return e.Err
}

// ErrInvalidHeader indicates the 100-byte main file header is malformed
type ErrInvalidHeader struct {
	Reason string
}

func (e *ErrInvalidHeader) Error() string {
	return fmt.Sprintf("invalid file header: %s", e.Reason)
}

// ErrUnsupportedShapeType indicates the stream declares a non-polyline shape type
type ErrUnsupportedShapeType struct {
	Type ShapeType
}

func (e *ErrUnsupportedShapeType) Error() string {
	return fmt.Sprintf("unsupported shape type %v (%d): only PolyLine, PolyLineZ and PolyLineM are read",
		e.Type, int32(e.Type))
}

// ErrContentLengthMismatch indicates the bytes consumed by a record differ from
// the content length declared in its header.
type ErrContentLengthMismatch struct {
	RecordNumber int
	Declared     int64
	Consumed     int64
}

func (e *ErrContentLengthMismatch) Error() string {
	return fmt.Sprintf("record %d: content length declares %d bytes, record body used %d",
		e.RecordNumber, e.Declared, e.Consumed)
}

// ErrInvalidGeometry indicates a decoded record violates polyline rules
type ErrInvalidGeometry struct {
	RecordNumber int
	Reason       string
}

func (e *ErrInvalidGeometry) Error() string {
	return fmt.Sprintf("invalid geometry in record %d: %s", e.RecordNumber, e.Reason)
}
