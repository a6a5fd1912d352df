package parser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Byte-order helpers for the .shp layout. Record numbers, content lengths and
// the file header's code/length are big-endian; everything else is little-endian.

func getUint32BE(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func getUint32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func getInt32LE(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func getFloat64LE(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// chunkValues bounds the scratch buffer used for bulk double reads.
const chunkValues = 512

// fieldReader reads fixed-width fields sequentially from a record stream and
// tracks the absolute stream offset. A short read becomes ErrTruncatedRecord.
type fieldReader struct {
	r      io.Reader
	offset int64
	record int // record number for error context
	buf    [8]byte
	chunk  []byte
}

func newFieldReader(r io.Reader, offset int64) *fieldReader {
	return &fieldReader{r: r, offset: offset}
}

func (fr *fieldReader) fill(field string, b []byte) error {
	start := fr.offset
	n, err := io.ReadFull(fr.r, b)
	fr.offset += int64(n)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ErrTruncatedRecord{RecordNumber: fr.record, Field: field, Offset: start}
	}
	return fmt.Errorf("read %s at offset %d: %w", field, start, err)
}

// recordNumber reads the big-endian record number that opens a record. A clean
// end of stream before any byte is read is returned as io.EOF.
func (fr *fieldReader) recordNumber() (uint32, error) {
	b := fr.buf[:4]
	n, err := io.ReadFull(fr.r, b)
	fr.offset += int64(n)
	switch {
	case err == nil:
		return getUint32BE(b), nil
	case n == 0 && errors.Is(err, io.EOF):
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, &ErrTruncatedRecord{Field: "record number", Offset: fr.offset - int64(n)}
	default:
		return 0, fmt.Errorf("read record number: %w", err)
	}
}

func (fr *fieldReader) uint32BE(field string) (uint32, error) {
	if err := fr.fill(field, fr.buf[:4]); err != nil {
		return 0, err
	}
	return getUint32BE(fr.buf[:4]), nil
}

func (fr *fieldReader) uint32LE(field string) (uint32, error) {
	if err := fr.fill(field, fr.buf[:4]); err != nil {
		return 0, err
	}
	return getUint32LE(fr.buf[:4]), nil
}

func (fr *fieldReader) int32LE(field string) (int32, error) {
	if err := fr.fill(field, fr.buf[:4]); err != nil {
		return 0, err
	}
	return getInt32LE(fr.buf[:4]), nil
}

func (fr *fieldReader) float64LE(field string) (float64, error) {
	if err := fr.fill(field, fr.buf[:8]); err != nil {
		return 0, err
	}
	return getFloat64LE(fr.buf[:8]), nil
}

// float64sLE fills dst with consecutive little-endian doubles.
func (fr *fieldReader) float64sLE(field string, dst []float64) error {
	if fr.chunk == nil {
		fr.chunk = make([]byte, 8*chunkValues)
	}
	for len(dst) > 0 {
		n := min(len(dst), chunkValues)
		b := fr.chunk[:8*n]
		if err := fr.fill(field, b); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			dst[i] = getFloat64LE(b[8*i:])
		}
		dst = dst[n:]
	}
	return nil
}
