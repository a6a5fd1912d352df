package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/beetlebugorg/lingrid/internal/testutil"
)

func TestReadHeader(t *testing.T) {
	stream := testutil.Stream(testutil.PolyLineZ, testutil.Record{
		Number: 1,
		Points: [][2]float64{{-3, 2}, {4, 9}},
	})

	h, err := ReadHeader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if h.ShapeType != ShapeTypePolyLineZ {
		t.Errorf("Expected PolyLineZ, got %v", h.ShapeType)
	}
	if h.FileLength != int64(len(stream)) {
		t.Errorf("Expected file length %d, got %d", len(stream), h.FileLength)
	}
	if h.Version != 1000 {
		t.Errorf("Expected version 1000, got %d", h.Version)
	}
	if h.Box.Min.X != -3 || h.Box.Min.Y != 2 || h.Box.Max.X != 4 || h.Box.Max.Y != 9 {
		t.Errorf("Unexpected box %v", h.Box)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	valid := testutil.Stream(testutil.PolyLine)

	tests := []struct {
		name  string
		data  func() []byte
		check func(error) bool
	}{
		{
			name: "short stream",
			data: func() []byte { return valid[:60] },
			check: func(err error) bool {
				var e *ErrInvalidHeader
				return errors.As(err, &e)
			},
		},
		{
			name: "bad file code",
			data: func() []byte {
				b := bytes.Clone(valid)
				binary.BigEndian.PutUint32(b[0:4], 1234)
				return b
			},
			check: func(err error) bool {
				var e *ErrInvalidHeader
				return errors.As(err, &e)
			},
		},
		{
			name: "bad version",
			data: func() []byte {
				b := bytes.Clone(valid)
				binary.LittleEndian.PutUint32(b[28:32], 999)
				return b
			},
			check: func(err error) bool {
				var e *ErrInvalidHeader
				return errors.As(err, &e)
			},
		},
		{
			name: "polygon stream",
			data: func() []byte {
				b := bytes.Clone(valid)
				binary.LittleEndian.PutUint32(b[32:36], uint32(ShapeTypePolygon))
				return b
			},
			check: func(err error) bool {
				var e *ErrUnsupportedShapeType
				return errors.As(err, &e) && e.Type == ShapeTypePolygon
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.data()))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("Unexpected error type %T: %v", err, err)
			}
		})
	}
}

func TestEndianHelpers(t *testing.T) {
	b := []byte{0x00, 0x00, 0x27, 0x0A}
	if got := getUint32BE(b); got != 9994 {
		t.Errorf("getUint32BE: expected 9994, got %d", got)
	}
	if got := getUint32LE([]byte{0xE8, 0x03, 0x00, 0x00}); got != 1000 {
		t.Errorf("getUint32LE: expected 1000, got %d", got)
	}
	if got := getInt32LE([]byte{0xFF, 0xFF, 0xFF, 0xFF}); got != -1 {
		t.Errorf("getInt32LE: expected -1, got %d", got)
	}

	f := make([]byte, 8)
	binary.LittleEndian.PutUint64(f, math.Float64bits(-12.625))
	if got := getFloat64LE(f); got != -12.625 {
		t.Errorf("getFloat64LE: expected -12.625, got %v", got)
	}
}
