package parser

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestValidateShape(t *testing.T) {
	line := func(parts []int, pts ...r2.Vec) Polyline {
		return Polyline{Number: 1, Parts: parts, Points: pts}
	}
	a, b, c := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 2, Y: 0}

	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{
			name:    "valid polyline",
			shape:   &Polyline{Number: 1, Parts: []int{0}, Points: []r2.Vec{a, b}},
			wantErr: false,
		},
		{
			name:    "null record",
			shape:   &Polyline{Number: 1},
			wantErr: false,
		},
		{
			name:    "trailing end marker",
			shape:   &Polyline{Number: 1, Parts: []int{0, 3}, Points: []r2.Vec{a, b, c}},
			wantErr: false,
		},
		{
			name:    "nil shape",
			shape:   nil,
			wantErr: true,
		},
		{
			name:    "non-positive record number",
			shape:   &Polyline{Number: 0, Parts: []int{0}, Points: []r2.Vec{a, b}},
			wantErr: true,
		},
		{
			name:    "single point",
			shape:   &Polyline{Number: 1, Parts: []int{0}, Points: []r2.Vec{a}},
			wantErr: true,
		},
		{
			name:    "no parts",
			shape:   &Polyline{Number: 1, Points: []r2.Vec{a, b}},
			wantErr: true,
		},
		{
			name:    "part start out of range",
			shape:   &Polyline{Number: 1, Parts: []int{0, 4, 5}, Points: []r2.Vec{a, b, c}},
			wantErr: true,
		},
		{
			name:    "part starts not increasing",
			shape:   &Polyline{Number: 1, Parts: []int{0, 2, 2}, Points: []r2.Vec{a, b, c}},
			wantErr: true,
		},
		{
			name:    "non-finite coordinate",
			shape:   &Polyline{Number: 1, Parts: []int{0}, Points: []r2.Vec{a, {X: math.NaN(), Y: 0}}},
			wantErr: true,
		},
		{
			name:    "Z count mismatch",
			shape:   &PolylineZ{Polyline: line([]int{0}, a, b), Z: []float64{1}},
			wantErr: true,
		},
		{
			name:    "Z without M",
			shape:   &PolylineZ{Polyline: line([]int{0}, a, b), Z: []float64{1, 2}},
			wantErr: false,
		},
		{
			name:    "M count mismatch",
			shape:   &PolylineM{Polyline: line([]int{0}, a, b), M: []float64{1, 2, 3}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShape(tt.shape)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateShape() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidGeometry
				if !errors.As(err, &invalid) {
					t.Errorf("Expected ErrInvalidGeometry, got %T", err)
				}
			}
		})
	}
}
