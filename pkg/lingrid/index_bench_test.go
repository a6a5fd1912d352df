package lingrid

import (
	"bytes"
	"testing"
)

// Benchmark R-tree candidate selection vs linear scan over a large grid.

// largeGrid creates an n x n grid of unit cells
func largeGrid(b *testing.B, n int) *Grid {
	b.Helper()
	cells := make([]Cell, 0, n*n)
	for gx := 0; gx < n; gx++ {
		for gy := 0; gy < n; gy++ {
			cells = append(cells, Cell{ID: gx*n + gy, X: float64(gx + 1), Y: float64(gy + 1)})
		}
	}
	g, err := NewGrid(cells, 1, 1)
	if err != nil {
		b.Fatal(err)
	}
	return g
}

func benchmarkCandidates(b *testing.B, finder cellFinder, bounds Bounds) {
	var dst []int
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst = finder.candidates(bounds, dst)
	}
}

// BenchmarkCandidates_Rtree benchmarks a small query (a few cells) on 10,000 cells.
func BenchmarkCandidates_Rtree(b *testing.B) {
	g := largeGrid(b, 100)
	idx, err := buildCellIndex(g)
	if err != nil {
		b.Fatal(err)
	}
	benchmarkCandidates(b, idx, Bounds{MinX: 40.5, MaxX: 42.5, MinY: 40.5, MaxY: 41.5})
}

// BenchmarkCandidates_Linear benchmarks the same query with a linear scan.
func BenchmarkCandidates_Linear(b *testing.B) {
	g := largeGrid(b, 100)
	benchmarkCandidates(b, linearScan{grid: g}, Bounds{MinX: 40.5, MaxX: 42.5, MinY: 40.5, MaxY: 41.5})
}

// BenchmarkIntersect runs a whole stream serially and in parallel.
func BenchmarkIntersect(b *testing.B) {
	g := largeGrid(b, 10)
	stream := randomStream(1, 2000)

	for _, bc := range []struct {
		name string
		opts Options
	}{
		{name: "serial-linear", opts: Options{UseIndex: false, Parse: DefaultParseOptions()}},
		{name: "serial-index", opts: Options{UseIndex: true, Parse: DefaultParseOptions()}},
		{name: "parallel-index", opts: Options{UseIndex: true, Parallel: true, Workers: 4, Parse: DefaultParseOptions()}},
	} {
		b.Run(bc.name, func(b *testing.B) {
			it, err := NewIntersector(g, bc.opts)
			if err != nil {
				b.Fatal(err)
			}
			for i := 0; i < b.N; i++ {
				if _, err := it.Intersect(bytes.NewReader(stream)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
