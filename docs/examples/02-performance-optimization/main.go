package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/beetlebugorg/lingrid/pkg/lingrid"
)

// Serial run scanning every cell for every record
func intersectLinear(path string, grid *lingrid.Grid) (*lingrid.Table, error) {
	opts := lingrid.DefaultOptions()
	opts.UseIndex = false
	opts.Parallel = false

	return lingrid.IntersectFile(path, grid, opts)
}

// R-tree candidate cells and a worker pool
func intersectParallel(path string, grid *lingrid.Grid) (*lingrid.Table, error) {
	opts := lingrid.DefaultOptions()
	opts.UseIndex = true
	opts.Parallel = true
	opts.Workers = runtime.NumCPU()
	opts.Logger = log.New(os.Stderr, "lingrid: ", log.LstdFlags)
	opts.Progress = func(records int) {
		if records%10000 == 0 {
			fmt.Fprintf(os.Stderr, "\rRecords: %d", records)
		}
	}

	return lingrid.IntersectFile(path, grid, opts)
}

func main() {
	cells, err := lingrid.ReadCellsFile("cells.csv")
	if err != nil {
		log.Fatal(err)
	}
	grid, err := lingrid.NewGrid(cells, 100, 100)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Linear scan ===")
	start := time.Now()
	linear, err := intersectLinear("roads.shp", grid)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Rows: %d in %v\n", linear.Len(), time.Since(start))

	fmt.Println("\n=== Indexed, parallel ===")
	start = time.Now()
	fast, err := intersectParallel("roads.shp", grid)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nRows: %d in %v\n", fast.Len(), time.Since(start))
}
