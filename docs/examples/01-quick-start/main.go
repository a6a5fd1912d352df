package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/lingrid/pkg/lingrid"
)

func main() {
	// Load grid cells (cell_id,x,y)
	cells, err := lingrid.ReadCellsFile("cells.csv")
	if err != nil {
		log.Fatal(err)
	}

	// 100 x 100 cells anchored at their north-east corner
	grid, err := lingrid.NewGrid(cells, 100, 100)
	if err != nil {
		log.Fatal(err)
	}

	// Intersect every road with every cell
	table, err := lingrid.IntersectFile("roads.shp", grid, lingrid.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Records: %d\n", table.Records)
	fmt.Printf("Rows: %d\n", table.Len())

	// Print total road length per cell
	totals := table.TotalByCell()
	for _, c := range grid.Cells {
		if length, ok := totals[c.ID]; ok {
			fmt.Printf("Cell %d: %.2f\n", c.ID, length)
		}
	}
}
