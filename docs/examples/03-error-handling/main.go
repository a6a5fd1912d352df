package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/beetlebugorg/lingrid/pkg/lingrid"
)

func safeIntersect(path string, grid *lingrid.Grid) (*lingrid.Table, error) {
	opts := lingrid.DefaultOptions()
	opts.Parse.ValidateGeometry = true

	table, err := lingrid.IntersectFile(path, grid, opts)
	if err != nil {
		var (
			open     *lingrid.ErrStreamOpen
			trunc    *lingrid.ErrTruncatedRecord
			tooLarge *lingrid.ErrResourceExhausted
			geometry *lingrid.ErrInvalidGeometry
		)
		switch {
		case errors.As(err, &open):
			log.Printf("Cannot open %s: %v", open.Path, open.Err)
		case errors.As(err, &trunc):
			log.Printf("%s ends inside record %d (%s)", path, trunc.RecordNumber, trunc.Field)
		case errors.As(err, &tooLarge):
			log.Printf("Record %d declares %d %s", tooLarge.RecordNumber, tooLarge.Count, tooLarge.What)
		case errors.As(err, &geometry):
			log.Printf("Record %d is malformed: %s", geometry.RecordNumber, geometry.Reason)
		default:
			log.Printf("Failed to intersect %s: %v", path, err)
		}
		return nil, err
	}

	if table.Len() == 0 {
		log.Printf("Warning: no record of %s touches the grid", path)
	}

	return table, nil
}

func main() {
	grid, err := lingrid.NewGrid([]lingrid.Cell{
		{ID: 1, X: 100, Y: 100},
		{ID: 2, X: 200, Y: 100},
	}, 100, 100)
	if err != nil {
		log.Fatal(err)
	}

	table, err := safeIntersect("roads.shp", grid)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Successfully intersected: %d rows\n", table.Len())

	// A missing file fails before any record is read
	_, err = safeIntersect("NONEXISTENT.shp", grid)
	if err != nil {
		log.Printf("Expected error: %v", err)
	}
}
