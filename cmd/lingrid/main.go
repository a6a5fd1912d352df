// Command lingrid computes the length of each polyline record of a shapefile
// that falls inside each cell of a sampling grid.
//
// Usage:
//
//	lingrid -shp roads.shp -cells cells.csv -dx 100 -dy 100 [-out result.csv]
//
// The cells file holds cell_id,x,y rows where (x, y) is the north-east corner of
// the cell. Results are written as cellID,recordID,recordLength CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/beetlebugorg/lingrid/internal/config"
	"github.com/beetlebugorg/lingrid/pkg/lingrid"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.New(os.Stderr, "lingrid: ", 0).Println(err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("lingrid", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		shp        = fs.String("shp", "", "polyline shapefile (.shp)")
		cells      = fs.String("cells", "", "grid cells CSV (cell_id,x,y)")
		dx         = fs.Float64("dx", 0, "cell width")
		dy         = fs.Float64("dy", 0, "cell height")
		configPath = fs.String("config", "", "JSON run configuration; flags override it")
		out        = fs.String("out", "", "result CSV (default stdout)")
		dbPath     = fs.String("db", "", "SQLite database to store the run in")
		plotPath   = fs.String("plot", "", "render the grid and lines to this image")
		parallel   = fs.Bool("parallel", false, "evaluate records on a worker pool")
		workers    = fs.Int("workers", 0, "worker count (default NumCPU)")
		noIndex    = fs.Bool("no-index", false, "scan every cell instead of using the R-tree")
		validate   = fs.Bool("validate", false, "reject records with malformed parts or coordinates")
		verbose    = fs.Bool("v", false, "log progress to stderr")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := &config.RunConfig{}
	if *configPath != "" {
		loaded, err := config.LoadRunConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Only flags given on the command line override the file
	overrides := &config.RunConfig{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shp":
			overrides.Source = shp
		case "cells":
			overrides.Cells = cells
		case "dx":
			overrides.DX = dx
		case "dy":
			overrides.DY = dy
		case "out":
			overrides.Out = out
		case "db":
			overrides.DB = dbPath
		case "plot":
			overrides.Plot = plotPath
		case "parallel":
			overrides.Parallel = parallel
		case "workers":
			overrides.Workers = workers
		case "no-index":
			useIndex := !*noIndex
			overrides.UseIndex = &useIndex
		case "validate":
			overrides.ValidateGeometry = validate
		}
	})
	cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.GetSource() == "" {
		return fmt.Errorf("missing -shp")
	}
	if cfg.GetCells() == "" {
		return fmt.Errorf("missing -cells")
	}

	logger := log.New(stderr, "lingrid: ", log.LstdFlags)
	opts := cfg.Options()
	if *verbose {
		opts.Logger = logger
	}

	cellList, err := lingrid.ReadCellsFile(cfg.GetCells())
	if err != nil {
		return err
	}
	grid, err := lingrid.NewGrid(cellList, cfg.GetDX(), cfg.GetDY())
	if err != nil {
		return err
	}

	table, err := lingrid.IntersectFile(cfg.GetSource(), grid, opts)
	if err != nil {
		return err
	}

	// Side outputs first, the result CSV last. A failure undoes what was written.
	var undo, closers []func()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
		}
		for _, c := range closers {
			c()
		}
	}()

	if p := cfg.GetPlot(); p != "" {
		err = lingrid.SavePlot(p, grid, table, lingrid.PlotOptions{
			Title:  cfg.GetSource(),
			Source: cfg.GetSource(),
			Parse:  opts.Parse,
		})
		if err != nil {
			return err
		}
		undo = append(undo, func() { os.Remove(p) })
	}

	if db := cfg.GetDB(); db != "" {
		store, openErr := lingrid.OpenStore(db)
		if openErr != nil {
			return fmt.Errorf("open store: %w", openErr)
		}
		closers = append(closers, func() { store.Close() })

		info, saveErr := store.SaveRun(cfg.GetSource(), grid, table)
		if saveErr != nil {
			return fmt.Errorf("save run: %w", saveErr)
		}
		undo = append(undo, func() { store.DeleteRun(info.RunID) })
		if *verbose {
			logger.Printf("stored run %s (%d rows) in %s", info.RunID, info.Rows, db)
		}
	}

	if dest := cfg.GetOut(); dest == "-" {
		err = table.WriteCSV(stdout)
	} else {
		err = table.WriteCSVFile(dest)
	}
	if err != nil {
		return err
	}

	if *verbose {
		totals := table.TotalByCell()
		logger.Printf("%d rows, %d of %d cells intersected, %d records", table.Len(), len(totals), grid.Len(), table.Records)
	}
	return nil
}
