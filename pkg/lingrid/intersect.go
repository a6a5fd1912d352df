package lingrid

import (
	"fmt"
	"io"
	"time"

	"github.com/beetlebugorg/lingrid/internal/accum"
	"github.com/beetlebugorg/lingrid/internal/clip"
	"github.com/beetlebugorg/lingrid/internal/parser"
)

// ShapeType is the record variant declared by a stream header.
type ShapeType = parser.ShapeType

// Polyline shape types a run accepts.
const (
	ShapeTypePolyLine  = parser.ShapeTypePolyLine
	ShapeTypePolyLineZ = parser.ShapeTypePolyLineZ
	ShapeTypePolyLineM = parser.ShapeTypePolyLineM
)

// State is a step of the per-record loop.
type State int

const (
	StateAwaitingRecord State = iota
	StateParsingRecord
	StateEvaluatingCells
	StateCommitting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateAwaitingRecord:  "awaiting-record",
	StateParsingRecord:   "parsing-record",
	StateEvaluatingCells: "evaluating-cells",
	StateCommitting:      "committing",
	StateDone:            "done",
	StateFailed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the loop stops in this state
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Intersector computes, for each record of a polyline stream, the length that
// falls inside each grid cell.
//
// An Intersector holds no per-run state; it may run several streams, including
// concurrently.
//
// Example:
//
//	grid, err := lingrid.NewGrid(cells, 100, 100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	it, err := lingrid.NewIntersector(grid, lingrid.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := it.IntersectFile("roads.shp")
type Intersector struct {
	grid   *Grid
	finder cellFinder
	opts   Options
}

// NewIntersector prepares a grid for intersection runs.
func NewIntersector(grid *Grid, opts Options) (*Intersector, error) {
	if grid == nil {
		return nil, fmt.Errorf("nil grid")
	}
	finder, err := newCellFinder(grid, opts.UseIndex)
	if err != nil {
		return nil, fmt.Errorf("build cell index: %w", err)
	}
	if idx, ok := finder.(*cellIndex); ok {
		opts.logf("indexed %d cells", idx.Count())
	}
	return &Intersector{grid: grid, finder: finder, opts: opts}, nil
}

// Grid returns the grid the Intersector evaluates against
func (it *Intersector) Grid() *Grid {
	return it.grid
}

// IntersectFile opens a .shp file and runs every record against the grid.
func (it *Intersector) IntersectFile(path string) (*Table, error) {
	rd, err := parser.Open(path, it.opts.Parse)
	if err != nil {
		it.opts.logf("%s: %v", path, err)
		return nil, err
	}
	defer rd.Close()

	it.opts.logf("%s: %s stream, %d bytes", path, rd.ShapeType(), rd.Header.FileLength)
	return it.run(rd)
}

// Intersect reads a .shp stream (main header first) from r and runs every
// record against the grid.
func (it *Intersector) Intersect(r io.Reader) (*Table, error) {
	rd, err := parser.NewReader(r, it.opts.Parse)
	if err != nil {
		return nil, err
	}
	return it.run(rd)
}

// IntersectRecords runs a headerless record stream whose records all have the
// given shape type.
func (it *Intersector) IntersectRecords(r io.Reader, shapeType ShapeType) (*Table, error) {
	rd, err := parser.NewRecordReader(r, shapeType, it.opts.Parse)
	if err != nil {
		return nil, err
	}
	return it.run(rd)
}

// IntersectFile is a convenience wrapper around NewIntersector and
// Intersector.IntersectFile.
func IntersectFile(path string, grid *Grid, opts Options) (*Table, error) {
	it, err := NewIntersector(grid, opts)
	if err != nil {
		return nil, err
	}
	return it.IntersectFile(path)
}

func (it *Intersector) run(rd *parser.Reader) (*Table, error) {
	start := time.Now()

	var (
		table *Table
		err   error
	)
	if it.opts.Parallel {
		table, err = it.runParallel(rd)
	} else {
		table, err = it.runSerial(rd)
	}
	if err != nil {
		it.opts.logf("run failed after %v: %v", time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}

	it.opts.logf("run done: %d records, %d rows in %v",
		table.Records, table.Len(), time.Since(start).Round(time.Millisecond))
	return table, nil
}

// hit is the summed clipped length of one record inside one cell
type hit struct {
	cell   int
	length float64
}

// evaluate clips every segment of line against every candidate cell and returns
// the cells with a positive total, in grid order. dst and scratch are reused
// across calls when not nil.
func (it *Intersector) evaluate(line *parser.Polyline, dst []hit, scratch []int) ([]hit, []int) {
	dst = dst[:0]

	bounds, ok := lineBounds(line)
	if !ok {
		return dst, scratch
	}
	ranges := line.PartRanges()
	scratch = it.finder.candidates(bounds, scratch)

	for _, cell := range scratch {
		box := it.grid.CellBox(cell)
		total := 0.0
		for _, r := range ranges {
			// Segments never cross from one part to the next
			for k := r.Start; k+1 < r.End; k++ {
				total += clip.Length(line.Points[k], line.Points[k+1], box)
			}
		}
		if total > 0 {
			dst = append(dst, hit{cell: cell, length: total})
		}
	}
	return dst, scratch
}

// commit records one record's hits as rows
func commit(acc *accum.Accumulator, record int, hits []hit) error {
	for _, h := range hits {
		if err := acc.Accumulate(h.cell, record, h.length); err != nil {
			acc.Discard()
			return fmt.Errorf("record %d: %w", record, err)
		}
	}
	acc.Commit()
	return nil
}

// serialRun is the state of one single-goroutine run
type serialRun struct {
	it      *Intersector
	rd      *parser.Reader
	acc     *accum.Accumulator
	state   State
	err     error
	records int

	line    *parser.Polyline
	hits    []hit
	scratch []int
}

// step performs one state transition
func (r *serialRun) step() {
	switch r.state {
	case StateAwaitingRecord:
		r.state = StateParsingRecord

	case StateParsingRecord:
		shape, err := r.rd.Next()
		if err == io.EOF {
			r.state = StateDone
			return
		}
		if err != nil {
			r.fail(err)
			return
		}
		r.line = shape.Line()
		r.state = StateEvaluatingCells

	case StateEvaluatingCells:
		r.hits, r.scratch = r.it.evaluate(r.line, r.hits, r.scratch)
		r.state = StateCommitting

	case StateCommitting:
		if err := commit(r.acc, r.line.Number, r.hits); err != nil {
			r.fail(err)
			return
		}
		r.line = nil
		r.records++
		if r.it.opts.Progress != nil {
			r.it.opts.Progress(r.records)
		}
		r.state = StateAwaitingRecord
	}
}

func (r *serialRun) fail(err error) {
	r.err = err
	r.line = nil
	r.state = StateFailed
}

func (it *Intersector) runSerial(rd *parser.Reader) (*Table, error) {
	r := &serialRun{
		it:    it,
		rd:    rd,
		acc:   accum.New(it.grid.IDs()),
		state: StateAwaitingRecord,
	}
	for !r.state.Terminal() {
		r.step()
	}
	if r.state == StateFailed {
		return nil, r.err
	}
	return newTable(r.acc, r.records), nil
}
