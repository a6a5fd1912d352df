// Package accum collects, per grid cell, the clipped length each record
// contributes.
//
// Contributions are summed per (cell, record) while a record is evaluated and
// become rows only on Commit, and only when the sum is positive. Rows within a
// cell keep the order in which they were committed.
package accum

import (
	"fmt"
)

// Row is one (cell, record, length) result
type Row struct {
	CellID   int
	RecordID int
	Length   float64
}

type entry struct {
	record int
	length float64
}

type key struct {
	cell   int
	record int
}

// Accumulator owns the result rows for a whole run. It is not safe for
// concurrent use; parallel drivers funnel commits through one goroutine.
type Accumulator struct {
	cellIDs []int
	cells   [][]entry

	pending map[key]int // index into order
	order   []pendingSum
	rows    int
}

type pendingSum struct {
	key
	length float64
}

// New returns an Accumulator for cells identified by cellIDs. The position in
// cellIDs is the cell index used by Accumulate.
func New(cellIDs []int) *Accumulator {
	ids := make([]int, len(cellIDs))
	copy(ids, cellIDs)
	return &Accumulator{
		cellIDs: ids,
		cells:   make([][]entry, len(cellIDs)),
		pending: make(map[key]int),
	}
}

// NumCells returns the number of cells
func (a *Accumulator) NumCells() int {
	return len(a.cellIDs)
}

// Accumulate adds length to the pending sum for (cell, record)
func (a *Accumulator) Accumulate(cell, record int, length float64) error {
	if cell < 0 || cell >= len(a.cells) {
		return fmt.Errorf("cell index %d out of range [0, %d)", cell, len(a.cells))
	}
	k := key{cell: cell, record: record}
	if i, ok := a.pending[k]; ok {
		a.order[i].length += length
		return nil
	}
	a.pending[k] = len(a.order)
	a.order = append(a.order, pendingSum{key: k, length: length})
	return nil
}

// Commit turns every pending sum > 0 into a row and clears the pending set.
// It returns the number of rows added.
func (a *Accumulator) Commit() int {
	added := 0
	for _, p := range a.order {
		if p.length > 0 {
			a.cells[p.cell] = append(a.cells[p.cell], entry{record: p.record, length: p.length})
			added++
		}
	}
	a.rows += added
	a.Discard()
	return added
}

// Discard drops pending sums without committing them
func (a *Accumulator) Discard() {
	clear(a.pending)
	a.order = a.order[:0]
}

// Len returns the number of committed rows
func (a *Accumulator) Len() int {
	return a.rows
}

// CellLen returns the number of committed rows for one cell
func (a *Accumulator) CellLen(cell int) int {
	return len(a.cells[cell])
}

// Rows flattens the committed rows, cell-major in cell order, then commit order.
func (a *Accumulator) Rows() []Row {
	rows := make([]Row, 0, a.rows)
	for i, entries := range a.cells {
		for _, e := range entries {
			rows = append(rows, Row{CellID: a.cellIDs[i], RecordID: e.record, Length: e.length})
		}
	}
	return rows
}

// Columns flattens the committed rows into three parallel slices in Rows order
func (a *Accumulator) Columns() (cellIDs, recordIDs []int, lengths []float64) {
	cellIDs = make([]int, 0, a.rows)
	recordIDs = make([]int, 0, a.rows)
	lengths = make([]float64, 0, a.rows)
	for i, entries := range a.cells {
		for _, e := range entries {
			cellIDs = append(cellIDs, a.cellIDs[i])
			recordIDs = append(recordIDs, e.record)
			lengths = append(lengths, e.length)
		}
	}
	return cellIDs, recordIDs, lengths
}
