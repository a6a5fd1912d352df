package lingrid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beetlebugorg/lingrid/internal/accum"
)

// Row is one nonzero (cell, record) intersection.
type Row struct {
	CellID       int
	RecordID     int
	RecordLength float64
}

// Table is the flattened result of a run: three parallel columns, one entry per
// nonzero intersection, ordered by cell (grid order) then by record discovery
// order within a cell.
type Table struct {
	CellIDs   []int
	RecordIDs []int
	Lengths   []float64

	// Records is the number of records read from the stream
	Records int
}

func newTable(acc *accum.Accumulator, records int) *Table {
	cells, recs, lengths := acc.Columns()
	return &Table{
		CellIDs:   cells,
		RecordIDs: recs,
		Lengths:   lengths,
		Records:   records,
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.CellIDs)
}

// Rows returns the table as a slice of rows
func (t *Table) Rows() []Row {
	rows := make([]Row, t.Len())
	for i := range rows {
		rows[i] = Row{CellID: t.CellIDs[i], RecordID: t.RecordIDs[i], RecordLength: t.Lengths[i]}
	}
	return rows
}

// TotalByCell sums lengths per cell ID.
func (t *Table) TotalByCell() map[int]float64 {
	totals := make(map[int]float64)
	for i, id := range t.CellIDs {
		totals[id] += t.Lengths[i]
	}
	return totals
}

// Append adds one row
func (t *Table) Append(r Row) {
	t.CellIDs = append(t.CellIDs, r.CellID)
	t.RecordIDs = append(t.RecordIDs, r.RecordID)
	t.Lengths = append(t.Lengths, r.RecordLength)
}

var tableHeader = []string{"cellID", "recordID", "recordLength"}

// WriteCSV writes the table with a cellID,recordID,recordLength header.
// Lengths use the shortest representation that reads back to the same value.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	record := make([]string, 3)
	for i := range t.CellIDs {
		record[0] = strconv.Itoa(t.CellIDs[i])
		record[1] = strconv.Itoa(t.RecordIDs[i])
		record[2] = strconv.FormatFloat(t.Lengths[i], 'g', -1, 64)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path. The file is removed again if writing
// fails.
func (t *Table) WriteCSVFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return t.WriteCSV(f)
}

// ReadTableCSV reads a table written by WriteCSV.
func ReadTableCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	t := &Table{}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(rec[0], tableHeader[0]) {
			continue
		}

		cell, err1 := strconv.Atoi(rec[0])
		record, err2 := strconv.Atoi(rec[1])
		length, err3 := strconv.ParseFloat(rec[2], 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Append(Row{CellID: cell, RecordID: record, RecordLength: length})
	}
}

// ReadCellsCSV reads grid cells from cell_id,x,y rows. A leading header row is
// skipped.
func ReadCellsCSV(r io.Reader) ([]Cell, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var cells []Cell
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return cells, nil
		}
		if err != nil {
			return nil, err
		}
		line++

		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: cell id: %w", line, err)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		cells = append(cells, Cell{ID: id, X: x, Y: y})
	}
}

// ReadCellsFile reads grid cells from a CSV file.
func ReadCellsFile(path string) ([]Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cells: %w", err)
	}
	defer f.Close()

	cells, err := ReadCellsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cells, nil
}
