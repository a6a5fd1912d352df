package lingrid

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := &Table{Records: 4}
	t.Append(Row{CellID: 1, RecordID: 10, RecordLength: 0.1})
	t.Append(Row{CellID: 1, RecordID: 12, RecordLength: 2.5})
	t.Append(Row{CellID: 4, RecordID: 10, RecordLength: 1.0 / 3})
	return t
}

func TestTableRowsAndTotals(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, Row{CellID: 1, RecordID: 12, RecordLength: 2.5}, tbl.Rows()[1])

	want := map[int]float64{1: 2.6, 4: 1.0 / 3}
	if diff := cmp.Diff(want, tbl.TotalByCell(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("TotalByCell mismatch (-want +got):\n%s", diff)
	}
}

func TestTableWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sampleTable().WriteCSV(&buf))

	want := "cellID,recordID,recordLength\n" +
		"1,10,0.1\n" +
		"1,12,2.5\n" +
		"4,10,0.3333333333333333\n"
	assert.Equal(t, want, buf.String())

	back, err := ReadTableCSV(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleTable().Rows(), back.Rows()); diff != "" {
		t.Errorf("CSV read back mismatch (-want +got):\n%s", diff)
	}
}

func TestTableWriteCSVFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, sampleTable().WriteCSVFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "cellID,recordID,recordLength\n"))

	err = sampleTable().WriteCSVFile(filepath.Join(dir, "missing", "out.csv"))
	assert.Error(t, err)
}

func TestReadTableCSVErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadTableCSV(strings.NewReader("cellID,recordID,recordLength\n1,x,2\n"))
	assert.Error(t, err)

	_, err = ReadTableCSV(strings.NewReader("1,2\n"))
	assert.Error(t, err)
}

func TestReadCellsCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []Cell
		wantErr bool
	}{
		{
			name:  "with header",
			input: "cell_id,x,y\n1,100,200\n2, 150.5 ,-3e2\n",
			want:  []Cell{{ID: 1, X: 100, Y: 200}, {ID: 2, X: 150.5, Y: -300}},
		},
		{
			name:  "without header and comments",
			input: "# grid\n7,1,2\n",
			want:  []Cell{{ID: 7, X: 1, Y: 2}},
		},
		{name: "bad id after header", input: "cell_id,x,y\nabc,1,2\n", wantErr: true},
		{name: "bad x", input: "1,east,2\n", wantErr: true},
		{name: "bad y", input: "1,2,north\n", wantErr: true},
		{name: "wrong field count", input: "1,2\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ReadCellsCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCellsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cells.csv")
	require.NoError(t, os.WriteFile(path, []byte("cell_id,x,y\n5,1,1\n"), 0o644))

	cells, err := ReadCellsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Cell{{ID: 5, X: 1, Y: 1}}, cells)

	_, err = ReadCellsFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
