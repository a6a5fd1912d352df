package accum

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulateSumsWithinRecord(t *testing.T) {
	t.Parallel()

	acc := New([]int{100, 200})
	require.NoError(t, acc.Accumulate(0, 7, 1.5))
	require.NoError(t, acc.Accumulate(0, 7, 2.5))
	require.NoError(t, acc.Accumulate(1, 7, 0.25))

	assert.Equal(t, 0, acc.Len(), "nothing is visible before Commit")
	assert.Equal(t, 2, acc.Commit())

	want := []Row{
		{CellID: 100, RecordID: 7, Length: 4},
		{CellID: 200, RecordID: 7, Length: 0.25},
	}
	if diff := cmp.Diff(want, acc.Rows()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitSkipsZeroSums(t *testing.T) {
	t.Parallel()

	acc := New([]int{1, 2, 3})
	require.NoError(t, acc.Accumulate(0, 5, 0))
	require.NoError(t, acc.Accumulate(1, 5, 0))
	require.NoError(t, acc.Accumulate(2, 5, 3))

	assert.Equal(t, 1, acc.Commit())
	assert.Equal(t, 0, acc.CellLen(0))
	assert.Equal(t, 0, acc.CellLen(1))
	assert.Equal(t, 1, acc.CellLen(2))
}

func TestRowsCellMajorDiscoveryOrder(t *testing.T) {
	t.Parallel()

	acc := New([]int{10, 20})
	for _, rec := range []struct {
		id     int
		cell   int
		length float64
	}{
		{id: 3, cell: 1, length: 1},
		{id: 1, cell: 0, length: 2},
		{id: 9, cell: 1, length: 3},
		{id: 4, cell: 0, length: 4},
	} {
		require.NoError(t, acc.Accumulate(rec.cell, rec.id, rec.length))
		acc.Commit()
	}

	cells, records, lengths := acc.Columns()
	assert.Equal(t, []int{10, 10, 20, 20}, cells)
	assert.Equal(t, []int{1, 4, 3, 9}, records)
	assert.Equal(t, []float64{2, 4, 1, 3}, lengths)
	assert.Equal(t, 4, acc.Len())
}

func TestDiscardAndCommitClearsPending(t *testing.T) {
	t.Parallel()

	acc := New([]int{1})
	require.NoError(t, acc.Accumulate(0, 1, 5))
	acc.Discard()
	assert.Equal(t, 0, acc.Commit())

	require.NoError(t, acc.Accumulate(0, 2, 1))
	acc.Commit()
	// a second commit must not re-add the same pending sum
	assert.Equal(t, 0, acc.Commit())
	assert.Equal(t, 1, acc.Len())
}

func TestAccumulateOutOfRange(t *testing.T) {
	t.Parallel()

	acc := New([]int{1, 2})
	assert.Error(t, acc.Accumulate(2, 1, 1))
	assert.Error(t, acc.Accumulate(-1, 1, 1))
	assert.Equal(t, 2, acc.NumCells())
}

func TestGrowthKeepsEveryRow(t *testing.T) {
	t.Parallel()

	acc := New([]int{42})
	const n = 5000
	for i := 1; i <= n; i++ {
		require.NoError(t, acc.Accumulate(0, i, float64(i)))
		acc.Commit()
	}
	rows := acc.Rows()
	require.Len(t, rows, n)
	for i, r := range rows {
		assert.Equal(t, i+1, r.RecordID)
	}
}
