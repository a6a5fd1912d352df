package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/lingrid/internal/testutil"
	"github.com/beetlebugorg/lingrid/pkg/lingrid"
)

type fixture struct {
	dir   string
	shp   string
	cells string
}

func newFixture(t *testing.T, stream []byte) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:   dir,
		shp:   filepath.Join(dir, "lines.shp"),
		cells: filepath.Join(dir, "cells.csv"),
	}
	require.NoError(t, os.WriteFile(f.shp, stream, 0o644))
	require.NoError(t, os.WriteFile(f.cells, []byte("cell_id,x,y\n1,1,1\n2,2,1\n3,3,1\n"), 0o644))
	return f
}

func lineStream() []byte {
	return testutil.Stream(testutil.PolyLine,
		testutil.Line(4, [2]float64{0.5, 0.5}, [2]float64{2.5, 0.5}),
		testutil.Line(8, [2]float64{2.25, 0.1}, [2]float64{2.25, 0.6}),
	)
}

const wantCSV = "cellID,recordID,recordLength\n" +
	"1,4,0.5\n" +
	"2,4,1\n" +
	"3,4,0.5\n" +
	"3,8,0.5\n"

func TestRunStdout(t *testing.T) {
	f := newFixture(t, lineStream())

	var stdout, stderr bytes.Buffer
	err := run([]string{"-shp", f.shp, "-cells", f.cells, "-dx", "1", "-dy", "1"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Equal(t, wantCSV, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunParallelNoIndexToFile(t *testing.T) {
	f := newFixture(t, lineStream())
	out := filepath.Join(f.dir, "result.csv")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-shp", f.shp, "-cells", f.cells, "-dx", "1", "-dy", "1",
		"-out", out, "-parallel", "-workers", "2", "-no-index", "-validate", "-v",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(data))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "4 rows, 3 of 3 cells intersected, 2 records")
}

func TestRunConfigFileWithOverrides(t *testing.T) {
	f := newFixture(t, lineStream())
	out := filepath.Join(f.dir, "from-config.csv")
	cfgPath := filepath.Join(f.dir, "run.json")
	cfg := `{"source": "` + filepath.ToSlash(f.shp) + `", "cells": "` + filepath.ToSlash(f.cells) +
		`", "dx": 5, "dy": 1, "out": "` + filepath.ToSlash(out) + `"}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	// -dx on the command line wins over the file
	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", cfgPath, "-dx", "1"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(data))
}

func TestRunStoreAndPlot(t *testing.T) {
	f := newFixture(t, lineStream())
	db := filepath.Join(f.dir, "runs.db")
	img := filepath.Join(f.dir, "grid.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-shp", f.shp, "-cells", f.cells, "-dx", "1", "-dy", "1",
		"-db", db, "-plot", img,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	store, err := lingrid.OpenStore(db)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].Rows)

	info, err := os.Stat(img)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunErrors(t *testing.T) {
	f := newFixture(t, lineStream())
	truncated := newFixture(t, lineStream()[:150])

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing shp", args: []string{"-cells", f.cells, "-dx", "1", "-dy", "1"}},
		{name: "missing cells", args: []string{"-shp", f.shp, "-dx", "1", "-dy", "1"}},
		{name: "missing cell size", args: []string{"-shp", f.shp, "-cells", f.cells}},
		{name: "negative dx", args: []string{"-shp", f.shp, "-cells", f.cells, "-dx", "-1", "-dy", "1"}},
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "missing source file", args: []string{"-shp", filepath.Join(f.dir, "nope.shp"), "-cells", f.cells, "-dx", "1", "-dy", "1"}},
		{name: "bad config", args: []string{"-config", filepath.Join(f.dir, "nope.json")}},
		{name: "truncated stream", args: []string{"-shp", truncated.shp, "-cells", truncated.cells, "-dx", "1", "-dy", "1",
			"-out", filepath.Join(truncated.dir, "out.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			assert.Error(t, err)
			assert.Empty(t, stdout.String(), "nothing is written on failure")
		})
	}

	_, err := os.Stat(filepath.Join(truncated.dir, "out.csv"))
	assert.True(t, os.IsNotExist(err), "no output file for a failed run")
}

func TestRunLaterFailureLeavesNoOutputs(t *testing.T) {
	t.Run("plot fails before the csv", func(t *testing.T) {
		f := newFixture(t, lineStream())
		out := filepath.Join(f.dir, "result.csv")

		var stdout, stderr bytes.Buffer
		err := run([]string{
			"-shp", f.shp, "-cells", f.cells, "-dx", "1", "-dy", "1",
			"-out", out, "-plot", filepath.Join(f.dir, "missing", "grid.png"),
		}, &stdout, &stderr)
		require.Error(t, err)

		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr), "no result file after a failed plot")
	})

	t.Run("csv fails after plot and store", func(t *testing.T) {
		f := newFixture(t, lineStream())
		db := filepath.Join(f.dir, "runs.db")
		img := filepath.Join(f.dir, "grid.png")

		var stdout, stderr bytes.Buffer
		err := run([]string{
			"-shp", f.shp, "-cells", f.cells, "-dx", "1", "-dy", "1",
			"-out", filepath.Join(f.dir, "missing", "result.csv"), "-db", db, "-plot", img,
		}, &stdout, &stderr)
		require.Error(t, err)

		_, statErr := os.Stat(img)
		assert.True(t, os.IsNotExist(statErr), "plot removed after a failed csv")

		store, err := lingrid.OpenStore(db)
		require.NoError(t, err)
		defer store.Close()
		runs, err := store.Runs()
		require.NoError(t, err)
		assert.Empty(t, runs, "stored run removed after a failed csv")
	})
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-shp")
}
