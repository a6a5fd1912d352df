package lingrid

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	cell_count    INTEGER NOT NULL,
	dx            REAL NOT NULL,
	dy            REAL NOT NULL,
	records       INTEGER NOT NULL,
	row_count     INTEGER NOT NULL,
	created_nanos INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_rows (
	run_id        TEXT NOT NULL REFERENCES runs(run_id),
	seq           INTEGER NOT NULL,
	cell_id       INTEGER NOT NULL,
	record_id     INTEGER NOT NULL,
	record_length REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Store persists run results in a SQLite database.
type Store struct {
	*sql.DB
}

// RunInfo describes one stored run
type RunInfo struct {
	RunID     string
	Source    string
	CellCount int
	DX, DY    float64
	Records   int
	Rows      int
	CreatedAt time.Time
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db}, nil
}

// SaveRun stores a table under a new run ID. Either the whole run is
// stored or nothing is.
func (s *Store) SaveRun(source string, grid *Grid, t *Table) (RunInfo, error) {
	info := RunInfo{
		RunID:     uuid.New().String(),
		Source:    source,
		CellCount: grid.Len(),
		DX:        grid.DX,
		DY:        grid.DY,
		Records:   t.Records,
		Rows:      t.Len(),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.Begin()
	if err != nil {
		return RunInfo{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (run_id, source, cell_count, dx, dy, records, row_count, created_nanos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		info.RunID, info.Source, info.CellCount, info.DX, info.DY, info.Records, info.Rows, info.CreatedAt.UnixNano())
	if err != nil {
		return RunInfo{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_rows (run_id, seq, cell_id, record_id, record_length) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return RunInfo{}, err
	}
	defer stmt.Close()

	for i := range t.CellIDs {
		if _, err := stmt.Exec(info.RunID, i, t.CellIDs[i], t.RecordIDs[i], t.Lengths[i]); err != nil {
			return RunInfo{}, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return RunInfo{}, err
	}
	return info, nil
}

// LoadRun returns the table stored under runID, rows in their original order.
func (s *Store) LoadRun(runID string) (*Table, error) {
	var records, rows int
	err := s.QueryRow(`SELECT records, row_count FROM runs WHERE run_id = ?`, runID).Scan(&records, &rows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}

	q, err := s.Query(`SELECT cell_id, record_id, record_length FROM run_rows WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	t := &Table{
		CellIDs:   make([]int, 0, rows),
		RecordIDs: make([]int, 0, rows),
		Lengths:   make([]float64, 0, rows),
		Records:   records,
	}
	for q.Next() {
		var r Row
		if err := q.Scan(&r.CellID, &r.RecordID, &r.RecordLength); err != nil {
			return nil, err
		}
		t.Append(r)
	}
	if err := q.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs() ([]RunInfo, error) {
	q, err := s.Query(`SELECT run_id, source, cell_count, dx, dy, records, row_count, created_nanos
		FROM runs ORDER BY created_nanos, run_id`)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	var runs []RunInfo
	for q.Next() {
		var info RunInfo
		var created int64
		if err := q.Scan(&info.RunID, &info.Source, &info.CellCount, &info.DX, &info.DY,
			&info.Records, &info.Rows, &created); err != nil {
			return nil, err
		}
		info.CreatedAt = time.Unix(0, created).UTC()
		runs = append(runs, info)
	}
	return runs, q.Err()
}

// DeleteRun removes a run and its rows.
func (s *Store) DeleteRun(runID string) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_rows WHERE run_id = ?`, runID); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return tx.Commit()
}
