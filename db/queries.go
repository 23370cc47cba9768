package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

func scanRun(scan func(dest ...any) error) (Run, error) {
	var r Run
	var startedAt string
	var durationMS int64
	err := scan(&r.ID, &startedAt, &r.InputFile, &r.OutputFile, &r.InputRecords, &r.ModelObjects, &r.OutputRecords, &durationMS)
	if err != nil {
		return r, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, nil
}

// GetRuns returns the most recent runs first. A limit of zero or less returns
// every run.
func GetRuns(db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT id, started_at, input_file, output_file, input_records, model_objects, output_records, duration_ms FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunByID retrieves a single run.
func GetRunByID(db *sql.DB, id int64) (*Run, error) {
	row := db.QueryRow(`SELECT id, started_at, input_file, output_file, input_records, model_objects, output_records, duration_ms FROM runs WHERE id = ?`, id)
	r, err := scanRun(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return &r, nil
}

// GetWarnings lists the warnings of a run, reverse pass first, each pass in
// the order the warnings were raised.
func GetWarnings(db *sql.DB, runID int64) ([]Warning, error) {
	rows, err := db.Query(`SELECT run_id, direction, object, message FROM warnings WHERE run_id = ? ORDER BY direction = 'forward', id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query warnings: %w", err)
	}
	defer rows.Close()

	var out []Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.RunID, &w.Direction, &w.Object, &w.Message); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetRemovals returns the most recent removals first, records decoded.
func GetRemovals(db *sql.DB, limit int) ([]Removal, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT id, removed_at, root, records FROM removals ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query removals: %w", err)
	}
	defer rows.Close()

	var out []Removal
	for rows.Next() {
		var r Removal
		var removedAt string
		var blob []byte
		if err := rows.Scan(&r.ID, &removedAt, &r.Root, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan removal: %w", err)
		}
		r.RemovedAt, _ = time.Parse(time.RFC3339, removedAt)
		if err := msgpack.Unmarshal(blob, &r.Records); err != nil {
			return nil, fmt.Errorf("failed to decode removal %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
