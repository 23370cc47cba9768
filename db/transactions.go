package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/thatsimonsguy/hvac-idf/internal/energyplus"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
)

const (
	DirectionReverse = "reverse"
	DirectionForward = "forward"
)

// Run summarizes one translation of an input file.
type Run struct {
	ID            int64         `json:"id"`
	StartedAt     time.Time     `json:"started_at"`
	InputFile     string        `json:"input_file"`
	OutputFile    string        `json:"output_file"`
	InputRecords  int           `json:"input_records"`
	ModelObjects  int           `json:"model_objects"`
	OutputRecords int           `json:"output_records"`
	Duration      time.Duration `json:"duration"`
}

type Warning struct {
	RunID     int64  `json:"run_id"`
	Direction string `json:"direction"`
	Object    string `json:"object"`
	Message   string `json:"message"`
}

// Removal is a snapshot of the records deleted by one remove operation.
type Removal struct {
	ID        int64         `json:"id"`
	RemovedAt time.Time     `json:"removed_at"`
	Root      string        `json:"root"`
	Records   []*idf.Object `json:"records"`
}

// StartTransaction starts a new database transaction.
func StartTransaction(db *sql.DB) (*sql.Tx, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return tx, nil
}

// CommitTransaction commits the given transaction.
func CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the given transaction.
func RollbackTransaction(tx *sql.Tx) {
	tx.Rollback()
}

// RecordRun stores a run together with the warnings of both translation
// passes and returns the new run id.
func RecordRun(db *sql.DB, run Run, reverse, forward []energyplus.Warning) (int64, error) {
	tx, err := StartTransaction(db)
	if err != nil {
		return 0, err
	}
	id, err := InsertRunWithTx(tx, run)
	if err != nil {
		RollbackTransaction(tx)
		return 0, err
	}
	if err := InsertWarningsWithTx(tx, id, DirectionReverse, reverse); err != nil {
		RollbackTransaction(tx)
		return 0, err
	}
	if err := InsertWarningsWithTx(tx, id, DirectionForward, forward); err != nil {
		RollbackTransaction(tx)
		return 0, err
	}
	return id, CommitTransaction(tx)
}

func InsertRunWithTx(tx *sql.Tx, run Run) (int64, error) {
	res, err := tx.Exec(`INSERT INTO runs (started_at, input_file, output_file, input_records, model_objects, output_records, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339), run.InputFile, run.OutputFile, run.InputRecords, run.ModelObjects, run.OutputRecords, run.Duration.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

func InsertWarningsWithTx(tx *sql.Tx, runID int64, direction string, warnings []energyplus.Warning) error {
	for _, w := range warnings {
		_, err := tx.Exec(`INSERT INTO warnings (run_id, direction, object, message) VALUES (?, ?, ?, ?)`,
			runID, direction, w.Object, w.Message)
		if err != nil {
			return fmt.Errorf("insert %s warning for %s: %w", direction, w.Object, err)
		}
	}
	return nil
}

// RecordRemoval stores the records removed with root, msgpack encoded.
func RecordRemoval(db *sql.DB, root string, records []*idf.Object) error {
	blob, err := msgpack.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode removed records: %w", err)
	}
	tx, err := StartTransaction(db)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO removals (removed_at, root, record_count, records) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), root, len(records), blob)
	if err != nil {
		RollbackTransaction(tx)
		return fmt.Errorf("insert removal of %s: %w", root, err)
	}
	return CommitTransaction(tx)
}

// DeleteRun removes a run and, through the foreign key, its warnings.
func DeleteRun(db *sql.DB, id int64) error {
	tx, err := StartTransaction(db)
	if err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		RollbackTransaction(tx)
		return fmt.Errorf("delete run %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		RollbackTransaction(tx)
		return fmt.Errorf("delete run %d: %w", id, sql.ErrNoRows)
	}
	return CommitTransaction(tx)
}
