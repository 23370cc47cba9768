package db

import (
	"fmt"
	"io"
	"time"
)

func ListRunsCLI(w io.Writer, dbPath string, limit int) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := GetRuns(db, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %s -> %s  records %d/%d  objects %d  %s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.InputFile, r.OutputFile,
			r.InputRecords, r.OutputRecords, r.ModelObjects, r.Duration)
	}
	return nil
}

func ShowRunCLI(w io.Writer, dbPath string, id int64) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := GetRunByID(db, id)
	if err != nil {
		return err
	}
	warnings, err := GetWarnings(db, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Run %d at %s\n", run.ID, run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  input:  %s (%d records)\n", run.InputFile, run.InputRecords)
	fmt.Fprintf(w, "  output: %s (%d records)\n", run.OutputFile, run.OutputRecords)
	fmt.Fprintf(w, "  model:  %d objects\n", run.ModelObjects)
	fmt.Fprintf(w, "  took:   %s\n", run.Duration)
	fmt.Fprintf(w, "  warnings: %d\n", len(warnings))
	for _, wn := range warnings {
		fmt.Fprintf(w, "    [%s] %s: %s\n", wn.Direction, wn.Object, wn.Message)
	}
	return nil
}

func ListRemovalsCLI(w io.Writer, dbPath string, limit int) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	removals, err := GetRemovals(db, limit)
	if err != nil {
		return err
	}
	for _, r := range removals {
		fmt.Fprintf(w, "%4d  %s  %s  (%d records)\n", r.ID, r.RemovedAt.Format(time.RFC3339), r.Root, len(r.Records))
		for _, rec := range r.Records {
			fmt.Fprintf(w, "        %s\n", rec.Type)
		}
	}
	return nil
}

func DeleteRunCLI(dbPath string, id int64) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return DeleteRun(db, id)
}
