package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/thatsimonsguy/hvac-idf/db"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var dbPath, command string
	var runID int64
	var limit int
	flag.StringVar(&dbPath, "db", "data/idf-translate.db", "Path to the SQLite report database")
	flag.StringVar(&command, "cmd", "", "Command to run: list-runs, show-run, delete-run, list-removals")
	flag.Int64Var(&runID, "run", 0, "Run ID for run commands")
	flag.IntVar(&limit, "limit", 20, "Maximum rows to list (0 for all)")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of idf-debug:")
		fmt.Println("  -db string\tPath to the SQLite report database (default 'data/idf-translate.db')")
		fmt.Println("  -cmd string\tCommand to run: list-runs, show-run, delete-run, list-removals")
		fmt.Println("  -run int\tRun ID for run commands")
		fmt.Println("  -limit int\tMaximum rows to list (0 for all)")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	var err error
	switch command {
	case "list-runs":
		err = db.ListRunsCLI(os.Stdout, dbPath, limit)
	case "show-run":
		if runID == 0 {
			fmt.Println("Error: run ID is required")
			os.Exit(1)
		}
		err = db.ShowRunCLI(os.Stdout, dbPath, runID)
	case "delete-run":
		if runID == 0 {
			fmt.Println("Error: run ID is required")
			os.Exit(1)
		}
		err = db.DeleteRunCLI(dbPath, runID)
	case "list-removals":
		err = db.ListRemovalsCLI(os.Stdout, dbPath, limit)
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
}
