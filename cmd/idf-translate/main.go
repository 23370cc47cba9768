package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/hvac-idf/db"
	"github.com/thatsimonsguy/hvac-idf/internal/api"
	"github.com/thatsimonsguy/hvac-idf/internal/config"
	"github.com/thatsimonsguy/hvac-idf/internal/datadog"
	"github.com/thatsimonsguy/hvac-idf/internal/energyplus"
	"github.com/thatsimonsguy/hvac-idf/internal/env"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/logging"
	"github.com/thatsimonsguy/hvac-idf/internal/metrics"
	"github.com/thatsimonsguy/hvac-idf/system/shutdown"
)

func main() {
	cfg := config.Load()
	env.Cfg = &cfg
	logging.Init(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("input", cfg.InputFile).
		Str("output", cfg.OutputFile).
		Bool("exclude_orphans", cfg.Translator.ExcludeOrphanedComponents).
		Msg("Starting IDF translation")

	datadog.InitMetrics()
	shutdown.OnShutdown(datadog.Close)

	var reportDB *sql.DB
	if cfg.ReportDB != "" {
		var err error
		reportDB, err = db.Open(cfg.ReportDB)
		if err != nil {
			shutdown.ShutdownWithError(err, "Failed to open report database")
		}
		shutdown.OnShutdown(func() { reportDB.Close() })
	}

	started := time.Now()
	in, err := readInput(cfg.InputFile)
	if err != nil {
		shutdown.ShutdownWithError(err, "Failed to read input file")
	}

	res := energyplus.Translate(in, cfg.Translator)
	if err := writeOutput(cfg.OutputFile, res.Output); err != nil {
		shutdown.ShutdownWithError(err, "Failed to write output file")
	}

	run := db.Run{
		StartedAt:     started,
		InputFile:     cfg.InputFile,
		OutputFile:    cfg.OutputFile,
		InputRecords:  len(in.Objects),
		ModelObjects:  res.Model.Workspace().Len(),
		OutputRecords: len(res.Output.Objects),
		Duration:      time.Since(started),
	}
	reportRun(run, res)

	if reportDB != nil {
		id, err := db.RecordRun(reportDB, run, res.ReverseWarnings, res.ForwardWarnings)
		if err != nil {
			log.Error().Err(err).Msg("Failed to record run")
		} else {
			log.Info().Int64("run_id", id).Msg("Run recorded")
		}
	}

	if cfg.ServePort == 0 {
		shutdown.Shutdown()
		return
	}

	reg := metrics.DefaultRegistry()
	reg.RecordTranslation(db.DirectionReverse, res.ReverseDuration, len(res.ReverseWarnings))
	reg.RecordTranslation(db.DirectionForward, res.ForwardDuration, len(res.ForwardWarnings))
	server := api.NewServer(reportDB, res.Model, cfg.Translator, reg)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info().Str("signal", sig.String()).Msg("Received signal")
		shutdown.Shutdown()
	}()

	if err := server.Start(cfg.ServePort); err != nil {
		shutdown.ShutdownWithError(err, "Inspector API server stopped")
	}
}

func readInput(path string) (*idf.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return idf.Parse(file)
}

func writeOutput(path string, out *idf.File) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := out.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

func reportRun(run db.Run, res energyplus.Result) {
	datadog.Count("runs", 1)
	datadog.Gauge("input.records", float64(run.InputRecords))
	datadog.Gauge("model.objects", float64(run.ModelObjects))
	datadog.Gauge("output.records", float64(run.OutputRecords))
	datadog.Count("warnings", int64(len(res.ReverseWarnings)), "direction:"+db.DirectionReverse)
	datadog.Count("warnings", int64(len(res.ForwardWarnings)), "direction:"+db.DirectionForward)
	datadog.Timing("duration", res.ReverseDuration, "direction:"+db.DirectionReverse)
	datadog.Timing("duration", res.ForwardDuration, "direction:"+db.DirectionForward)

	log.Info().
		Int("input_records", run.InputRecords).
		Int("model_objects", run.ModelObjects).
		Int("output_records", run.OutputRecords).
		Int("reverse_warnings", len(res.ReverseWarnings)).
		Int("forward_warnings", len(res.ForwardWarnings)).
		Dur("duration", run.Duration).
		Msg("Translation complete")
}
