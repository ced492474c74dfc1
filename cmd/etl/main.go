// Command etl runs the ingestion pipeline once from the command line.
// Without -db it performs a dry run: the spreadsheet is filtered,
// classified and resolved, but nothing is persisted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ficaetl/internal/config"
	"ficaetl/internal/dataprocessing"
	"ficaetl/internal/exporter"
	"ficaetl/internal/files"
	"ficaetl/internal/gold"
	"ficaetl/internal/infrastructure"
	"ficaetl/internal/operations"
	"ficaetl/internal/persistence"
	"ficaetl/internal/validation"
)

// dryRunStore satisfies operations.Store without touching a database.
type dryRunStore struct{}

func (dryRunStore) InsertBase(ctx context.Context, rows []dataprocessing.StudentRow) (map[string]int, error) {
	return map[string]int{"dry_run_rows": len(rows)}, nil
}

func (dryRunStore) UpsertGold(ctx context.Context, tables gold.Tables) (map[string]int, error) {
	counts := tables.Counts()
	return map[string]int{
		"dry_run_b1_student":       counts.B1Students,
		"dry_run_student_ramos":    counts.Ramos,
		"dry_run_student_aprueba8": counts.Aprueba8,
	}, nil
}

func main() {
	file := flag.String("file", "", "source spreadsheet (.csv or .xlsx); defaults to the newest file in the upload directory")
	dbURL := flag.String("db", "", "PostgreSQL URL; empty runs the pipeline without persisting")
	export := flag.String("export", "", "write the resolved dataset to this CSV path")
	flag.Parse()

	if err := run(*file, *dbURL, *export); err != nil {
		slog.Error("etl run failed", "error", err)
		os.Exit(1)
	}
}

func run(file, dbURL, export string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	if file == "" {
		candidates, err := files.FindSourceFiles(cfg.Paths.UploadDir)
		if err != nil {
			return fmt.Errorf("searching %s: %w", cfg.Paths.UploadDir, err)
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no source files in %s, pass -file", cfg.Paths.UploadDir)
		}
		file = candidates[0]
		logger.Info("using newest source file", "file", file)
	}
	if err := validation.NewFileValidator(logger).ValidateSourceFile(file); err != nil {
		return err
	}

	var store operations.Store = dryRunStore{}
	if dbURL != "" {
		dbCfg := cfg.Database
		dbCfg.URL = dbURL
		pool, err := persistence.Connect(ctx, dbCfg)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		if err := persistence.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		store = persistence.NewStore(pool, logger)
	} else {
		logger.Info("no database configured, running dry")
	}

	pipeline := operations.NewPipeline(store, nil, logger)
	result, err := pipeline.Run(ctx, file)
	if err != nil {
		return err
	}

	logger.Info("run summary",
		"run_id", result.RunID,
		"rows_read", result.Filter.TotalRows,
		"rows_kept", result.Filter.RemainingRows,
		"students", result.Resolve.NumStudents,
		"gold_b1", result.Gold.B1Students,
	)

	if export != "" {
		writer := exporter.NewCSVWriter(logger)
		if err := writer.WriteResolved(export, result.Resolved, exporter.WriteOptions{BOMPrefix: true}); err != nil {
			return fmt.Errorf("exporting resolved dataset: %w", err)
		}
	}
	return nil
}
