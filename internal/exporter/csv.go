// Package exporter writes the resolved dataset to CSV for inspection and
// downstream spreadsheet use.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ficaetl/internal/dataprocessing"
)

// CSVWriter exports resolved rows as CSV files.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file with the right
	// encoding. The source data carries Spanish diacritics.
	BOMPrefix bool
}

// WriteResolved writes the resolved dataset to path: the assigned student id
// first, then the raw columns, then the derived tipo_ingreso label.
func (w *CSVWriter) WriteResolved(path string, rows []dataprocessing.StudentRow, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(dataprocessing.ResolvedHeaders); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(dataprocessing.ResolvedHeaders))
	for _, row := range rows {
		record[0] = ""
		if row.StudentID != 0 {
			record[0] = fmt.Sprintf("%d", row.StudentID)
		}
		for i := 0; i < dataprocessing.RawColumnCount; i++ {
			record[i+1] = row.Cells.Cell(i).String()
		}
		record[len(record)-1] = row.TipoIngreso

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}

	w.logger.Info("resolved dataset exported",
		"path", path,
		"rows", len(rows),
	)
	return nil
}
