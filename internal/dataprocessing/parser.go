package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadGrid loads a raw cell grid from a CSV or Excel file, dispatching on the
// file extension. All cells arrive as text; numeric interpretation happens
// lazily through the Cell accessors.
func ReadGrid(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVGrid(path)
	case ".xlsx", ".xlsm":
		return readExcelGrid(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

func readCSVGrid(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are padded by Row.Cell

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}
		rows = append(rows, recordToRow(record))
	}
	return rows, nil
}

func readExcelGrid(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, recordToRow(record))
	}
	return rows, nil
}

func recordToRow(record []string) Row {
	row := make(Row, len(record))
	for i, value := range record {
		if strings.TrimSpace(value) == "" {
			row[i] = Missing()
		} else {
			row[i] = Text(value)
		}
	}
	return row
}
