// Package validation checks source spreadsheets before the pipeline
// touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator checks candidate source files for the pipeline.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// allowedExtensions are the spreadsheet formats the parser reads.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// AllowedExtension reports whether name carries a readable spreadsheet
// extension.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ValidateSourceFile checks that path exists, is a regular non-empty file
// and carries a supported extension.
func (v *FileValidator) ValidateSourceFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("source file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("stat source file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a source file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("source file %s is empty", path)
	}
	if !AllowedExtension(path) {
		return fmt.Errorf("unsupported source file type %s, expected .csv or .xlsx", filepath.Ext(path))
	}

	v.logger.Debug("source file validated",
		"path", path,
		"size", info.Size(),
	)
	return nil
}
