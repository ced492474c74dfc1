// Package files manages the working directories of the service: where
// uploaded source spreadsheets land and where CSV exports are written.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ficaetl/internal/config"
)

// Manager resolves and maintains the configured data directories.
type Manager struct {
	paths config.PathsConfig
}

// NewManager creates a manager for the configured paths.
func NewManager(paths config.PathsConfig) *Manager {
	return &Manager{paths: paths}
}

// EnsureDirectories creates the upload, export and log directories.
func (m *Manager) EnsureDirectories() error {
	for _, dir := range []string{m.paths.UploadDir, m.paths.ExportDir, m.paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadDir returns the configured upload directory.
func (m *Manager) UploadDir() string {
	return m.paths.UploadDir
}

// SaveUpload stores an uploaded source file under the upload directory.
// The stored name is prefixed with a timestamp so repeated uploads of the
// same file never clobber each other. Returns the stored path.
func (m *Manager) SaveUpload(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(m.paths.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	stored := fmt.Sprintf("%s_%s", time.Now().Format("20060102T150405"), SafeFilename(name))
	path := filepath.Join(m.paths.UploadDir, stored)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := file.Sync(); err != nil {
		return "", fmt.Errorf("syncing upload: %w", err)
	}
	return path, nil
}

// ExportPath returns the path under the export directory for name.
func (m *Manager) ExportPath(name string) string {
	return filepath.Join(m.paths.ExportDir, SafeFilename(name))
}

// FindSourceFiles lists the spreadsheet files (.csv, .xlsx) in dir, newest
// first.
func FindSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.After(found[j].modTime)
	})

	paths := make([]string, len(found))
	for i, c := range found {
		paths[i] = c.path
	}
	return paths, nil
}

// SafeFilename strips any path components and replaces characters outside
// a conservative set, so client-supplied names cannot escape the target
// directory.
func SafeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}
