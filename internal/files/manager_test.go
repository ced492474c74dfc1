package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficaetl/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	base := t.TempDir()
	return NewManager(config.PathsConfig{
		UploadDir: filepath.Join(base, "uploads"),
		ExportDir: filepath.Join(base, "exports"),
		LogsDir:   filepath.Join(base, "logs"),
	})
}

func TestEnsureDirectories(t *testing.T) {
	m := testManager(t)
	require.NoError(t, m.EnsureDirectories())

	for _, dir := range []string{m.paths.UploadDir, m.paths.ExportDir, m.paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSaveUpload(t *testing.T) {
	m := testManager(t)

	path, err := m.SaveUpload("cohorte 2022.csv", strings.NewReader("a;b;c\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, m.paths.UploadDir))
	assert.True(t, strings.HasSuffix(path, "cohorte_2022.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a;b;c\n", string(data))
}

func TestSaveUploadRejectsPathEscape(t *testing.T) {
	m := testManager(t)

	path, err := m.SaveUpload("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)

	rel, err := filepath.Rel(m.paths.UploadDir, path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."))
}

func TestFindSourceFiles(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.csv")
	newer := filepath.Join(dir, "newer.xlsx")
	require.NoError(t, os.WriteFile(older, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	paths, err := FindSourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{newer, older}, paths)
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "rendimiento.csv", "rendimiento.csv"},
		{"spaces and accents", "año 2022.xlsx", "a_o_2022.xlsx"},
		{"windows path", `C:\datos\notas.csv`, "notas.csv"},
		{"traversal", "../../secret", "secret"},
		{"empty", "", "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFilename(tt.in))
		})
	}
}
