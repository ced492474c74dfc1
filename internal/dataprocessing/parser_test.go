package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGridCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.csv")
	content := "2022,1,1,MAT101,,CÁLCULO I,5.5\n2022,1,2,MAT102\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := ReadGrid(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	year, ok := rows[0].Cell(ColYear).AsInt()
	require.True(t, ok)
	assert.Equal(t, 2022, year)

	name, ok := rows[0].Cell(ColSubjectName).Normalize()
	require.True(t, ok)
	assert.Equal(t, "CÁLCULO I", name)

	// empty field becomes missing
	assert.True(t, rows[0].Cell(ColModule).IsMissing())

	// short rows read missing beyond their length
	assert.True(t, rows[1].Cell(ColEntryYear).IsMissing())
}

func TestReadGridUnsupportedExtension(t *testing.T) {
	_, err := ReadGrid("records.pdf")
	assert.Error(t, err)
}
