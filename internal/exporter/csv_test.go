package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficaetl/internal/dataprocessing"
)

func resolvedRow(id int, tipo string, cells map[int]string) dataprocessing.StudentRow {
	row := make(dataprocessing.Row, dataprocessing.RawColumnCount)
	for i := range row {
		row[i] = dataprocessing.Missing()
	}
	for col, value := range cells {
		row[col] = dataprocessing.Text(value)
	}
	return dataprocessing.StudentRow{Cells: row, StudentID: id, TipoIngreso: tipo}
}

func TestWriteResolved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "resolved.csv")
	rows := []dataprocessing.StudentRow{
		resolvedRow(1, "PAES", map[int]string{
			dataprocessing.ColYear:        "2022",
			dataprocessing.ColSubjectName: "CÁLCULO I",
		}),
		resolvedRow(0, "", map[int]string{dataprocessing.ColYear: "2022"}),
	}

	writer := NewCSVWriter(nil)
	require.NoError(t, writer.WriteResolved(path, rows, WriteOptions{}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, dataprocessing.ResolvedHeaders, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "CÁLCULO I", records[1][6])
	assert.Equal(t, "PAES", records[1][len(records[1])-1])
	// unidentified rows export an empty id
	assert.Equal(t, "", records[2][0])
}

func TestWriteResolvedBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolved.csv")
	writer := NewCSVWriter(nil)
	require.NoError(t, writer.WriteResolved(path, nil, WriteOptions{BOMPrefix: true}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
}
