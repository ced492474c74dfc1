package operations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficaetl/internal/dataprocessing"
	"ficaetl/internal/gold"
)

type fakeStore struct {
	baseRows  []dataprocessing.StudentRow
	goldCalls int
	failBase  error
	failGold  error
}

func (f *fakeStore) InsertBase(_ context.Context, rows []dataprocessing.StudentRow) (map[string]int, error) {
	if f.failBase != nil {
		return nil, f.failBase
	}
	f.baseRows = rows
	return map[string]int{"estudiantes": 2, "rendimiento_ramo": len(rows)}, nil
}

func (f *fakeStore) UpsertGold(_ context.Context, tables gold.Tables) (map[string]int, error) {
	if f.failGold != nil {
		return nil, f.failGold
	}
	f.goldCalls++
	return map[string]int{"gold_kpi_b1_student": len(tables.B1Students)}, nil
}

// csvRecord renders a 25-column record with the given cells set.
func csvRecord(cells map[int]string) string {
	fields := make([]string, dataprocessing.RawColumnCount)
	for col, value := range cells {
		fields[col] = value
	}
	return strings.Join(fields, ",")
}

func writeSourceCSV(t *testing.T, records ...string) string {
	t.Helper()
	lines := []string{
		csvRecord(map[int]string{0: "header"}),
		csvRecord(map[int]string{0: "header"}),
	}
	lines = append(lines, records...)
	path := filepath.Join(t.TempDir(), "source.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestPipelineRun(t *testing.T) {
	path := writeSourceCSV(t,
		csvRecord(map[int]string{
			dataprocessing.ColYear:         "2022",
			dataprocessing.ColSemester:     "1",
			dataprocessing.ColBimester:     "1",
			dataprocessing.ColSubjectCode:  "MAT101",
			dataprocessing.ColSubjectName:  "CÁLCULO I",
			dataprocessing.ColFinalGrade:   "5.5",
			dataprocessing.ColPAESM1:       "700",
			dataprocessing.ColPAESPromedio: "675",
			dataprocessing.ColEntryYear:    "2022",
		}),
		csvRecord(map[int]string{
			dataprocessing.ColYear:        "2022",
			dataprocessing.ColSemester:    "1",
			dataprocessing.ColBimester:    "1",
			dataprocessing.ColSubjectCode: "FIS100",
			dataprocessing.ColSubjectName: "FÍSICA I",
			dataprocessing.ColFinalGrade:  "4.2",
			dataprocessing.ColPDTLenguaje: "540",
			dataprocessing.ColPDTPromedio: "545",
			dataprocessing.ColEntryYear:   "2022",
		}),
		// remedial course: filtered out before classification
		csvRecord(map[int]string{
			dataprocessing.ColYear:        "2022",
			dataprocessing.ColSubjectName: "INTRODUCCIÓN AL ÁLGEBRA",
			dataprocessing.ColPAESM1:      "700",
			dataprocessing.ColEntryYear:   "2022",
		}),
	)

	store := &fakeStore{}
	tracker := NewTracker()
	p := NewPipeline(store, tracker, nil)

	result, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Filter.RemovedRows)
	assert.Equal(t, 2, result.Classify.ProcessedRows)
	assert.Equal(t, 2, result.Resolve.NumStudents)
	assert.Equal(t, 2, result.Gold.B1Students)
	assert.Equal(t, map[string]int{"estudiantes": 2, "rendimiento_ramo": 2}, result.BaseInserts)
	assert.Equal(t, 1, store.goldCalls)
	require.Len(t, result.Resolved, 2)

	snap := tracker.Snapshot()
	assert.Equal(t, RunStatusCompleted, snap.Status)
	assert.Equal(t, result.RunID, snap.RunID)
	require.Len(t, snap.Steps, len(StepOrder))
	for _, step := range snap.Steps {
		assert.Equal(t, StepStatusCompleted, step.Status, step.ID)
	}
	assert.False(t, tracker.Busy())
}

func TestPipelineRunMissingFile(t *testing.T) {
	tracker := NewTracker()
	p := NewPipeline(&fakeStore{}, tracker, nil)

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Equal(t, RunStatusFailed, tracker.Snapshot().Status)
}

func TestPipelineRunPersistFailure(t *testing.T) {
	path := writeSourceCSV(t,
		csvRecord(map[int]string{
			dataprocessing.ColYear:      "2022",
			dataprocessing.ColPAESM1:    "700",
			dataprocessing.ColEntryYear: "2022",
		}),
	)

	sentinel := errors.New("connection refused")
	tracker := NewTracker()
	p := NewPipeline(&fakeStore{failBase: sentinel}, tracker, nil)

	_, err := p.Run(context.Background(), path)
	require.ErrorIs(t, err, sentinel)

	snap := tracker.Snapshot()
	assert.Equal(t, RunStatusFailed, snap.Status)
	assert.Contains(t, snap.Error, "connection refused")

	var persistStep *StepSnapshot
	for i := range snap.Steps {
		if snap.Steps[i].ID == StepIDPersist {
			persistStep = &snap.Steps[i]
		}
	}
	require.NotNil(t, persistStep)
	assert.Equal(t, StepStatusFailed, persistStep.Status)
}

func TestTrackerIgnoresStaleRunEvents(t *testing.T) {
	tracker := NewTracker()
	tracker.RunStarted("run-2")
	tracker.StepStarted("run-1", StepIDFilter)
	tracker.RunFailed("run-1", StepIDFilter, errors.New("stale"))

	snap := tracker.Snapshot()
	assert.Equal(t, RunStatusRunning, snap.Status)
	assert.Empty(t, snap.Error)
	assert.True(t, tracker.Busy())
}
