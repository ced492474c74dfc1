package persistence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficaetl/internal/gold"
)

type queuedStatement struct {
	SQL  string
	Args []any
}

// fakeDB records every statement queued through SendBatch.
type fakeDB struct {
	statements []queuedStatement
	execErr    error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, q := range b.QueuedQueries {
		f.statements = append(f.statements, queuedStatement{SQL: q.SQL, Args: q.Arguments})
	}
	return &fakeBatchResults{count: len(b.QueuedQueries), execErr: f.execErr}
}

type fakeBatchResults struct {
	count   int
	execErr error
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, r.execErr }
func (r *fakeBatchResults) Query() (pgx.Rows, error)         { return nil, errors.New("unexpected query") }
func (r *fakeBatchResults) QueryRow() pgx.Row                { return nil }
func (r *fakeBatchResults) Close() error                     { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fptr(v float64) *float64 { return &v }

func goldFixture() gold.Tables {
	return gold.Tables{
		B1Students: []gold.B1Student{
			{Cohorte: 2022, IDEstudiante: 1, TipoPrueba: "PAES", PuntajeIngreso: fptr(640), Diagnostico: fptr(55), NotaB1: fptr(5.2)},
			{Cohorte: 2022, IDEstudiante: 2, TipoPrueba: "PDT", PuntajeIngreso: fptr(580), Diagnostico: nil, NotaB1: fptr(4.1)},
		},
		Ramos: []gold.StudentRamos{
			{Cohorte: 2022, IDEstudiante: 1, TotalRamos: 9},
			{Cohorte: 2022, IDEstudiante: 2, TotalRamos: 6},
		},
		Aprueba8: []gold.StudentAprueba8{
			{Cohorte: 2022, IDEstudiante: 1, Aprueba8: true},
			{Cohorte: 2022, IDEstudiante: 2, Aprueba8: false},
		},
	}
}

// Rerunning the upsert over the same derived tables must issue the exact
// same conflict-updating statements, so table contents cannot drift between
// runs over one source file.
func TestUpsertGoldIdempotent(t *testing.T) {
	db := &fakeDB{}
	store := NewStore(db, discardLogger())
	tables := goldFixture()

	first, err := store.UpsertGold(context.Background(), tables)
	require.NoError(t, err)
	firstStatements := db.statements

	db.statements = nil
	second, err := store.UpsertGold(context.Background(), tables)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstStatements, db.statements)
}

func TestUpsertGoldStatements(t *testing.T) {
	db := &fakeDB{}
	store := NewStore(db, discardLogger())
	tables := goldFixture()

	summary, err := store.UpsertGold(context.Background(), tables)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"gold_kpi_b1_student":       2,
		"gold_kpi_student_ramos":    2,
		"gold_kpi_student_aprueba8": 2,
	}, summary)

	require.Len(t, db.statements, 6)
	for _, stmt := range db.statements {
		assert.Contains(t, stmt.SQL, "ON CONFLICT (cohorte, id_estudiante)")
		assert.Contains(t, stmt.SQL, "DO UPDATE")
		assert.Equal(t, 2022, stmt.Args[0])
	}

	// a conflicting row updates every payload column, never inserts a duplicate key
	b1 := db.statements[0]
	assert.Contains(t, b1.SQL, "EXCLUDED.nota_b1")
	assert.Equal(t, []any{2022, 1, "PAES", fptr(640), fptr(55), fptr(5.2)}, b1.Args)
}

func TestUpsertGoldPropagatesExecError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("deadlock detected")}
	store := NewStore(db, discardLogger())

	_, err := store.UpsertGold(context.Background(), goldFixture())
	assert.ErrorContains(t, err, "gold_kpi_b1_student")
}
