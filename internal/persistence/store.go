package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ficaetl/internal/dataprocessing"
)

// rendimientoBatchSize is how many course records go out per batch.
const rendimientoBatchSize = 100

// DB is the subset of pgxpool.Pool the store uses. Tests substitute a fake
// that records the queued statements.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store is the PostgreSQL-backed persistence used by the pipeline and the
// KPI engine.
type Store struct {
	db     DB
	logger *slog.Logger
}

// NewStore wires a Store over an open connection pool.
func NewStore(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func nullFloat(c dataprocessing.Cell) *float64 {
	if v, ok := c.CleanNumeric(); ok {
		return &v
	}
	return nil
}

func nullText(c dataprocessing.Cell) *string {
	if s, ok := c.Normalize(); ok {
		return &s
	}
	return nil
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// InsertBase writes the resolved rows into the base entity tables. Existing
// rows are left untouched; the returned map reports how many rows were
// prepared per table.
func (s *Store) InsertBase(ctx context.Context, rows []dataprocessing.StudentRow) (map[string]int, error) {
	summary := make(map[string]int, 7)

	estudiantes, err := s.insertEstudiantes(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting estudiantes: %w", err)
	}
	summary["estudiantes"] = estudiantes

	semestres, err := s.insertSemestres(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting semestres: %w", err)
	}
	summary["semestres"] = semestres

	bimestres, err := s.insertBimestres(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting bimestres: %w", err)
	}
	summary["bimestres"] = bimestres

	asignaturas, err := s.insertAsignaturas(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting asignaturas: %w", err)
	}
	summary["asignaturas"] = asignaturas

	paes, err := s.insertPAES(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting paes: %w", err)
	}
	summary["paes"] = paes

	pdt, err := s.insertPDT(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting pdt: %w", err)
	}
	summary["pdt"] = pdt

	rendimiento, err := s.insertRendimiento(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting rendimiento_ramo: %w", err)
	}
	summary["rendimiento"] = rendimiento

	s.logger.InfoContext(ctx, "base tables populated",
		"estudiantes", estudiantes,
		"rendimiento", rendimiento,
	)
	return summary, nil
}

// insertEstudiantes inserts one row per student: entry metadata plus nem,
// ranking and the diagnostic score, read from the score block matching the
// student's admission test.
func (s *Store) insertEstudiantes(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	batch := &pgx.Batch{}
	seen := make(map[int]struct{})

	for _, row := range rows {
		cohorte, ok := row.Cohort()
		if !ok || row.StudentID == 0 || row.TipoPrueba() == "" {
			continue
		}
		if _, dup := seen[row.StudentID]; dup {
			continue
		}
		seen[row.StudentID] = struct{}{}

		var nem, ranking *float64
		if row.TipoPrueba() == "PAES" {
			nem = nullFloat(row.Cells.Cell(dataprocessing.ColPAESNEM))
			ranking = nullFloat(row.Cells.Cell(dataprocessing.ColPAESRanking))
		} else {
			nem = nullFloat(row.Cells.Cell(dataprocessing.ColPDTNEM))
			ranking = nullFloat(row.Cells.Cell(dataprocessing.ColPDTRanking))
		}
		diagnostico := nullFloat(row.Cells.Cell(dataprocessing.ColDiagnostico))

		batch.Queue(`
			INSERT INTO estudiantes (
				id_estudiante, anio_ingreso, tipo_prueba, nem, ranking,
				prueba_diagnostico_matematica
			)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id_estudiante) DO NOTHING`,
			row.StudentID, cohorte, row.TipoPrueba(), nem, ranking, diagnostico,
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(seen), nil
}

func (s *Store) insertSemestres(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	type semKey struct{ anio, numero int }
	batch := &pgx.Batch{}
	seen := make(map[semKey]struct{})

	for _, row := range rows {
		anio, anioOK := row.Year()
		numero, numOK := row.Semester()
		if !anioOK || !numOK {
			continue
		}
		key := semKey{anio: anio, numero: numero}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		batch.Queue(`
			INSERT INTO semestres (anio, numero)
			VALUES ($1, $2)
			ON CONFLICT (anio, numero) DO NOTHING`,
			anio, numero,
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(seen), nil
}

func (s *Store) insertBimestres(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	type bimKey struct{ anio, semestre, numero int }
	batch := &pgx.Batch{}
	seen := make(map[bimKey]struct{})

	for _, row := range rows {
		anio, anioOK := row.Year()
		semestre, semOK := row.Semester()
		numero, bimOK := row.Bimester()
		if !anioOK || !semOK || !bimOK {
			continue
		}
		key := bimKey{anio: anio, semestre: semestre, numero: numero}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		batch.Queue(`
			INSERT INTO bimestres (id_semestre, numero)
			SELECT id_semestre, $3
			FROM semestres
			WHERE anio = $1 AND numero = $2
			ON CONFLICT (id_semestre, numero) DO NOTHING`,
			anio, semestre, numero,
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(seen), nil
}

func (s *Store) insertAsignaturas(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	type asigKey struct {
		codigo, nombre string
		modulo         string
		moduloSet      bool
	}
	batch := &pgx.Batch{}
	seen := make(map[asigKey]struct{})

	for _, row := range rows {
		codigo, codeOK := row.SubjectCode()
		nombre, nameOK := row.SubjectName()
		if !codeOK || !nameOK {
			continue
		}
		key := asigKey{codigo: codigo, nombre: nombre}
		if modulo, ok := row.Module(); ok {
			key.modulo = modulo
			key.moduloSet = true
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var modulo *string
		if key.moduloSet {
			modulo = &key.modulo
		}
		batch.Queue(`
			INSERT INTO asignaturas (codigo, modulo, nombre)
			VALUES ($1, $2, $3)
			ON CONFLICT (codigo, COALESCE(modulo, ''), nombre) DO NOTHING`,
			codigo, modulo, nombre,
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(seen), nil
}

func (s *Store) insertPAES(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	batch := &pgx.Batch{}
	seen := make(map[int]struct{})

	for _, row := range rows {
		cohorte, ok := row.Cohort()
		if !ok || row.StudentID == 0 || row.TipoPrueba() != "PAES" {
			continue
		}
		if _, dup := seen[row.StudentID]; dup {
			continue
		}
		seen[row.StudentID] = struct{}{}

		batch.Queue(`
			INSERT INTO paes (
				id_estudiante, anio_examen, c_lectora, m1, m2, historia,
				ciencias, prom_m1_clectora
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id_estudiante, anio_examen) DO NOTHING`,
			row.StudentID, cohorte,
			nullFloat(row.Cells.Cell(dataprocessing.ColPAESComprension)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPAESM1)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPAESM2)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPAESHistoria)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPAESCiencias)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPAESPromedio)),
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(seen), nil
}

func (s *Store) insertPDT(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	batch := &pgx.Batch{}
	seen := make(map[int]struct{})

	for _, row := range rows {
		cohorte, ok := row.Cohort()
		if !ok || row.StudentID == 0 || row.TipoPrueba() != "PDT" {
			continue
		}
		if _, dup := seen[row.StudentID]; dup {
			continue
		}
		seen[row.StudentID] = struct{}{}

		batch.Queue(`
			INSERT INTO pdt (
				id_estudiante, anio_examen, lenguaje, matematicas, historia,
				ciencias, prom_leng_mat
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id_estudiante, anio_examen) DO NOTHING`,
			row.StudentID, cohorte,
			nullFloat(row.Cells.Cell(dataprocessing.ColPDTLenguaje)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPDTMatematicas)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPDTHistoria)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPDTCiencias)),
			nullFloat(row.Cells.Cell(dataprocessing.ColPDTPromedio)),
		)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(seen), nil
}

// insertRendimiento inserts the course records. Each insert resolves its
// semester, bimester and subject foreign keys in the statement itself;
// records whose dimension rows are missing insert nothing. Batches go out
// every rendimientoBatchSize records.
func (s *Store) insertRendimiento(ctx context.Context, rows []dataprocessing.StudentRow) (int, error) {
	batch := &pgx.Batch{}
	queued := 0

	for _, row := range rows {
		anio, anioOK := row.Year()
		semestre, semOK := row.Semester()
		bimestre, bimOK := row.Bimester()
		codigo, codeOK := row.SubjectCode()
		nombre, nameOK := row.SubjectName()
		if row.StudentID == 0 || !anioOK || !semOK || !bimOK || !codeOK || !nameOK {
			continue
		}

		modulo := nullText(row.Cells.Cell(dataprocessing.ColModule))
		nota := nullFloat(row.Cells.Cell(dataprocessing.ColFinalGrade))
		estado := nullText(row.Cells.Cell(dataprocessing.ColFinalStatus))

		batch.Queue(`
			INSERT INTO rendimiento_ramo (
				id_estudiante, id_bimestre, id_asignatura, nota_final, estado_final
			)
			SELECT $1, b.id_bimestre, a.id_asignatura, $8, $9
			FROM semestres s
			JOIN bimestres b ON b.id_semestre = s.id_semestre AND b.numero = $4
			JOIN asignaturas a ON a.codigo = $5
				AND (a.modulo = $6 OR (a.modulo IS NULL AND $6 IS NULL))
				AND a.nombre = $7
			WHERE s.anio = $2 AND s.numero = $3
			ON CONFLICT (id_estudiante, id_bimestre, id_asignatura) DO NOTHING`,
			row.StudentID, anio, semestre, bimestre, codigo, modulo, nombre, nota, estado,
		)
		queued++

		if batch.Len() >= rendimientoBatchSize {
			if err := s.sendBatch(ctx, batch); err != nil {
				return 0, err
			}
			batch = &pgx.Batch{}
		}
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return queued, nil
}
