package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ficaetl/internal/gold"
)

// goldBatchSize is how many gold rows go out per batch.
const goldBatchSize = 1000

// UpsertGold replaces the gold summary rows for the students present in
// tables. A rerun over the same source file overwrites instead of
// accumulating.
func (s *Store) UpsertGold(ctx context.Context, tables gold.Tables) (map[string]int, error) {
	summary := make(map[string]int, 3)

	b1, err := s.upsertB1Students(ctx, tables.B1Students)
	if err != nil {
		return nil, fmt.Errorf("upserting gold_kpi_b1_student: %w", err)
	}
	summary["gold_kpi_b1_student"] = b1

	ramos, err := s.upsertStudentRamos(ctx, tables.Ramos)
	if err != nil {
		return nil, fmt.Errorf("upserting gold_kpi_student_ramos: %w", err)
	}
	summary["gold_kpi_student_ramos"] = ramos

	aprueba8, err := s.upsertAprueba8(ctx, tables.Aprueba8)
	if err != nil {
		return nil, fmt.Errorf("upserting gold_kpi_student_aprueba8: %w", err)
	}
	summary["gold_kpi_student_aprueba8"] = aprueba8

	s.logger.InfoContext(ctx, "gold tables upserted",
		"b1_student", b1,
		"student_ramos", ramos,
		"student_aprueba8", aprueba8,
	)
	return summary, nil
}

func (s *Store) upsertB1Students(ctx context.Context, students []gold.B1Student) (int, error) {
	batch := &pgx.Batch{}
	for _, st := range students {
		batch.Queue(`
			INSERT INTO gold_kpi_b1_student (
				cohorte, id_estudiante, tipo_prueba, puntaje_ingreso,
				diagnostico, nota_b1
			)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (cohorte, id_estudiante)
			DO UPDATE SET
				tipo_prueba     = EXCLUDED.tipo_prueba,
				puntaje_ingreso = EXCLUDED.puntaje_ingreso,
				diagnostico     = EXCLUDED.diagnostico,
				nota_b1         = EXCLUDED.nota_b1`,
			st.Cohorte, st.IDEstudiante, st.TipoPrueba,
			st.PuntajeIngreso, st.Diagnostico, st.NotaB1,
		)
		if batch.Len() >= goldBatchSize {
			if err := s.sendBatch(ctx, batch); err != nil {
				return 0, err
			}
			batch = &pgx.Batch{}
		}
	}
	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(students), nil
}

func (s *Store) upsertStudentRamos(ctx context.Context, students []gold.StudentRamos) (int, error) {
	batch := &pgx.Batch{}
	for _, st := range students {
		batch.Queue(`
			INSERT INTO gold_kpi_student_ramos (cohorte, id_estudiante, total_ramos)
			VALUES ($1, $2, $3)
			ON CONFLICT (cohorte, id_estudiante)
			DO UPDATE SET total_ramos = EXCLUDED.total_ramos`,
			st.Cohorte, st.IDEstudiante, st.TotalRamos,
		)
		if batch.Len() >= goldBatchSize {
			if err := s.sendBatch(ctx, batch); err != nil {
				return 0, err
			}
			batch = &pgx.Batch{}
		}
	}
	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(students), nil
}

func (s *Store) upsertAprueba8(ctx context.Context, students []gold.StudentAprueba8) (int, error) {
	batch := &pgx.Batch{}
	for _, st := range students {
		batch.Queue(`
			INSERT INTO gold_kpi_student_aprueba8 (cohorte, id_estudiante, aprueba_8)
			VALUES ($1, $2, $3)
			ON CONFLICT (cohorte, id_estudiante)
			DO UPDATE SET aprueba_8 = EXCLUDED.aprueba_8`,
			st.Cohorte, st.IDEstudiante, st.Aprueba8,
		)
		if batch.Len() >= goldBatchSize {
			if err := s.sendBatch(ctx, batch); err != nil {
				return 0, err
			}
			batch = &pgx.Batch{}
		}
	}
	if err := s.sendBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(students), nil
}
