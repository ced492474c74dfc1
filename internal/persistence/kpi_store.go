package persistence

import (
	"context"
	"fmt"

	"ficaetl/internal/kpi"
)

// The KPI read queries. The engine sees these through the kpi.Store
// interface; everything here reads the gold tables plus estudiantes.
var _ kpi.Store = (*Store)(nil)

// CohortSize counts the students registered for the cohort.
func (s *Store) CohortSize(ctx context.Context, cohorte int) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM estudiantes WHERE anio_ingreso = $1`,
		cohorte,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cohort students: %w", err)
	}
	return count, nil
}

// TotalRamos returns the distinct-course count per student of the cohort.
// Students without a gold summary row report zero.
func (s *Store) TotalRamos(ctx context.Context, cohorte int) ([]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(g.total_ramos, 0)
		FROM estudiantes e
		LEFT JOIN gold_kpi_student_ramos g
			ON g.id_estudiante = e.id_estudiante
			AND g.cohorte = e.anio_ingreso
		WHERE e.anio_ingreso = $1
		ORDER BY e.id_estudiante`,
		cohorte,
	)
	if err != nil {
		return nil, fmt.Errorf("querying total_ramos: %w", err)
	}
	defer rows.Close()

	var totals []int
	for rows.Next() {
		var total int
		if err := rows.Scan(&total); err != nil {
			return nil, fmt.Errorf("scanning total_ramos: %w", err)
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

// B1Students returns the admission summary rows of the cohort.
func (s *Store) B1Students(ctx context.Context, cohorte int) ([]kpi.B1Row, error) {
	rows, err := s.db.Query(ctx, `
		SELECT tipo_prueba, puntaje_ingreso, diagnostico, nota_b1
		FROM gold_kpi_b1_student
		WHERE cohorte = $1
		ORDER BY id_estudiante`,
		cohorte,
	)
	if err != nil {
		return nil, fmt.Errorf("querying gold_kpi_b1_student: %w", err)
	}
	defer rows.Close()

	var out []kpi.B1Row
	for rows.Next() {
		var row kpi.B1Row
		var tipo *string
		if err := rows.Scan(&tipo, &row.PuntajeIngreso, &row.Diagnostico, &row.NotaB1); err != nil {
			return nil, fmt.Errorf("scanning gold_kpi_b1_student: %w", err)
		}
		if tipo != nil {
			row.TipoPrueba = *tipo
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Aprueba8Counts reports how many students of the cohort passed the
// eight-period indicator and how many have an indicator row at all.
func (s *Store) Aprueba8Counts(ctx context.Context, cohorte int) (int, int, error) {
	var passed, withData int
	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE aprueba_8),
			COUNT(*)
		FROM gold_kpi_student_aprueba8
		WHERE cohorte = $1`,
		cohorte,
	).Scan(&passed, &withData)
	if err != nil {
		return 0, 0, fmt.Errorf("counting aprueba_8: %w", err)
	}
	return passed, withData, nil
}

// RamosShortfall reports how many students of the cohort fell below the
// eight-course target and how many have a summary row at all.
func (s *Store) RamosShortfall(ctx context.Context, cohorte int) (int, int, error) {
	var below, withData int
	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE total_ramos < 8),
			COUNT(*)
		FROM gold_kpi_student_ramos
		WHERE cohorte = $1`,
		cohorte,
	).Scan(&below, &withData)
	if err != nil {
		return 0, 0, fmt.Errorf("counting ramos shortfall: %w", err)
	}
	return below, withData, nil
}

// DistinctPeriodCount counts the distinct (semester, bimester) pairs that
// the cohort's course records actually span.
func (s *Store) DistinctPeriodCount(ctx context.Context, cohorte int) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT (se.numero, b.numero))
		FROM rendimiento_ramo r
		JOIN bimestres b ON b.id_bimestre = r.id_bimestre
		JOIN semestres se ON se.id_semestre = b.id_semestre
		JOIN estudiantes e ON e.id_estudiante = r.id_estudiante
		WHERE e.anio_ingreso = $1`,
		cohorte,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting distinct periods: %w", err)
	}
	return count, nil
}
