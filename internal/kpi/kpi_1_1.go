package kpi

import "context"

const errNoStudents = "No se encontraron estudiantes para la cohorte especificada"

// calculate11 computes KPI 1.1: mean deviation of courses taken from the
// eight-course ideal, across all students of the cohort. Students without a
// course summary count as zero courses.
func (e *Engine) calculate11(ctx context.Context, cohorte int) (Result, error) {
	totals, err := e.store.TotalRamos(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}

	if len(totals) == 0 {
		return Result{
			Value: nil,
			Meta:  Meta11{Cohorte: cohorte, E: 0, Error: errNoStudents},
		}, nil
	}

	deviations := make([]float64, len(totals))
	counts := make([]float64, len(totals))
	for i, total := range totals {
		deviations[i] = float64(total) - 8
		counts[i] = float64(total)
	}

	avg := mean(deviations)
	return Result{
		Value: avg,
		Meta: Meta11{
			Cohorte:                   cohorte,
			E:                         len(totals),
			DesviacionPromedio:        &avg,
			DesviacionesPorEstudiante: describe(deviations),
			DistribucionRamos:         describeDist(counts),
		},
	}, nil
}
