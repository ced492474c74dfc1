package kpi

import (
	"context"
	"fmt"
)

const errIncompletePeriods = "La cohorte no registra los 8 bimestres completos; el indicador aprueba_8 no está definido para ella"

// calculate14 computes KPI 1.4: how many students of the cohort completed
// and passed all eight leading periods. The indicator is only defined for a
// cohort whose dataset actually spans eight distinct periods; others report
// null with the reason.
func (e *Engine) calculate14(ctx context.Context, cohorte int) (Result, error) {
	total, err := e.store.CohortSize(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}
	if total == 0 {
		return Result{
			Value: nil,
			Meta:  Meta14{Cohorte: cohorte, E: 0, Error: errNoStudents},
		}, nil
	}

	periods, err := e.store.DistinctPeriodCount(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}
	if periods < 8 {
		return Result{
			Value: nil,
			Meta: Meta14{
				Cohorte:         cohorte,
				E:               total,
				PeriodosCohorte: &periods,
				Error:           errIncompletePeriods,
			},
		}, nil
	}

	passed, withData, err := e.store.Aprueba8Counts(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}

	rate := float64(passed) / float64(total) * 100
	var notes []string
	if withData < total {
		notes = append(notes, fmt.Sprintf(
			"%d estudiantes no pudieron evaluarse en Gold (faltan registros para aprueba_8)",
			total-withData,
		))
	}

	return Result{
		Value: passed,
		Meta: Meta14{
			Cohorte:         cohorte,
			E:               total,
			EConDatos:       &withData,
			NApruebanOcho:   &passed,
			TasaAprobacion:  &rate,
			PeriodosCohorte: &periods,
			Notes:           notes,
		},
	}, nil
}
