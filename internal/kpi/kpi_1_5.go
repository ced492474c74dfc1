package kpi

import (
	"context"
	"fmt"
)

// calculate15 computes KPI 1.5: the share of students who did not complete
// the eight-course target, as a percentage of the whole cohort.
func (e *Engine) calculate15(ctx context.Context, cohorte int) (Result, error) {
	total, err := e.store.CohortSize(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}
	if total == 0 {
		return Result{
			Value: nil,
			Meta:  Meta15{Cohorte: cohorte, E: 0, Error: errNoStudents},
		}, nil
	}

	below, withData, err := e.store.RamosShortfall(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}

	completed := total - below
	rate := float64(below) / float64(total) * 100

	var notes []string
	if withData < total {
		notes = append(notes, fmt.Sprintf(
			"%d estudiantes no pudieron evaluarse en Gold (faltan registros para total_ramos)",
			total-withData,
		))
	}

	return Result{
		Value: rate,
		Meta: Meta15{
			Cohorte:      cohorte,
			E:            total,
			EConDatos:    &withData,
			NNoCompletan: &below,
			NCompletan:   &completed,
			Notes:        notes,
		},
	}, nil
}
