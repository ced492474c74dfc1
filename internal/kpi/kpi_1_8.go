package kpi

import (
	"context"
	"fmt"
)

// failingGrade is the threshold below which a first-period grade counts as a
// failure.
const failingGrade = 4.0

// calculate18 computes KPI 1.8: the first-period failure rate within each
// quintile of the admission index.
func (e *Engine) calculate18(ctx context.Context, cohorte int) (Result, error) {
	rows, err := e.store.B1Students(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{
			Value: nil,
			Meta:  Meta18{Cohorte: cohorte, NTotal: 0, Error: errNoGoldStudents},
		}, nil
	}

	total := len(rows)
	graded := validGradedIndices(rows)
	valid := len(graded)
	excluded := total - valid

	if valid < 5 {
		return Result{
			Value: nil,
			Meta: Meta18{
				Cohorte:    cohorte,
				NTotal:     total,
				NValidos:   &valid,
				NExcluidos: &excluded,
				Error:      errTooFewWithGrade,
			},
		}, nil
	}

	indices := make([]float64, valid)
	for i, g := range graded {
		indices[i] = g.index
	}
	distinct := distinctCount(indices)
	if distinct < 5 {
		return Result{
			Value: nil,
			Meta: Meta18{
				Cohorte:                cohorte,
				NTotal:                 total,
				NValidos:               &valid,
				NExcluidos:             &excluded,
				ValoresDistintosIndice: &distinct,
				Error:                  errTooFewDistinctValues,
			},
		}, nil
	}

	edges, ok := quintileCuts(indices)
	if !ok {
		return Result{
			Value: nil,
			Meta: Meta18{
				Cohorte:    cohorte,
				NTotal:     total,
				NValidos:   &valid,
				NExcluidos: &excluded,
				Error:      errDuplicateCuts,
			},
		}, nil
	}

	gradesByQuintile := make(map[string][]float64, len(quintileLabels))
	for _, g := range graded {
		label := quintileOf(g.index, edges)
		gradesByQuintile[label] = append(gradesByQuintile[label], g.grade)
	}

	rates := make(map[string]*float64, len(quintileLabels))
	details := make(map[string]FailureDetail, len(quintileLabels))
	for _, label := range quintileLabels {
		grades := gradesByQuintile[label]
		if len(grades) == 0 {
			rates[label] = nil
			details[label] = FailureDetail{NTotal: 0}
			continue
		}
		failed := 0
		for _, grade := range grades {
			if grade < failingGrade {
				failed++
			}
		}
		passed := len(grades) - failed
		rate := float64(failed) / float64(len(grades)) * 100
		rates[label] = &rate
		details[label] = FailureDetail{
			NTotal:          len(grades),
			NReprobados:     &failed,
			NAprobados:      &passed,
			TasaReprobacion: &rate,
		}
	}

	notes := []string{noteIndexRule}
	if excluded > 0 {
		notes = append(notes, fmt.Sprintf(
			"%d estudiantes fueron excluidos por no tener índice de ingreso o NotaB1 disponible",
			excluded,
		))
	}

	return Result{
		Value: rates,
		Meta: Meta18{
			Cohorte:           cohorte,
			NTotal:            total,
			NValidos:          &valid,
			NExcluidos:        &excluded,
			DetallesQuintiles: details,
			Notes:             notes,
		},
	}, nil
}
