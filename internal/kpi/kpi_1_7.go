package kpi

import (
	"context"
	"fmt"
)

const errTooFewWithGrade = "Insuficientes estudiantes con índice de ingreso y NotaB1 válidos para calcular quintiles (se requieren al menos 5)"

// gradedIndex pairs one student's admission index with their first-period
// grade, for the per-quintile KPIs.
type gradedIndex struct {
	index float64
	grade float64
}

// validGradedIndices keeps the students that have both an admission index
// and a first-period grade.
func validGradedIndices(rows []B1Row) []gradedIndex {
	var out []gradedIndex
	for _, row := range rows {
		if row.NotaB1 == nil {
			continue
		}
		if index, ok := admissionIndex(row.PuntajeIngreso, row.Diagnostico); ok {
			out = append(out, gradedIndex{index: index, grade: *row.NotaB1})
		}
	}
	return out
}

// calculate17 computes KPI 1.7: the mean first-period grade within each
// quintile of the admission index.
func (e *Engine) calculate17(ctx context.Context, cohorte int) (Result, error) {
	rows, err := e.store.B1Students(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{
			Value: nil,
			Meta:  Meta17{Cohorte: cohorte, NTotal: 0, Error: errNoGoldStudents},
		}, nil
	}

	total := len(rows)
	graded := validGradedIndices(rows)
	valid := len(graded)
	excluded := total - valid

	if valid < 5 {
		return Result{
			Value: nil,
			Meta: Meta17{
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
			Meta: Meta17{
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
			Meta: Meta17{
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

	averages := make(map[string]*float64, len(quintileLabels))
	details := make(map[string]QuintileDetail, len(quintileLabels))
	for _, label := range quintileLabels {
		grades := gradesByQuintile[label]
		if len(grades) == 0 {
			averages[label] = nil
			details[label] = QuintileDetail{N: 0}
			continue
		}
		mu := mean(grades)
		lo, hi := minMax(grades)
		std := sampleStd(grades)
		averages[label] = &mu
		details[label] = QuintileDetail{
			N:        len(grades),
			Promedio: &mu,
			Min:      &lo,
			Max:      &hi,
			Std:      &std,
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
		Value: averages,
		Meta: Meta17{
			Cohorte:           cohorte,
			NTotal:            total,
			NValidos:          &valid,
			NExcluidos:        &excluded,
			DetallesQuintiles: details,
			Notes:             notes,
		},
	}, nil
}
