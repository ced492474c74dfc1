package kpi

import (
	"context"
	"fmt"
)

const (
	errNoGoldStudents       = "No se encontraron estudiantes para la cohorte especificada (tabla Gold vacía)"
	errTooFewForQuintiles   = "Insuficientes estudiantes con índice de ingreso válido para calcular quintiles (se requieren al menos 5)"
	errTooFewDistinctValues = "No hay suficientes valores distintos del índice para formar 5 quintiles"
	errDuplicateCuts        = "No se pudieron construir quintiles (posibles cortes duplicados en el índice)"

	noteIndexRule = "El índice de ingreso se operacionaliza como promedio(PuntajeIngreso, Diagnóstico) si ambos existen; si no, usa el disponible."
)

func distinctCount(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// calculate16 computes KPI 1.6: the quintile distribution of the admission
// index across the cohort, as percentages of the students with a valid
// index.
func (e *Engine) calculate16(ctx context.Context, cohorte int) (Result, error) {
	rows, err := e.store.B1Students(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{
			Value: nil,
			Meta:  Meta16{Cohorte: cohorte, E: 0, Error: errNoGoldStudents},
		}, nil
	}

	total := len(rows)
	var indices []float64
	for _, row := range rows {
		if index, ok := admissionIndex(row.PuntajeIngreso, row.Diagnostico); ok {
			indices = append(indices, index)
		}
	}
	valid := len(indices)
	excluded := total - valid

	if valid < 5 {
		return Result{
			Value: nil,
			Meta: Meta16{
				Cohorte:    cohorte,
				E:          valid,
				ETotal:     &total,
				EExcluidos: &excluded,
				Error:      errTooFewForQuintiles,
			},
		}, nil
	}

	distinct := distinctCount(indices)
	if distinct < 5 {
		return Result{
			Value: nil,
			Meta: Meta16{
				Cohorte:                cohorte,
				E:                      valid,
				ETotal:                 &total,
				EExcluidos:             &excluded,
				ValoresDistintosIndice: &distinct,
				Error:                  errTooFewDistinctValues,
			},
		}, nil
	}

	edges, ok := quintileCuts(indices)
	if !ok {
		return Result{
			Value: nil,
			Meta: Meta16{
				Cohorte:    cohorte,
				E:          valid,
				ETotal:     &total,
				EExcluidos: &excluded,
				Error:      errDuplicateCuts,
			},
		}, nil
	}

	absolute := make(map[string]int, len(quintileLabels))
	for _, index := range indices {
		absolute[quintileOf(index, edges)]++
	}

	percentages := make(map[string]float64, len(quintileLabels))
	for _, label := range quintileLabels {
		percentages[label] = float64(absolute[label]) / float64(valid) * 100
	}

	notes := []string{noteIndexRule}
	if excluded > 0 {
		notes = append(notes, fmt.Sprintf(
			"%d estudiantes fueron excluidos por no tener PuntajeIngreso ni Diagnóstico disponible",
			excluded,
		))
	}

	return Result{
		Value: percentages,
		Meta: Meta16{
			Cohorte:              cohorte,
			E:                    valid,
			ETotal:               &total,
			EExcluidos:           &excluded,
			DistribucionAbsoluta: absolute,
			IndiceIngreso:        describeDist(indices),
			Notes:                notes,
		},
	}, nil
}
