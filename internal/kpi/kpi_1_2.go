package kpi

import "context"

const (
	errTooFewForCorrelation = "Insuficientes datos para calcular correlación (se requieren al menos 2 observaciones)"
	errZeroVariance         = "No se pudo calcular la correlación (posible varianza cero)"
)

// calculate121 computes KPI 1.2.1: Pearson correlation between the unified
// admission-test score and the first-period average grade.
func (e *Engine) calculate121(ctx context.Context, cohorte int) (Result, error) {
	rows, err := e.store.B1Students(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}

	var scores, grades []float64
	tipoCounts := make(map[string]int)
	for _, row := range rows {
		if row.PuntajeIngreso == nil || row.NotaB1 == nil {
			continue
		}
		scores = append(scores, *row.PuntajeIngreso)
		grades = append(grades, *row.NotaB1)
		tipoCounts[row.TipoPrueba]++
	}

	if len(scores) < 2 {
		return Result{
			Value: nil,
			Meta:  Meta12{Cohorte: cohorte, N: len(scores), Error: errTooFewForCorrelation},
		}, nil
	}

	r, ok := pearson(scores, grades)
	if !ok {
		return Result{
			Value: nil,
			Meta:  Meta12{Cohorte: cohorte, N: len(scores), Error: errZeroVariance},
		}, nil
	}

	return Result{
		Value: r,
		Meta: Meta12{
			Cohorte:                cohorte,
			N:                      len(scores),
			PuntajeIngreso:         describe(scores),
			NotaB1:                 describe(grades),
			DistribucionTipoPrueba: tipoCounts,
		},
	}, nil
}

// calculate122 computes KPI 1.2.2: Pearson correlation between the math
// diagnostic exam and the first-period average grade.
func (e *Engine) calculate122(ctx context.Context, cohorte int) (Result, error) {
	rows, err := e.store.B1Students(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}

	var diagnosticos, grades []float64
	for _, row := range rows {
		if row.Diagnostico == nil || row.NotaB1 == nil {
			continue
		}
		diagnosticos = append(diagnosticos, *row.Diagnostico)
		grades = append(grades, *row.NotaB1)
	}

	if len(diagnosticos) < 2 {
		return Result{
			Value: nil,
			Meta:  Meta12{Cohorte: cohorte, N: len(diagnosticos), Error: errTooFewForCorrelation},
		}, nil
	}

	r, ok := pearson(diagnosticos, grades)
	if !ok {
		return Result{
			Value: nil,
			Meta:  Meta12{Cohorte: cohorte, N: len(diagnosticos), Error: errZeroVariance},
		}, nil
	}

	return Result{
		Value: r,
		Meta: Meta12{
			Cohorte:     cohorte,
			N:           len(diagnosticos),
			Diagnostico: describe(diagnosticos),
			NotaB1:      describe(grades),
		},
	}, nil
}
