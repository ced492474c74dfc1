package kpi

import (
	"context"
	"math"
)

const (
	errTooFewForRegression = "Insuficientes datos para calcular regresión múltiple (se requieren al menos 3 observaciones)"
	errRegressionFailed    = "Error al calcular regresión múltiple (matriz singular o mal condicionada)"
)

// calculate13 computes KPI 1.3: the multiple correlation R of the admission
// predictors against the first-period average grade. When fewer than three
// students carry a diagnostic score, the fit degrades to a simple regression
// on the admission-test score alone; the meta reports which model ran.
func (e *Engine) calculate13(ctx context.Context, cohorte int) (Result, error) {
	rows, err := e.store.B1Students(ctx, cohorte)
	if err != nil {
		return Result{}, err
	}

	// Base sample: admission score and first-period grade both present.
	type obs struct {
		puntaje     float64
		diagnostico *float64
		notaB1      float64
		tipo        string
	}
	var sample []obs
	withDiagnostico := 0
	for _, row := range rows {
		if row.PuntajeIngreso == nil || row.NotaB1 == nil {
			continue
		}
		o := obs{puntaje: *row.PuntajeIngreso, notaB1: *row.NotaB1, tipo: row.TipoPrueba}
		if row.Diagnostico != nil {
			o.diagnostico = row.Diagnostico
			withDiagnostico++
		}
		sample = append(sample, o)
	}

	modelo := "multiple"
	if withDiagnostico < 3 {
		modelo = "simple"
	}

	var X [][]float64
	var y []float64
	var scores, diagnosticos, grades []float64
	tipoCounts := make(map[string]int)

	for _, o := range sample {
		if modelo == "multiple" && o.diagnostico == nil {
			continue
		}
		row := []float64{1, o.puntaje}
		if modelo == "multiple" {
			row = append(row, *o.diagnostico)
			diagnosticos = append(diagnosticos, *o.diagnostico)
		}
		X = append(X, row)
		y = append(y, o.notaB1)
		scores = append(scores, o.puntaje)
		grades = append(grades, o.notaB1)
		tipoCounts[o.tipo]++
	}

	if len(X) < 3 {
		return Result{
			Value: nil,
			Meta:  Meta13{Cohorte: cohorte, N: len(X), Error: errTooFewForRegression},
		}, nil
	}

	beta, r2, err := olsFit(X, y)
	if err != nil {
		return Result{
			Value: nil,
			Meta:  Meta13{Cohorte: cohorte, N: len(X), Modelo: modelo, Error: errRegressionFailed},
		}, nil
	}

	coefs := &Coefficients{Beta0: beta[0], Beta1PAESPDT: beta[1]}
	meta := Meta13{
		Cohorte:                cohorte,
		N:                      len(X),
		Modelo:                 modelo,
		R2:                     &r2,
		Coeficientes:           coefs,
		PuntajeIngreso:         describe(scores),
		NotaB1:                 describe(grades),
		DistribucionTipoPrueba: tipoCounts,
	}
	if modelo == "multiple" {
		coefs.Beta2Diagnostico = &beta[2]
		meta.Diagnostico = describe(diagnosticos)
	}

	return Result{Value: math.Sqrt(r2), Meta: meta}, nil
}
