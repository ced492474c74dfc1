package kpi

import "context"

// Result is the envelope every KPI returns. Value is null when the KPI
// cannot be computed; the reason then travels in the meta's error field.
type Result struct {
	Value any `json:"value"`
	Meta  any `json:"meta"`
}

// B1Row is one student's row from the per-student admission summary table.
// Nil pointers are SQL NULLs.
type B1Row struct {
	TipoPrueba     string
	PuntajeIngreso *float64
	Diagnostico    *float64
	NotaB1         *float64
}

// Store is the read model the engine computes KPIs against.
type Store interface {
	// CohortSize counts the students registered for the cohort.
	CohortSize(ctx context.Context, cohorte int) (int, error)
	// TotalRamos returns the distinct-course count per student of the
	// cohort, zero for students without a summary row.
	TotalRamos(ctx context.Context, cohorte int) ([]int, error)
	// B1Students returns the admission summary rows of the cohort.
	B1Students(ctx context.Context, cohorte int) ([]B1Row, error)
	// Aprueba8Counts reports how many students of the cohort passed the
	// eight-period indicator and how many have an indicator row at all.
	Aprueba8Counts(ctx context.Context, cohorte int) (passed, withData int, err error)
	// RamosShortfall reports how many students of the cohort fell below
	// the eight-course target and how many have a summary row at all.
	RamosShortfall(ctx context.Context, cohorte int) (below, withData int, err error)
	// DistinctPeriodCount counts the distinct (semester, bimester) pairs
	// recorded for the cohort.
	DistinctPeriodCount(ctx context.Context, cohorte int) (int, error)
}

// Stats holds the descriptive statistics reported in KPI metadata.
type Stats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Promedio float64 `json:"promedio"`
	Std      float64 `json:"std"`
}

// DistStats extends Stats with the median, used for count distributions.
type DistStats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Promedio float64 `json:"promedio"`
	Mediana  float64 `json:"mediana"`
	Std      float64 `json:"std,omitempty"`
}

// Meta11 is the metadata of KPI 1.1 (mean course-count deviation).
type Meta11 struct {
	Cohorte                   int        `json:"cohorte"`
	E                         int        `json:"E"`
	DesviacionPromedio        *float64   `json:"desviacion_promedio,omitempty"`
	DesviacionesPorEstudiante *Stats     `json:"desviaciones_por_estudiante,omitempty"`
	DistribucionRamos         *DistStats `json:"distribucion_ramos,omitempty"`
	Error                     string     `json:"error,omitempty"`
}

// Meta12 is the metadata of KPIs 1.2.1 and 1.2.2 (simple correlations).
type Meta12 struct {
	Cohorte                 int            `json:"cohorte"`
	N                       int            `json:"n"`
	PuntajeIngreso          *Stats         `json:"puntaje_ingreso,omitempty"`
	Diagnostico             *Stats         `json:"diagnostico,omitempty"`
	NotaB1                  *Stats         `json:"nota_b1,omitempty"`
	DistribucionTipoPrueba  map[string]int `json:"distribucion_tipo_prueba,omitempty"`
	Error                   string         `json:"error,omitempty"`
}

// Coefficients holds the fitted regression coefficients of KPI 1.3.
type Coefficients struct {
	Beta0            float64  `json:"beta0"`
	Beta1PAESPDT     float64  `json:"beta1_paes_pdt"`
	Beta2Diagnostico *float64 `json:"beta2_diagnostico,omitempty"`
}

// Meta13 is the metadata of KPI 1.3 (multiple correlation).
type Meta13 struct {
	Cohorte                int            `json:"cohorte"`
	N                      int            `json:"n"`
	Modelo                 string         `json:"modelo,omitempty"`
	R2                     *float64       `json:"R2,omitempty"`
	Coeficientes           *Coefficients  `json:"coeficientes,omitempty"`
	PuntajeIngreso         *Stats         `json:"puntaje_ingreso,omitempty"`
	Diagnostico            *Stats         `json:"diagnostico,omitempty"`
	NotaB1                 *Stats         `json:"nota_b1,omitempty"`
	DistribucionTipoPrueba map[string]int `json:"distribucion_tipo_prueba,omitempty"`
	Error                  string         `json:"error,omitempty"`
}

// Meta14 is the metadata of KPI 1.4 (eight-period pass count).
type Meta14 struct {
	Cohorte          int      `json:"cohorte"`
	E                int      `json:"E"`
	EConDatos        *int     `json:"E_con_datos,omitempty"`
	NApruebanOcho    *int     `json:"Naprueban_8,omitempty"`
	TasaAprobacion   *float64 `json:"tasa_aprobacion,omitempty"`
	PeriodosCohorte  *int     `json:"periodos_cohorte,omitempty"`
	Notes            []string `json:"notes,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// Meta15 is the metadata of KPI 1.5 (dropout rate).
type Meta15 struct {
	Cohorte      int      `json:"cohorte"`
	E            int      `json:"E"`
	EConDatos    *int     `json:"E_con_datos,omitempty"`
	NNoCompletan *int     `json:"N_no_completan,omitempty"`
	NCompletan   *int     `json:"N_completan,omitempty"`
	Notes        []string `json:"notes,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Meta16 is the metadata of KPI 1.6 (admission-index quintile distribution).
type Meta16 struct {
	Cohorte                 int            `json:"cohorte"`
	E                       int            `json:"E"`
	ETotal                  *int           `json:"E_total,omitempty"`
	EExcluidos              *int           `json:"E_excluidos,omitempty"`
	ValoresDistintosIndice  *int           `json:"valores_distintos_indice,omitempty"`
	DistribucionAbsoluta    map[string]int `json:"distribucion_absoluta,omitempty"`
	IndiceIngreso           *DistStats     `json:"indice_ingreso,omitempty"`
	Notes                   []string       `json:"notes,omitempty"`
	Error                   string         `json:"error,omitempty"`
}

// QuintileDetail describes one quintile's observations for KPI 1.7.
type QuintileDetail struct {
	N        int      `json:"n"`
	Promedio *float64 `json:"promedio,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Std      *float64 `json:"std,omitempty"`
}

// Meta17 is the metadata of KPI 1.7 (mean first-period grade per quintile).
type Meta17 struct {
	Cohorte                int                       `json:"cohorte"`
	NTotal                 int                       `json:"n_total"`
	NValidos               *int                      `json:"n_validos,omitempty"`
	NExcluidos             *int                      `json:"n_excluidos,omitempty"`
	ValoresDistintosIndice *int                      `json:"valores_distintos_indice,omitempty"`
	DetallesQuintiles      map[string]QuintileDetail `json:"detalles_quintiles,omitempty"`
	Notes                  []string                  `json:"notes,omitempty"`
	Error                  string                    `json:"error,omitempty"`
}

// FailureDetail describes one quintile's pass/fail split for KPI 1.8.
type FailureDetail struct {
	NTotal          int      `json:"n_total"`
	NReprobados     *int     `json:"n_reprobados,omitempty"`
	NAprobados      *int     `json:"n_aprobados,omitempty"`
	TasaReprobacion *float64 `json:"tasa_reprobacion,omitempty"`
}

// Meta18 is the metadata of KPI 1.8 (failure rate per quintile).
type Meta18 struct {
	Cohorte                int                      `json:"cohorte"`
	NTotal                 int                      `json:"n_total"`
	NValidos               *int                     `json:"n_validos,omitempty"`
	NExcluidos             *int                     `json:"n_excluidos,omitempty"`
	ValoresDistintosIndice *int                     `json:"valores_distintos_indice,omitempty"`
	DetallesQuintiles      map[string]FailureDetail `json:"detalles_quintiles,omitempty"`
	Notes                  []string                 `json:"notes,omitempty"`
	Error                  string                   `json:"error,omitempty"`
}
