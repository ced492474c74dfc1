// Package gold derives the per-student summary tables the KPI engine reads.
// Each builder is a pure function of the resolved dataset; persistence of the
// results lives elsewhere.
package gold

// B1Student is one row of gold_kpi_b1_student: the admission predictors of a
// student joined with their average first-bimester grade. Nil pointers are
// SQL NULLs.
type B1Student struct {
	Cohorte        int      `json:"cohorte"`
	IDEstudiante   int      `json:"id_estudiante"`
	TipoPrueba     string   `json:"tipo_prueba"`
	PuntajeIngreso *float64 `json:"puntaje_ingreso"`
	Diagnostico    *float64 `json:"diagnostico"`
	NotaB1         *float64 `json:"nota_b1"`
}

// StudentRamos is one row of gold_kpi_student_ramos: the count of distinct
// course enrollments of a student.
type StudentRamos struct {
	Cohorte      int `json:"cohorte"`
	IDEstudiante int `json:"id_estudiante"`
	TotalRamos   int `json:"total_ramos"`
}

// StudentAprueba8 is one row of gold_kpi_student_aprueba8: whether the
// student completed and passed all of their cohort's first eight periods.
type StudentAprueba8 struct {
	Cohorte      int  `json:"cohorte"`
	IDEstudiante int  `json:"id_estudiante"`
	Aprueba8     bool `json:"aprueba_8"`
}

// Tables bundles the three gold tables built from one pipeline run.
type Tables struct {
	B1Students []B1Student       `json:"gold_kpi_b1_student"`
	Ramos      []StudentRamos    `json:"gold_kpi_student_ramos"`
	Aprueba8   []StudentAprueba8 `json:"gold_kpi_student_aprueba8"`
}

// Summary reports the row counts of the built tables.
type Summary struct {
	B1Students int `json:"gold_kpi_b1_student"`
	Ramos      int `json:"gold_kpi_student_ramos"`
	Aprueba8   int `json:"gold_kpi_student_aprueba8"`
}
