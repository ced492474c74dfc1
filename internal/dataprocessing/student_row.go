package dataprocessing

import "strings"

// Typed accessors over the fixed layout. All casts are tolerant: malformed
// values report ok=false and flow through the rest of the pipeline as
// missing data, never as errors.

// Cohort returns the entry year of the row.
func (s StudentRow) Cohort() (int, bool) {
	return s.Cells.Cell(ColEntryYear).AsInt()
}

// Year returns the academic year of the course record.
func (s StudentRow) Year() (int, bool) {
	return s.Cells.Cell(ColYear).AsInt()
}

// Semester returns the academic semester of the course record.
func (s StudentRow) Semester() (int, bool) {
	return s.Cells.Cell(ColSemester).AsInt()
}

// Bimester returns the period within the semester.
func (s StudentRow) Bimester() (int, bool) {
	return s.Cells.Cell(ColBimester).AsInt()
}

// FinalGrade returns the final grade of the course record.
func (s StudentRow) FinalGrade() (float64, bool) {
	return s.Cells.Cell(ColFinalGrade).AsFloat()
}

// FinalStatus returns the final status text, if present.
func (s StudentRow) FinalStatus() (string, bool) {
	return s.Cells.Cell(ColFinalStatus).Normalize()
}

// SubjectCode returns the subject code, if present.
func (s StudentRow) SubjectCode() (string, bool) {
	return s.Cells.Cell(ColSubjectCode).Normalize()
}

// Module returns the module label, if present.
func (s StudentRow) Module() (string, bool) {
	return s.Cells.Cell(ColModule).Normalize()
}

// SubjectName returns the subject name, if present.
func (s StudentRow) SubjectName() (string, bool) {
	return s.Cells.Cell(ColSubjectName).Normalize()
}

// Diagnostico returns the math diagnostic exam score.
func (s StudentRow) Diagnostico() (float64, bool) {
	return s.Cells.Cell(ColDiagnostico).AsFloat()
}

// TipoPrueba returns the uppercased admission-test label.
func (s StudentRow) TipoPrueba() string {
	return strings.ToUpper(s.TipoIngreso)
}

// PuntajeIngreso returns the unified admission score: the PAES reading
// comprehension and M1 average for PAES students, the PDT math and language
// average for PDT students, missing otherwise.
func (s StudentRow) PuntajeIngreso() (float64, bool) {
	switch s.TipoPrueba() {
	case "PAES":
		return s.Cells.Cell(ColPAESPromedio).AsFloat()
	case "PDT":
		return s.Cells.Cell(ColPDTPromedio).AsFloat()
	default:
		return 0, false
	}
}
