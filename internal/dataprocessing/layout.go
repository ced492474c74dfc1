package dataprocessing

import (
	"fmt"
	"strings"
)

// The input files carry a fixed column layout with no header contract: access
// is positional, by spreadsheet letter. Data rows start at sheet row 3; the
// two rows above are headers.
const (
	DataStartRow = 3

	// RangePAES and RangePDT are the two disjoint admission-test score
	// ranges the classifier and the identity resolver key on.
	RangePAES = "J:Q"
	RangePDT  = "R:X"
)

// Column indices of the raw 25-column layout (A..Y, zero-based).
const (
	ColYear        = 0  // A: anio academico
	ColSemester    = 1  // B: semestre
	ColBimester    = 2  // C: bimestre
	ColSubjectCode = 3  // D: codigo_asignatura
	ColModule      = 4  // E: modulo
	ColSubjectName = 5  // F: nombre_asignatura
	ColFinalGrade  = 6  // G: nota_final
	ColFinalStatus = 7  // H: estado_final
	ColDiagnostico = 8  // I: diagnostico_matematica
	ColPAESStart   = 9  // J
	ColPAESEnd     = 16 // Q: paes_promedio_m1_comprension_lectora
	ColPDTStart    = 17 // R
	ColPDTEnd      = 23 // X: pdt_promedio_matematicas_lenguaje
	ColEntryYear   = 24 // Y: anio_ingreso

	RawColumnCount = 25
)

// Offsets of individual PAES/PDT score columns within the raw layout.
const (
	ColPAESComprension = 9
	ColPAESM1          = 10
	ColPAESM2          = 11
	ColPAESHistoria    = 12
	ColPAESCiencias    = 13
	ColPAESNEM         = 14
	ColPAESRanking     = 15
	ColPAESPromedio    = 16

	ColPDTLenguaje    = 17
	ColPDTMatematicas = 18
	ColPDTHistoria    = 19
	ColPDTCiencias    = 20
	ColPDTNEM         = 21
	ColPDTRanking     = 22
	ColPDTPromedio    = 23
)

// ResolvedHeaders names the columns of the resolved dataset: the assigned
// student id first, the raw columns, then the derived tipo_ingreso label.
var ResolvedHeaders = []string{
	"id_alumno", "año", "semestre", "bimestre", "codigo_asignatura", "modulo",
	"nombre_asignatura", "nota_final", "estado_final", "diagnostico_matematica",
	"paes_comprension_lectora", "paes_m1", "paes_m2", "paes_historia", "paes_ciencias",
	"paes_nem", "paes_ranking", "paes_promedio_m1_comprension_lectora",
	"pdt_lenguaje", "pdt_matematicas", "pdt_historia", "pdt_ciencias",
	"pdt_nem", "pdt_ranking", "pdt_promedio_matematicas_lenguaje",
	"año_ingreso", "tipo_ingreso",
}

// ColumnLetterToIndex converts a spreadsheet column letter ("A", "J", "AA")
// to its zero-based index.
func ColumnLetterToIndex(letter string) int {
	text := strings.ToUpper(strings.TrimSpace(letter))
	value := 0
	for _, ch := range text {
		value = value*26 + int(ch-'A'+1)
	}
	return value - 1
}

// ParseColumnRange parses a "J:Q" style range into inclusive zero-based
// start and end indices.
func ParseColumnRange(rangeText string) (int, int, error) {
	parts := strings.Split(rangeText, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid column range %q", rangeText)
	}
	start := ColumnLetterToIndex(parts[0])
	end := ColumnLetterToIndex(parts[1])
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}

// mustParseColumnRange is for the fixed package-level ranges, which are known
// to be well formed.
func mustParseColumnRange(rangeText string) (int, int) {
	start, end, err := ParseColumnRange(rangeText)
	if err != nil {
		panic(err)
	}
	return start, end
}
