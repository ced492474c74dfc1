package dataprocessing

import "strings"

// remedialCourses is the fixed denylist of remedial math course names removed
// before classification. The cohort analysis only covers the calculus track.
var remedialCourses = map[string]struct{}{
	"INTRODUCCIÓN AL ÁLGEBRA":           {},
	"ÁLGEBRA":                           {},
	"MATEMÁTICA PARA LA COMPUTACIÓN I":  {},
	"MATEMÁTICA PARA LA COMPUTACIÓN II": {},
}

// FilterCourses removes rows whose subject-name cell matches the remedial
// course denylist. Matching is exact on the trimmed cell text.
func FilterCourses(rows []Row) ([]Row, FilterSummary) {
	kept := make([]Row, 0, len(rows))
	removed := 0

	for _, row := range rows {
		name := strings.TrimSpace(row.Cell(ColSubjectName).String())
		if _, denied := remedialCourses[name]; denied {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	return kept, FilterSummary{
		TotalRows:     len(rows),
		RemovedRows:   removed,
		RemainingRows: len(kept),
	}
}
