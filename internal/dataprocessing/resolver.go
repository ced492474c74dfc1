package dataprocessing

import (
	"sort"
	"strings"
)

// Separator and null marker for composite student keys. The unit separator
// cannot appear in trimmed cell text, so joined keys are unambiguous.
const (
	keySeparator = "\x1f"
	keyNull      = "\x00"
)

// studentKey builds the composite identity key of a row: the normalized cell
// values across the PAES range then the PDT range, in column order. A key
// whose values are all null is the no-identity sentinel, reported as ok=false.
func studentKey(row Row, paesStart, paesEnd, pdtStart, pdtEnd int) (string, bool) {
	parts := make([]string, 0, (paesEnd-paesStart+1)+(pdtEnd-pdtStart+1))
	allNull := true

	appendRange := func(start, end int) {
		for i := start; i <= end; i++ {
			value, ok := row.Cell(i).Normalize()
			if !ok {
				parts = append(parts, keyNull)
				continue
			}
			allNull = false
			parts = append(parts, value)
		}
	}
	appendRange(paesStart, paesEnd)
	appendRange(pdtStart, pdtEnd)

	if allNull {
		return "", false
	}
	return strings.Join(parts, keySeparator), true
}

// tipoIngreso derives the admission-test label of a row: PAES if the PAES
// range has any non-blank cell, else PDT, else empty.
func tipoIngreso(row Row, paesStart, paesEnd, pdtStart, pdtEnd int) string {
	if row.HasData(paesStart, paesEnd) {
		return "PAES"
	}
	if row.HasData(pdtStart, pdtEnd) {
		return "PDT"
	}
	return ""
}

// ResolveIdentities assigns a stable sequential student id to every row with
// score data, reusing the id of previously seen identical keys. Ids start at
// 1 and grow monotonically in order of first appearance, so re-running the
// resolver on the same input yields identical assignments. Rows with no
// score data get no id and sort after all identified rows.
func ResolveIdentities(rows []ClassifiedRow) ([]StudentRow, ResolveSummary) {
	paesStart, paesEnd := mustParseColumnRange(RangePAES)
	pdtStart, pdtEnd := mustParseColumnRange(RangePDT)

	keyToID := make(map[string]int)
	nextID := 1

	resolved := make([]StudentRow, 0, len(rows))
	withoutScores := 0

	for i, row := range rows {
		sr := StudentRow{
			Cells:         row.Cells,
			Group:         row.Group,
			TipoIngreso:   tipoIngreso(row.Cells, paesStart, paesEnd, pdtStart, pdtEnd),
			originalIndex: i,
		}

		key, ok := studentKey(row.Cells, paesStart, paesEnd, pdtStart, pdtEnd)
		if !ok {
			sr.NoScores = true
			withoutScores++
		} else if id, seen := keyToID[key]; seen {
			sr.StudentID = id
		} else {
			keyToID[key] = nextID
			sr.StudentID = nextID
			nextID++
		}

		resolved = append(resolved, sr)
	}

	// Identified rows first, ascending by id; no-score rows last. Input
	// order breaks ties, which the stable sort preserves for free.
	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].NoScores != resolved[j].NoScores {
			return !resolved[i].NoScores
		}
		return resolved[i].StudentID < resolved[j].StudentID
	})

	return resolved, ResolveSummary{
		TotalRows:     len(rows),
		WithScores:    len(rows) - withoutScores,
		WithoutScores: withoutScores,
		NumStudents:   len(keyToID),
	}
}
