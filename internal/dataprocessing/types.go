package dataprocessing

// Row is one raw input row: an ordered sequence of cells in the fixed
// column layout. Access is bounds-safe because CSV readers drop trailing
// empty columns.
type Row []Cell

// Cell returns the cell at the given index, or the missing sentinel when the
// row is shorter than the layout.
func (r Row) Cell(index int) Cell {
	if index < 0 || index >= len(r) {
		return Missing()
	}
	return r[index]
}

// HasData reports whether any cell in the inclusive column range carries
// non-blank content.
func (r Row) HasData(start, end int) bool {
	for i := start; i <= end; i++ {
		if !r.Cell(i).IsBlank() {
			return true
		}
	}
	return false
}

// Group is the admission-test group a row is classified into.
type Group string

const (
	GroupNone Group = "none"
	GroupPDT  Group = "pdt"
	GroupPAES Group = "paes"
)

// GroupOrder is the fixed sort priority of classification groups.
var GroupOrder = []Group{GroupNone, GroupPDT, GroupPAES}

// ClassifiedRow is a raw row tagged with its test-type group. originalIndex
// preserves the input position so later stable sorts keep same-group rows in
// input order.
type ClassifiedRow struct {
	Cells Row
	Group Group

	originalIndex int
}

// StudentRow is a classified row with its resolved student identity and the
// derived admission-test label.
type StudentRow struct {
	Cells Row

	// StudentID is the sequential identity assigned by the resolver,
	// starting at 1. Zero means the row could not be keyed.
	StudentID int

	// NoScores marks rows whose score cells were all blank.
	NoScores bool

	// TipoIngreso is the derived admission-test label: PAES, PDT or empty.
	TipoIngreso string

	Group Group

	originalIndex int
}

// FilterSummary describes the course filter stage.
type FilterSummary struct {
	TotalRows     int `json:"total_rows"`
	RemovedRows   int `json:"removed_rows"`
	RemainingRows int `json:"remaining_rows"`
}

// ClassifySummary describes the classification stage.
type ClassifySummary struct {
	TotalRows     int           `json:"total_rows"`
	ProcessedRows int           `json:"processed_rows"`
	IgnoredRows   int           `json:"ignored_rows"`
	GroupCounts   map[Group]int `json:"group_counts"`
}

// ResolveSummary describes the identity resolution stage.
type ResolveSummary struct {
	TotalRows     int `json:"total_rows"`
	WithScores    int `json:"with_scores"`
	WithoutScores int `json:"without_scores"`
	NumStudents   int `json:"num_students"`
}
