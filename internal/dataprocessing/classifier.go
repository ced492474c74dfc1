package dataprocessing

import "sort"

// classifyRow tags a single row by which admission-test score range carries
// data. PAES is checked before PDT here; the resolver's tipo_ingreso label
// uses its own derivation (see resolver.go).
func classifyRow(row Row, paesStart, paesEnd, pdtStart, pdtEnd int) Group {
	if row.HasData(paesStart, paesEnd) {
		return GroupPAES
	}
	if row.HasData(pdtStart, pdtEnd) {
		return GroupPDT
	}
	return GroupNone
}

// ClassifyRows tags every data row with its test-type group and stably
// reorders the result by the fixed group priority (none < pdt < paes).
// Rows above DataStartRow are header rows and are dropped.
func ClassifyRows(rows []Row) ([]ClassifiedRow, ClassifySummary) {
	paesStart, paesEnd := mustParseColumnRange(RangePAES)
	pdtStart, pdtEnd := mustParseColumnRange(RangePDT)

	startIndex := DataStartRow - 1
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > len(rows) {
		startIndex = len(rows)
	}
	dataRows := rows[startIndex:]

	counts := make(map[Group]int, len(GroupOrder))
	for _, g := range GroupOrder {
		counts[g] = 0
	}

	classified := make([]ClassifiedRow, 0, len(dataRows))
	for i, row := range dataRows {
		group := classifyRow(row, paesStart, paesEnd, pdtStart, pdtEnd)
		counts[group]++
		classified = append(classified, ClassifiedRow{
			Cells:         row,
			Group:         group,
			originalIndex: i,
		})
	}

	priority := make(map[Group]int, len(GroupOrder))
	for i, g := range GroupOrder {
		priority[g] = i
	}

	// Stable sort: two same-group rows have no defined order beyond their
	// input order.
	sort.SliceStable(classified, func(i, j int) bool {
		return priority[classified[i].Group] < priority[classified[j].Group]
	})

	return classified, ClassifySummary{
		TotalRows:     len(rows),
		ProcessedRows: len(dataRows),
		IgnoredRows:   len(rows) - len(dataRows),
		GroupCounts:   counts,
	}
}
