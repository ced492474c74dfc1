package dataprocessing

// testRow builds a raw 25-column row with the given cells set by column
// index; everything else is missing.
func testRow(cells map[int]string) Row {
	row := make(Row, RawColumnCount)
	for i := range row {
		row[i] = Missing()
	}
	for col, value := range cells {
		row[col] = Text(value)
	}
	return row
}

// withHeaderRows prepends the two header rows the raw files carry before the
// first data row.
func withHeaderRows(rows ...Row) []Row {
	headers := []Row{
		testRow(map[int]string{ColSubjectName: "nombre_asignatura"}),
		testRow(map[int]string{}),
	}
	return append(headers, rows...)
}

// classify runs the classifier directly on data rows, compensating for the
// header-row skip.
func classify(rows ...Row) ([]ClassifiedRow, ClassifySummary) {
	return ClassifyRows(withHeaderRows(rows...))
}
