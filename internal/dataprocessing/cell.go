package dataprocessing

import (
	"strconv"
	"strings"
)

// CellKind discriminates the three shapes a spreadsheet cell can take.
type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is a single spreadsheet cell. Source files mix numbers, free text and
// missing markers in the same column, so every access goes through a total,
// explicit normalization instead of runtime type inspection.
type Cell struct {
	kind   CellKind
	number float64
	text   string
}

// Missing returns the missing-cell sentinel.
func Missing() Cell {
	return Cell{kind: CellMissing}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{kind: CellText, text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{kind: CellNumber, number: f}
}

// Kind returns the cell's discriminator.
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsMissing reports whether the cell carries no value at all.
func (c Cell) IsMissing() bool {
	return c.kind == CellMissing
}

// Normalize returns the trimmed string form of the cell. Missing cells and
// cells that are blank after trimming report ok=false. Numbers are rendered
// with the shortest exact representation so that equal values always produce
// equal key fragments.
func (c Cell) Normalize() (string, bool) {
	switch c.kind {
	case CellMissing:
		return "", false
	case CellNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64), true
	default:
		trimmed := strings.TrimSpace(c.text)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	}
}

// IsBlank reports whether the cell is missing or blank after trimming.
func (c Cell) IsBlank() bool {
	_, ok := c.Normalize()
	return !ok
}

// AsFloat converts the cell to a float tolerantly: numbers pass through,
// text is parsed after trimming, everything else reports ok=false.
func (c Cell) AsFloat() (float64, bool) {
	switch c.kind {
	case CellNumber:
		return c.number, true
	case CellText:
		trimmed := strings.TrimSpace(c.text)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt converts the cell to an int tolerantly, accepting values that arrive
// as text or as floats ("1", 1.0, "2022"). Non-castable values report
// ok=false and propagate as missing data.
func (c Cell) AsInt() (int, bool) {
	f, ok := c.AsFloat()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// CleanNumeric converts score-like cells for the base entity tables. The
// source files use 0 and "0.0" as absent-score markers and decimal commas in
// some exports, so those are nulled out and commas mapped to dots before
// parsing.
func (c Cell) CleanNumeric() (float64, bool) {
	switch c.kind {
	case CellMissing:
		return 0, false
	case CellNumber:
		if c.number == 0 {
			return 0, false
		}
		return c.number, true
	default:
		if c.text == "" || c.text == "0" || c.text == "0.0" {
			return 0, false
		}
		normalized := strings.ReplaceAll(c.text, ",", ".")
		f, err := strconv.ParseFloat(strings.TrimSpace(normalized), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

// String renders the cell for exports; missing cells render empty.
func (c Cell) String() string {
	switch c.kind {
	case CellMissing:
		return ""
	case CellNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	default:
		return c.text
	}
}
