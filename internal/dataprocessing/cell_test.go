package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellNormalize(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected string
		ok       bool
	}{
		{"missing", Missing(), "", false},
		{"blank text", Text("   "), "", false},
		{"empty text", Text(""), "", false},
		{"trimmed text", Text("  hola  "), "hola", true},
		{"number", Number(737), "737", true},
		{"fractional number", Number(5.5), "5.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Normalize()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCellAsInt(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected int
		ok       bool
	}{
		{"text int", Text("2022"), 2022, true},
		{"text float", Text("1.0"), 1, true},
		{"number", Number(3), 3, true},
		{"padded text", Text(" 2 "), 2, true},
		{"garbage", Text("N/A"), 0, false},
		{"missing", Missing(), 0, false},
		{"blank", Text(""), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.AsInt()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCellAsFloat(t *testing.T) {
	got, ok := Text("4.5").AsFloat()
	assert.True(t, ok)
	assert.InDelta(t, 4.5, got, 1e-9)

	_, ok = Text("cuatro").AsFloat()
	assert.False(t, ok)
}

func TestCellCleanNumeric(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected float64
		ok       bool
	}{
		{"regular score", Text("612.5"), 612.5, true},
		{"decimal comma", Text("612,5"), 612.5, true},
		{"zero text marker", Text("0"), 0, false},
		{"zero float marker", Text("0.0"), 0, false},
		{"zero number marker", Number(0), 0, false},
		{"empty", Text(""), 0, false},
		{"missing", Missing(), 0, false},
		{"nonzero number", Number(701), 701, true},
		{"garbage", Text("s/i"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.CleanNumeric()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestColumnLetterToIndex(t *testing.T) {
	assert.Equal(t, 0, ColumnLetterToIndex("A"))
	assert.Equal(t, 9, ColumnLetterToIndex("J"))
	assert.Equal(t, 16, ColumnLetterToIndex("Q"))
	assert.Equal(t, 23, ColumnLetterToIndex("x"))
	assert.Equal(t, 26, ColumnLetterToIndex("AA"))
}

func TestParseColumnRange(t *testing.T) {
	start, end, err := ParseColumnRange(RangePAES)
	assert.NoError(t, err)
	assert.Equal(t, 9, start)
	assert.Equal(t, 16, end)

	// reversed ranges are normalized
	start, end, err = ParseColumnRange("Q:J")
	assert.NoError(t, err)
	assert.Equal(t, 9, start)
	assert.Equal(t, 16, end)

	_, _, err = ParseColumnRange("JQ")
	assert.Error(t, err)
}
