package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook saves an excelize file built by fill and returns its bytes.
func buildWorkbook(t *testing.T, fill func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write test workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeSheetNames(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File) {
		f.NewSheet("GA RAW")
		f.NewSheet("Summary")
	})

	wb, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer wb.Close()

	names := wb.SheetNames()
	expected := []string{"Sheet1", "GA RAW", "Summary"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d sheets, got %d (%v)", len(expected), len(names), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Sheet %d: expected %q, got %q", i, expected[i], names[i])
		}
	}

	first, err := wb.FirstSheet()
	if err != nil {
		t.Fatalf("FirstSheet failed: %v", err)
	}
	if first.Name() != "Sheet1" {
		t.Errorf("Expected first sheet 'Sheet1', got %q", first.Name())
	}
}

func TestDecodeInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{"empty", nil, ErrEmptyInput},
		{"plain text", []byte("not a workbook at all"), ErrInvalidFormat},
		{"legacy xls", append(append([]byte{}, oleSignature...), make([]byte, 64)...), ErrInvalidFormat},
	}

	for _, tt := range tests {
		_, err := Decode(tt.input)
		if !errors.Is(err, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, err)
		}
	}
}

func TestSheetLookupIsCaseSensitive(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File) {
		f.NewSheet("GA RAW")
	})
	wb, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer wb.Close()

	if _, err := wb.Sheet("GA RAW"); err != nil {
		t.Errorf("Expected exact match to succeed, got %v", err)
	}
	if _, err := wb.Sheet("ga raw"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound for different case, got %v", err)
	}
}

func TestRowIteratorValues(t *testing.T) {
	day := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	data := buildWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Header1")
		f.SetCellValue("Sheet1", "B1", "Header2")
		f.SetCellValue("Sheet1", "A2", 100)
		f.SetCellValue("Sheet1", "B2", 200.5)
		f.SetCellValue("Sheet1", "C2", true)
		f.SetCellValue("Sheet1", "A4", day)
		f.SetCellValue("Sheet1", "C4", "tail")
	})
	wb, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer wb.Close()
	sheet, _ := wb.Sheet("Sheet1")

	it, err := sheet.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	defer it.Close()

	var rows [][]models.Value
	for it.Next() {
		if it.Index() != len(rows)+1 {
			t.Fatalf("Expected row index %d, got %d", len(rows)+1, it.Index())
		}
		values, err := it.Values()
		if err != nil {
			t.Fatalf("Values failed on row %d: %v", it.Index(), err)
		}
		rows = append(rows, values)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Iteration failed: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if !rows[0][0].Equal(models.Text("Header1")) {
		t.Errorf("Expected 'Header1', got %v (%s)", rows[0][0], rows[0][0].Kind())
	}
	if !rows[1][0].Equal(models.Number(100)) {
		t.Errorf("Expected 100, got %v (%s)", rows[1][0], rows[1][0].Kind())
	}
	if !rows[1][1].Equal(models.Number(200.5)) {
		t.Errorf("Expected 200.5, got %v (%s)", rows[1][1], rows[1][1].Kind())
	}
	if !rows[1][2].Equal(models.Bool(true)) {
		t.Errorf("Expected TRUE, got %v (%s)", rows[1][2], rows[1][2].Kind())
	}
	if len(rows[2]) != 0 {
		t.Errorf("Expected gap row to have no values, got %v", rows[2])
	}
	if got, ok := rows[3][0].AsDateTime(); !ok || !got.Equal(day) {
		t.Errorf("Expected date %v, got %v (%s)", day, rows[3][0], rows[3][0].Kind())
	}
	if !rows[3][1].IsEmpty() {
		t.Errorf("Expected B4 to be empty, got %v", rows[3][1])
	}
}

func TestMaxRowAndBounds(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File) {
		f.NewSheet("Blank")
		f.SetCellValue("Sheet1", "B2", "x")
		f.SetCellValue("Sheet1", "D7", 3)
	})
	wb, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer wb.Close()

	tests := []struct {
		sheet     string
		maxRow    int
		dimension string
	}{
		{"Sheet1", 7, "B2:D7"},
		{"Blank", 0, ""},
	}
	for _, tt := range tests {
		sheet, err := wb.Sheet(tt.sheet)
		if err != nil {
			t.Fatalf("Sheet(%q) failed: %v", tt.sheet, err)
		}
		maxRow, err := sheet.MaxRow()
		if err != nil {
			t.Fatalf("MaxRow(%q) failed: %v", tt.sheet, err)
		}
		if maxRow != tt.maxRow {
			t.Errorf("MaxRow(%q) = %d, expected %d", tt.sheet, maxRow, tt.maxRow)
		}
		b, _ := sheet.Bounds()
		if b.Dimension() != tt.dimension {
			t.Errorf("Dimension(%q) = %q, expected %q", tt.sheet, b.Dimension(), tt.dimension)
		}
	}
}

func TestClearRows(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "old")
		f.SetCellValue("Sheet1", "B1", 1)
		f.SetCellValue("Sheet1", "A2", 2)
		f.SetCellFormula("Sheet1", "B2", "A2*2")
		f.SetCellValue("Sheet1", "A3", "keep")
	})
	wb, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer wb.Close()
	sheet, _ := wb.Sheet("Sheet1")

	if err := sheet.ClearRows(1, 2); err != nil {
		t.Fatalf("ClearRows failed: %v", err)
	}

	for _, cell := range []string{"A1", "B1", "A2", "B2"} {
		v, _ := wb.f.GetCellValue("Sheet1", cell)
		if v != "" {
			t.Errorf("Expected %s to be cleared, got %q", cell, v)
		}
		formula, _ := wb.f.GetCellFormula("Sheet1", cell)
		if formula != "" {
			t.Errorf("Expected %s formula to be cleared, got %q", cell, formula)
		}
	}
	if v, _ := wb.f.GetCellValue("Sheet1", "A3"); v != "keep" {
		t.Errorf("Expected A3 untouched, got %q", v)
	}
	maxRow, _ := sheet.MaxRow()
	if maxRow != 3 {
		t.Errorf("Expected MaxRow 3 after partial clear, got %d", maxRow)
	}
}

func TestClearRemovesUncachedFormulas(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "old")
		f.SetCellFormula("Sheet1", "C9", "1+1")
	})
	wb, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer wb.Close()
	sheet, _ := wb.Sheet("Sheet1")

	if maxRow, _ := sheet.MaxRow(); maxRow != 1 {
		t.Errorf("Expected MaxRow 1 (formula has no value), got %d", maxRow)
	}
	if err := sheet.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for _, cell := range []string{"A1", "C9"} {
		formula, _ := wb.f.GetCellFormula("Sheet1", cell)
		v, _ := wb.f.GetCellValue("Sheet1", cell)
		if formula != "" || v != "" {
			t.Errorf("Expected %s to be cleared, got value %q formula %q", cell, v, formula)
		}
	}
}

func TestSetCell(t *testing.T) {
	wb := New()
	defer wb.Close()
	sheet, _ := wb.Sheet("Sheet1")

	tests := []struct {
		row, col int
		value    models.Value
		cell     string
		expected string
	}{
		{1, 1, models.Text("name"), "A1", "name"},
		{2, 3, models.Number(12.5), "C2", "12.5"},
		{3, 2, models.Bool(true), "B3", "TRUE"},
	}
	for _, tt := range tests {
		if err := sheet.SetCell(tt.row, tt.col, tt.value); err != nil {
			t.Fatalf("SetCell(%d, %d) failed: %v", tt.row, tt.col, err)
		}
		if v, _ := wb.f.GetCellValue("Sheet1", tt.cell); v != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.cell, tt.expected, v)
		}
	}

	if err := sheet.SetCell(1, 1, models.Empty()); err != nil {
		t.Fatalf("SetCell(empty) failed: %v", err)
	}
	if v, _ := wb.f.GetCellValue("Sheet1", "A1"); v != "" {
		t.Errorf("Expected A1 cleared by empty value, got %q", v)
	}
	if err := sheet.SetCell(0, 1, models.Text("x")); err == nil {
		t.Error("Expected error for row 0")
	}
}

func TestSetRowRoundTrip(t *testing.T) {
	wb := New()
	defer wb.Close()
	sheet, _ := wb.Sheet("Sheet1")

	row := []models.Value{models.Text("a"), models.Empty(), models.Number(3), models.Number(2.25), models.Bool(false)}
	if err := sheet.SetRow(2, row); err != nil {
		t.Fatalf("SetRow failed: %v", err)
	}
	data, err := wb.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer decoded.Close()
	s, _ := decoded.Sheet("Sheet1")
	it, err := s.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	defer it.Close()

	var got []models.Value
	for it.Next() {
		if it.Index() == 2 {
			got, err = it.Values()
			if err != nil {
				t.Fatalf("Values failed: %v", err)
			}
		}
	}
	if len(got) != len(row) {
		t.Fatalf("Expected %d values, got %d (%v)", len(row), len(got), got)
	}
	for i := range row {
		if !got[i].Equal(row[i]) {
			t.Errorf("Column %d: expected %v (%s), got %v (%s)", i+1, row[i], row[i].Kind(), got[i], got[i].Kind())
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"123", 123, true},
		{"123.45", 123.45, true},
		{"-100", -100, true},
		{"1E-3", 0.001, true},
		{"hello", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		result, ok := parseNumber(tt.input)
		if ok != tt.ok || result != tt.expected {
			t.Errorf("parseNumber(%q) = %v, %v, expected %v, %v",
				tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"yyyy-mm-dd", true},
		{"hh:mm:ss", true},
		{"0.00", false},
		{"#,##0", false},
		{`"day" 0`, false},
		{"[Red]0.00", false},
		{"[$-409]d-mmm-yy", true},
		{`0\d`, false},
	}

	for _, tt := range tests {
		if result := isDateFormatCode(tt.code); result != tt.expected {
			t.Errorf("isDateFormatCode(%q) = %v, expected %v", tt.code, result, tt.expected)
		}
	}
}
