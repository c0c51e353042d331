package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/xuri/excelize/v2"
)

var rawValues = excelize.Options{RawCellValue: true}

// RowIterator walks a sheet row by row without loading the whole grid.
// Gaps between rows are yielded as rows with no values.
type RowIterator struct {
	sheet *Sheet
	rows  *excelize.Rows
	index int
	raw   []string
	err   error
}

// Next advances to the next row. It returns false when the sheet is exhausted
// or reading failed; check Err afterwards.
func (it *RowIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}
	it.index++
	it.raw, it.err = it.rows.Columns(rawValues)
	return it.err == nil
}

// Index returns the 1-based index of the current row.
func (it *RowIterator) Index() int {
	return it.index
}

// Raw returns the current row's unformatted cell strings.
func (it *RowIterator) Raw() []string {
	return it.raw
}

// Values returns the current row's typed cell values, starting at column 1.
// Trailing cells missing from the file are simply absent.
func (it *RowIterator) Values() ([]models.Value, error) {
	values := make([]models.Value, len(it.raw))
	for colIdx, raw := range it.raw {
		if raw == "" {
			continue
		}
		v, err := it.sheet.typedValue(colIdx+1, it.index, raw)
		if err != nil {
			return nil, err
		}
		values[colIdx] = v
	}
	return values, nil
}

// Err returns the first error met while iterating.
func (it *RowIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Error()
}

// Close releases the iterator.
func (it *RowIterator) Close() error {
	return it.rows.Close()
}

// typedValue resolves the variant of a non-empty cell from its stored type and number format.
func (s *Sheet) typedValue(col, row int, raw string) (models.Value, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Value{}, err
	}
	cellType, err := s.wb.f.GetCellType(s.name, cell)
	if err != nil {
		return models.Value{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return models.DateTime(t), nil
		}
		return models.Text(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return models.Text(raw), nil
	}

	f, ok := parseNumber(raw)
	if !ok {
		return models.Text(raw), nil
	}
	styleID, err := s.wb.f.GetCellStyle(s.name, cell)
	if err == nil && s.wb.isDateStyle(styleID) {
		if t, err := excelize.ExcelDateToTime(f, s.wb.uses1904()); err == nil {
			return models.DateTime(t), nil
		}
	}
	return models.Number(f), nil
}

// parseNumber parses a raw numeric cell value.
func parseNumber(s string) (float64, bool) {
	// Integers first so large whole numbers keep every digit.
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isBuiltInDateFormat reports whether a built-in number format id renders dates or times.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or time tokens
// outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\':
			i++
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			switch c {
			case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
				return true
			}
		}
	}
	return false
}
