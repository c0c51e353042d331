package codec

import (
	"fmt"
	"math"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/xuri/excelize/v2"
)

// Sheet is a named worksheet of a decoded Workbook. Rows and columns are 1-based.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Rows returns a lazy iterator over the sheet rows. The caller must Close it.
func (s *Sheet) Rows() (*RowIterator, error) {
	rows, err := s.wb.f.Rows(s.name)
	if err != nil {
		return nil, err
	}
	return &RowIterator{sheet: s, rows: rows}, nil
}

// MaxRow returns the highest row index holding a non-empty cell, or 0 for a blank sheet.
func (s *Sheet) MaxRow() (int, error) {
	b, err := s.Bounds()
	if err != nil {
		return 0, err
	}
	return b.MaxRow, nil
}

// SetCell writes one value. An empty value clears the cell's content.
func (s *Sheet) SetCell(row, col int, v models.Value) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.wb.f.SetCellValue(s.name, cell, v.Interface())
}

// SetRow writes values into row starting at column 1. Empty values are written
// as empty cells so column alignment is kept.
func (s *Sheet) SetRow(row int, values []models.Value) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v.Interface()
	}
	return s.wb.f.SetSheetRow(s.name, cell, &out)
}

// Clear erases every cell value and formula of the sheet, including cells
// past the last row holding a value.
func (s *Sheet) Clear() error {
	return s.ClearRows(1, math.MaxInt)
}

// ClearRows erases cell values and formulas in rows from..to (inclusive).
// Rows are emptied in place rather than deleted, so references from other
// sheets keep pointing at the same addresses.
func (s *Sheet) ClearRows(from, to int) error {
	if from < 1 {
		from = 1
	}
	if to < from {
		return nil
	}

	it, err := s.Rows()
	if err != nil {
		return err
	}
	var cells []string
	for it.Next() {
		row := it.Index()
		if row < from {
			continue
		}
		if row > to {
			break
		}
		for colIdx := range it.Raw() {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				it.Close()
				return err
			}
			cells = append(cells, cell)
		}
	}
	if err := it.Err(); err != nil {
		it.Close()
		return err
	}
	if err := it.Close(); err != nil {
		return err
	}

	for _, cell := range cells {
		formula, err := s.wb.f.GetCellFormula(s.name, cell)
		if err != nil {
			return fmt.Errorf("clear %s!%s: %w", s.name, cell, err)
		}
		if formula != "" {
			if err := s.wb.f.SetCellFormula(s.name, cell, ""); err != nil {
				return fmt.Errorf("clear %s!%s: %w", s.name, cell, err)
			}
		}
		if err := s.wb.f.SetCellValue(s.name, cell, nil); err != nil {
			return fmt.Errorf("clear %s!%s: %w", s.name, cell, err)
		}
	}
	return nil
}
