package codec

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Bounds is the bounding box of the non-empty cells of a sheet (1-based, inclusive).
// All fields are zero for a blank sheet.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Empty reports whether the sheet has no non-empty cell.
func (b Bounds) Empty() bool {
	return b.MaxRow == 0
}

// Dimension returns the bounds in range notation (e.g., "A1:D10"), or "" when empty.
func (b Bounds) Dimension() string {
	if b.Empty() {
		return ""
	}
	startCell, _ := excelize.CoordinatesToCellName(b.MinCol, b.MinRow)
	endCell, _ := excelize.CoordinatesToCellName(b.MaxCol, b.MaxRow)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// Bounds scans the sheet and returns the bounding box of its non-empty cells.
func (s *Sheet) Bounds() (Bounds, error) {
	it, err := s.Rows()
	if err != nil {
		return Bounds{}, err
	}
	defer it.Close()

	var b Bounds
	for it.Next() {
		extendBounds(&b, it.Index(), it.Raw())
	}
	if err := it.Err(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// extendBounds grows b to cover the non-empty cells of one row.
func extendBounds(b *Bounds, row int, cells []string) {
	for colIdx, cell := range cells {
		if cell == "" {
			continue
		}
		col := colIdx + 1
		if b.MinRow == 0 || row < b.MinRow {
			b.MinRow = row
		}
		if row > b.MaxRow {
			b.MaxRow = row
		}
		if b.MinCol == 0 || col < b.MinCol {
			b.MinCol = col
		}
		if col > b.MaxCol {
			b.MaxCol = col
		}
	}
}
