package exmerge

import (
	"github.com/ukaji3/exmerge-go/pkg/exmerge/codec"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

// Summarize lists the sheets of a workbook with their used ranges.
func Summarize(bookName string, data []byte) (*models.WorkbookSummary, error) {
	wb, err := codec.Decode(data)
	if err != nil {
		return nil, &DecodeError{Input: bookName, Err: err}
	}
	defer wb.Close()

	summary := &models.WorkbookSummary{
		BookName: bookName,
		Sheets:   []models.SheetSummary{},
	}
	for _, sheetName := range wb.SheetNames() {
		sheet, err := wb.Sheet(sheetName)
		if err != nil {
			return nil, err
		}
		bounds, err := sheet.Bounds()
		if err != nil {
			return nil, &DecodeError{Input: bookName, Err: err}
		}
		summary.Sheets = append(summary.Sheets, models.SheetSummary{
			Name:      sheetName,
			MaxRow:    bounds.MaxRow,
			Dimension: bounds.Dimension(),
		})
	}

	return summary, nil
}
