package models

// SheetSummary describes one sheet of a workbook.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// MaxRow is the highest row index holding a non-empty cell (0 when the sheet is blank).
	MaxRow int `json:"max_row"`
	// Dimension is the used range (e.g., "A1:D10"), empty for blank sheets.
	Dimension string `json:"dimension,omitempty"`
}
