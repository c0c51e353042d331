package models

// MergeResult is the output of a merge.
type MergeResult struct {
	// Data is the encoded result workbook.
	Data []byte `json:"-"`
	// FileName is the suggested download name.
	FileName string `json:"filename,omitempty"`
	// RowsFromSource1 is the row count taken from the first data file.
	RowsFromSource1 int `json:"rows_file1"`
	// RowsFromSource2 is the row count taken from the second data file.
	RowsFromSource2 int `json:"rows_file2"`
}

// TotalRows returns the number of rows written into the target sheet.
func (r MergeResult) TotalRows() int {
	return r.RowsFromSource1 + r.RowsFromSource2
}
