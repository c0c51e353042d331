// Package codec reads and writes xlsx workbooks as typed cell grids.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates a sheet lookup did not match any sheet name exactly.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrEmptyWorkbook indicates the workbook has no sheets.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Workbook is a decoded, mutable in-memory workbook. Each Decode call returns an
// independent copy; nothing is shared with the input bytes.
type Workbook struct {
	f *excelize.File

	date1904 *bool
	dateFmts map[int]bool
}

// Decode parses data as an xlsx workbook.
func Decode(data []byte) (*Workbook, error) {
	if err := inspect(data); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &Workbook{f: f, dateFmts: make(map[int]bool)}, nil
}

// New returns an empty workbook with a single sheet named "Sheet1".
func New() *Workbook {
	return &Workbook{f: excelize.NewFile(), dateFmts: make(map[int]bool)}
}

// Encode serializes the workbook to xlsx bytes.
func (w *Workbook) Encode() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases temporary resources held by the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// HasSheet reports whether a sheet named exactly name exists.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Sheet returns the sheet named exactly name. The match is case-sensitive.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return &Sheet{wb: w, name: name}, nil
}

// FirstSheet returns the first sheet in workbook order, whatever its name.
func (w *Workbook) FirstSheet() (*Sheet, error) {
	names := w.f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return &Sheet{wb: w, name: names[0]}, nil
}

func (w *Workbook) uses1904() bool {
	if w.date1904 == nil {
		v := false
		if props, err := w.f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
			v = *props.Date1904
		}
		w.date1904 = &v
	}
	return *w.date1904
}

// isDateStyle reports whether the style index carries a date or time number format.
func (w *Workbook) isDateStyle(styleID int) bool {
	if styleID == 0 {
		return false
	}
	if v, ok := w.dateFmts[styleID]; ok {
		return v
	}
	isDate := false
	if style, err := w.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = isBuiltInDateFormat(style.NumFmt)
		}
	}
	w.dateFmts[styleID] = isDate
	return isDate
}
