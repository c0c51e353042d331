package exmerge

import (
	"context"
	"fmt"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/codec"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

// cancelCheckRows is how often row copying looks at the context.
const cancelCheckRows = 512

// Merge replaces the contents of targetSheet in the template with the rows of
// the first sheet of source1 followed by the rows of the first sheet of source2.
func Merge(templateData, source1, source2 []byte, targetSheet string) (*models.MergeResult, error) {
	return MergeContext(context.Background(), templateData, source1, source2, targetSheet)
}

// MergeContext is Merge with cancellation. The inputs are never modified; the
// template is decoded into a private copy.
func MergeContext(ctx context.Context, templateData, source1, source2 []byte, targetSheet string) (*models.MergeResult, error) {
	tpl, err := decodeInput("template", templateData)
	if err != nil {
		return nil, err
	}
	defer tpl.Close()

	wb1, err := decodeInput("file1", source1)
	if err != nil {
		return nil, err
	}
	defer wb1.Close()

	wb2, err := decodeInput("file2", source2)
	if err != nil {
		return nil, err
	}
	defer wb2.Close()

	target, err := tpl.Sheet(targetSheet)
	if err != nil {
		return nil, &SheetNotFoundError{Input: "template", Sheet: targetSheet}
	}

	// Source sheets are taken by position; their names are ignored.
	src1, rows1, err := firstSheetRows("file1", wb1)
	if err != nil {
		return nil, err
	}
	src2, rows2, err := firstSheetRows("file2", wb2)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Formula cells without a cached value hold no value but must go too.
	if err := target.Clear(); err != nil {
		return nil, fmt.Errorf("clear sheet %q: %w", targetSheet, err)
	}

	if err := copyRows(ctx, "file1", src1, target, 0, rows1); err != nil {
		return nil, err
	}
	if err := copyRows(ctx, "file2", src2, target, rows1, rows2); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := tpl.Encode()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}

	return &models.MergeResult{
		Data:            data,
		RowsFromSource1: rows1,
		RowsFromSource2: rows2,
	}, nil
}

func decodeInput(input string, data []byte) (*codec.Workbook, error) {
	wb, err := codec.Decode(data)
	if err != nil {
		return nil, &DecodeError{Input: input, Err: err}
	}
	return wb, nil
}

// firstSheetRows returns the first sheet of wb and its highest non-empty row.
func firstSheetRows(input string, wb *codec.Workbook) (*codec.Sheet, int, error) {
	sheet, err := wb.FirstSheet()
	if err != nil {
		return nil, 0, &SheetNotFoundError{Input: input}
	}
	rows, err := sheet.MaxRow()
	if err != nil {
		return nil, 0, &DecodeError{Input: input, Err: err}
	}
	return sheet, rows, nil
}

// copyRows writes rows 1..limit of src into dst at offset+row, column for column.
func copyRows(ctx context.Context, input string, src, dst *codec.Sheet, offset, limit int) error {
	if limit == 0 {
		return nil
	}
	it, err := src.Rows()
	if err != nil {
		return &DecodeError{Input: input, Err: err}
	}
	defer it.Close()

	for it.Next() {
		row := it.Index()
		if row > limit {
			break
		}
		if row%cancelCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		values, err := it.Values()
		if err != nil {
			return &DecodeError{Input: input, Err: err}
		}
		if err := dst.SetRow(offset+row, values); err != nil {
			return fmt.Errorf("write row %d from %s: %w", offset+row, input, err)
		}
	}
	if err := it.Err(); err != nil {
		return &DecodeError{Input: input, Err: err}
	}
	return nil
}
