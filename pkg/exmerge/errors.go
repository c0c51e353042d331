package exmerge

import (
	"errors"
	"fmt"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/codec"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/store"
)

// ErrNoTemplate indicates a merge was requested before any template was uploaded.
var ErrNoTemplate = errors.New("no template uploaded")

// ErrMissingFile indicates a required uploaded file is absent or empty.
var ErrMissingFile = errors.New("file not provided")

// ErrSheetNotFound indicates a required sheet is absent. Both SheetMissingError
// and SheetNotFoundError match it with errors.Is.
var ErrSheetNotFound = codec.ErrSheetNotFound

// ErrInvalidFormat indicates the input bytes are not an xlsx workbook.
var ErrInvalidFormat = codec.ErrInvalidFormat

// ErrorCode is a machine-readable error category.
type ErrorCode string

const (
	CodeNoTemplate    ErrorCode = "NO_TEMPLATE"
	CodeMissingFile   ErrorCode = "MISSING_FILE"
	CodeDecodeFailed  ErrorCode = "DECODE_FAILED"
	CodeSheetMissing  ErrorCode = "SHEET_MISSING"
	CodeSheetNotFound ErrorCode = "SHEET_NOT_FOUND"
	CodeEncodeFailed  ErrorCode = "ENCODE_FAILED"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// MissingFileError reports which upload field was absent.
type MissingFileError struct {
	Field string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFile, e.Field)
}

func (e *MissingFileError) Unwrap() error {
	return ErrMissingFile
}

// DecodeError reports which input could not be parsed as a workbook.
type DecodeError struct {
	Input string // "template", "file1", "file2"
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot read %s as a workbook: %v", e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SheetMissingError reports an uploaded template that lacks the target sheet.
type SheetMissingError struct {
	Sheet string
}

func (e *SheetMissingError) Error() string {
	return fmt.Sprintf("template must contain %q sheet", e.Sheet)
}

func (e *SheetMissingError) Unwrap() error {
	return ErrSheetNotFound
}

// SheetNotFoundError reports a sheet absent from one of the merge inputs.
type SheetNotFoundError struct {
	Input string
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s has no sheets", e.Input)
	}
	return fmt.Sprintf("sheet %q not found in %s", e.Sheet, e.Input)
}

func (e *SheetNotFoundError) Unwrap() error {
	return ErrSheetNotFound
}

// EncodeError wraps a failure to serialize the merged workbook.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot write merged workbook: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// CodeOf returns the category of err. Unknown errors map to CodeInternal.
func CodeOf(err error) ErrorCode {
	var (
		missingFile   *MissingFileError
		decodeErr     *DecodeError
		sheetMissing  *SheetMissingError
		sheetNotFound *SheetNotFoundError
		encodeErr     *EncodeError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoTemplate), errors.Is(err, store.ErrNotFound):
		return CodeNoTemplate
	case errors.As(err, &missingFile), errors.Is(err, ErrMissingFile):
		return CodeMissingFile
	case errors.As(err, &decodeErr):
		return CodeDecodeFailed
	case errors.As(err, &sheetMissing):
		return CodeSheetMissing
	case errors.As(err, &sheetNotFound):
		return CodeSheetNotFound
	case errors.As(err, &encodeErr):
		return CodeEncodeFailed
	}
	return CodeInternal
}
