package codec

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidFormat indicates the input is not a valid xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrEmptyInput indicates the input has no bytes at all.
var ErrEmptyInput = errors.New("empty input")

// oleSignature starts legacy .xls files and password-protected xlsx files.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// inspect checks the OOXML container before handing the bytes to excelize so
// that callers get a specific reason instead of a generic zip error.
func inspect(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if bytes.HasPrefix(data, oleSignature) {
		return fmt.Errorf("%w: legacy .xls or encrypted workbook", ErrInvalidFormat)
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	workbookPath := "xl/workbook.xml"
	if rels, err := readZipFile(r, "_rels/.rels"); err == nil && rels != nil {
		if target := findOfficeDocument(rels); target != "" {
			workbookPath = strings.TrimPrefix(target, "/")
		}
	}
	workbookXML, err := readZipFile(r, workbookPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if workbookXML == nil {
		return fmt.Errorf("%w: missing %s", ErrInvalidFormat, workbookPath)
	}
	if len(parseWorkbookSheets(workbookXML)) == 0 {
		return ErrEmptyWorkbook
	}
	return nil
}

// readZipFile returns the named entry, or nil when the archive has no such entry.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// parseWorkbookSheets returns the sheet names declared in workbook.xml, in order.
func parseWorkbookSheets(data []byte) []string {
	var names []string
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			for _, attr := range se.Attr {
				if attr.Name.Local == "name" && attr.Value != "" {
					names = append(names, attr.Value)
				}
			}
		}
	}

	return names
}

// findOfficeDocument returns the workbook part named by the package relationships.
func findOfficeDocument(data []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if strings.HasSuffix(relType, "/officeDocument") {
				return target
			}
		}
	}

	return ""
}
