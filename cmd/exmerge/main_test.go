package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/xuri/excelize/v2"
)

func writeBook(t *testing.T, dir, name, sheet string, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("SetSheetName failed: %v", err)
		}
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	tpl := writeBook(t, dir, "template.xlsx", "GA RAW")
	a := writeBook(t, dir, "a.xlsx", "Sheet1", []interface{}{"h1", "h2"}, []interface{}{1, 2})
	b := writeBook(t, dir, "b.xlsx", "Sheet1", []interface{}{3, 4})
	out := filepath.Join(dir, "out.xlsx")

	cmd := newMergeCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--template", tpl, "-o", out, a, b})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("merge command failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "2 rows from") || !strings.Contains(stdout.String(), "1 rows from") {
		t.Errorf("Unexpected output: %q", stdout.String())
	}
	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("Failed to open merged file: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("GA RAW")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 || rows[2][0] != "3" {
		t.Errorf("Unexpected merged rows: %v", rows)
	}
}

func TestMergeCommandMissingFile(t *testing.T) {
	dir := t.TempDir()
	tpl := writeBook(t, dir, "template.xlsx", "GA RAW")

	cmd := newMergeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--template", tpl, filepath.Join(dir, "nope.xlsx"), filepath.Join(dir, "nope2.xlsx")})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for missing input file")
	}
}

func TestSheetsCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeBook(t, dir, "book.xlsx", "GA RAW", []interface{}{"a", "b"}, []interface{}{"c"})

	cmd := newSheetsCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("sheets command failed: %v", err)
	}

	var summary models.WorkbookSummary
	if err := json.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if summary.BookName != "book.xlsx" {
		t.Errorf("Expected book name 'book.xlsx', got %q", summary.BookName)
	}
	if len(summary.Sheets) != 1 || summary.Sheets[0].MaxRow != 2 || summary.Sheets[0].Dimension != "A1:B2" {
		t.Errorf("Unexpected sheets: %+v", summary.Sheets)
	}
}

func TestReadInputNotFound(t *testing.T) {
	_, err := readInput(filepath.Join(t.TempDir(), "missing.xlsx"))
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Errorf("Expected file not found error, got %v", err)
	}
}
