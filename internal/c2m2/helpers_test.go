package c2m2

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows to a new workbook whose first sheet is named
// sheet, then any extra sheets, and returns the xlsx bytes.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}, extraSheets ...string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	for _, name := range extraSheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%q): %v", name, err)
		}
	}
	for i, row := range rows {
		if row == nil {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, axis, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return buf.Bytes()
}

var requiredHeader = []interface{}{ColDomain, ColModule, ColMIL, ColObjective, ColPracticeText}

// practiceTable returns a small fixture covering several domains, modules,
// and MIL levels.
func practiceTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(
		[]string{ColDomain, ColModule, ColMIL, ColObjective, ColPracticeText, ColArtifacts},
		[]Row{
			{StringCell("Asset"), StringCell("M1"), IntCell(1), StringCell("Inventory"), StringCell("Track assets"), StringCell("CMDB")},
			{StringCell("Asset"), StringCell("M2"), IntCell(2), StringCell("Manage Changes"), StringCell("Firewall Policy changes are reviewed")},
			{StringCell("Threat"), StringCell("M1"), IntCell(1), StringCell("Reduce Vulnerabilities"), StringCell("Patch firewall appliances")},
			{StringCell("Threat"), StringCell("M3"), IntCell(3), StringCell("Respond to Threats"), NumberCell(42)},
			{StringCell("Risk"), StringCell("M2"), IntCell(2), Cell{}, StringCell("Risk register maintained")},
			{Cell{}, StringCell("M1"), IntCell(1), StringCell("Unassigned inventory"), StringCell("Orphan practice")},
		},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func rowsEqual(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
