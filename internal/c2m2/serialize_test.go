package c2m2

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func roundTrip(t *testing.T, tbl *Table) *Table {
	t.Helper()
	data, err := Serialize(tbl)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	back, err := Load(data)
	if err != nil {
		t.Fatalf("Load(Serialize()) error = %v", err)
	}
	return back
}

func assertSameTable(t *testing.T, got, want *Table) {
	t.Helper()
	if !stringsEqual(got.Columns(), want.Columns()) {
		t.Fatalf("Columns() = %v, want %v", got.Columns(), want.Columns())
	}
	if got.Len() != want.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
	}
	for i := 0; i < want.Len(); i++ {
		if !rowsEqual(got.Row(i), want.Row(i)) {
			t.Errorf("row %d = %v, want %v", i, got.Row(i), want.Row(i))
		}
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tbl  *Table
	}{
		{"fixture", practiceTable(t)},
		{"sample", SampleTable()},
		{
			name: "mixed types and column order",
			tbl: MustTable(
				[]string{"Notes", ColPracticeText, ColMIL, ColDomain, "Score", ColObjective, ColModule, "Active"},
				[]Row{
					{StringCell("first"), StringCell("Practice"), IntCell(1), StringCell("D"), NumberCell(2.5), StringCell("O"), StringCell("M"), BoolCell(true)},
					{Cell{}, StringCell("Other"), StringCell("2"), StringCell("D"), NumberCell(-3), Cell{}, StringCell("M"), BoolCell(false)},
				},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSameTable(t, roundTrip(t, tt.tbl), tt.tbl)
		})
	}
}

func TestSerialize_FilteredRoundTrip(t *testing.T) {
	tbl := practiceTable(t)
	filtered := Filter(tbl, NewCriteria(tbl, WithDomains("Threat")))

	assertSameTable(t, roundTrip(t, filtered), filtered)
}

func TestSerialize_NoRows(t *testing.T) {
	tbl := practiceTable(t)
	empty := Filter(tbl, NewCriteria(tbl, WithDomains("Quantum")))
	if !empty.Empty() {
		t.Fatalf("fixture filter returned %d rows", empty.Len())
	}

	back := roundTrip(t, empty)
	if !back.Empty() {
		t.Errorf("Len() = %d, want 0", back.Len())
	}
	if !stringsEqual(back.Columns(), tbl.Columns()) {
		t.Errorf("Columns() = %v, want %v", back.Columns(), tbl.Columns())
	}
}

func TestSerialize_SingleSheet(t *testing.T) {
	data, err := Serialize(practiceTable(t))
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != SheetName {
		t.Errorf("sheets = %v, want [%s]", sheets, SheetName)
	}

	// No index column: A1 holds the first header.
	a1, err := f.GetCellValue(SheetName, "A1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if a1 != ColDomain {
		t.Errorf("A1 = %q, want %q", a1, ColDomain)
	}
}
