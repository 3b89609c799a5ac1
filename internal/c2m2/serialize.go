package c2m2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Serialize encodes t as an xlsx workbook with a single SheetName sheet:
// a header row of t's columns followed by one row per data row. No index
// column is written. A table with no rows produces a header-only sheet.
func Serialize(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeTo(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeTo is like Serialize but writes the workbook to w.
func SerializeTo(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(t.columns))
	for i, col := range t.columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := styleHeader(f, len(t.columns)); err != nil {
		return err
	}

	values := make([]interface{}, len(t.columns))
	for i, r := range t.rows {
		for j, cell := range r {
			values[j] = cell.value()
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// styleHeader bolds the header row and freezes it above the data.
func styleHeader(f *excelize.File, width int) error {
	if width == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
