package c2m2

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load parses an xlsx workbook and returns the rows of the SheetName sheet.
//
// The first non-blank row is the header. Blank header cells are named
// "Unnamed: N" and repeated names get ".1", ".2" suffixes. Fully blank data
// rows are skipped. Text cells stay text, numeric cells stay numeric, and
// boolean cells stay boolean.
//
// Failures are returned as *SheetNotFoundError, *MalformedFileError, or
// *MissingColumnsError. Load has no side effects.
func Load(data []byte) (*Table, error) {
	return LoadReader(bytes.NewReader(data))
}

// LoadReader is like Load but reads the workbook from r.
func LoadReader(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	defer f.Close()

	// excelize matches sheet names case-insensitively; the name must be exact.
	sheets := f.GetSheetList()
	if !slices.Contains(sheets, SheetName) {
		return nil, &SheetNotFoundError{Sheet: SheetName, Available: sheets}
	}

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		var notExist excelize.ErrSheetNotExist
		if errors.As(err, &notExist) {
			return nil, &SheetNotFoundError{Sheet: SheetName, Available: sheets}
		}
		return nil, &MalformedFileError{Err: fmt.Errorf("read sheet %q: %w", SheetName, err)}
	}

	headerAt := firstNonBlank(rows)
	if headerAt < 0 {
		return nil, &MissingColumnsError{Columns: requiredNames()}
	}

	width := 0
	for _, r := range rows[headerAt:] {
		if n := lastNonBlank(r) + 1; n > width {
			width = n
		}
	}
	headers := buildHeaders(rows[headerAt], width)

	if _, err := ValidateHeaders(headers, FieldSpecs); err != nil {
		return nil, err
	}

	data := make([]Row, 0, len(rows)-headerAt-1)
	for i := headerAt + 1; i < len(rows); i++ {
		raw := rows[i]
		if lastNonBlank(raw) < 0 {
			continue
		}
		row := make(Row, width)
		for j := 0; j < width && j < len(raw); j++ {
			cell, err := readCell(f, SheetName, j+1, i+1, raw[j])
			if err != nil {
				return nil, &MalformedFileError{Err: err}
			}
			row[j] = cell
		}
		data = append(data, row)
	}

	t, err := NewTable(headers, data)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	return t, nil
}

// readCell converts the raw value at (col, row) using the cell's stored type.
func readCell(f *excelize.File, sheet string, col, row int, raw string) (Cell, error) {
	if raw == "" {
		return Cell{}, nil
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %s: %w", axis, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(n), nil
		}
		return StringCell(raw), nil
	default:
		// shared strings, inline strings, formula strings, dates, errors
		return StringCell(raw), nil
	}
}

// buildHeaders names width columns from the header row, filling blanks
// and de-duplicating repeats.
func buildHeaders(row []string, width int) []string {
	headers := make([]string, width)
	counts := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(row) {
			name = normalizeHeader(row[i])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n := counts[name]; n > 0 {
			counts[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			counts[name] = 1
		}
		headers[i] = name
	}
	return headers
}

func firstNonBlank(rows [][]string) int {
	for i, r := range rows {
		if lastNonBlank(r) >= 0 {
			return i
		}
	}
	return -1
}

// lastNonBlank returns the index of the last non-blank cell, or -1.
func lastNonBlank(row []string) int {
	for i := len(row) - 1; i >= 0; i-- {
		if strings.TrimSpace(row[i]) != "" {
			return i
		}
	}
	return -1
}

func requiredNames() []string {
	var names []string
	for _, spec := range FieldSpecs {
		if spec.Required {
			names = append(names, spec.Name)
		}
	}
	return names
}
