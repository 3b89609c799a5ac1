package c2m2

import (
	"fmt"
	"strings"
)

// SheetNotFoundError is returned by Load when the workbook has no sheet
// named Sheet. Available lists the sheets the workbook does contain.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	msg := fmt.Sprintf("sheet not found: the workbook has no sheet named %q", e.Sheet)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (found: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

// MalformedFileError is returned by Load when the input cannot be parsed
// as a workbook. Err carries the parser's diagnostic.
type MalformedFileError struct {
	Err error
}

func (e *MalformedFileError) Error() string {
	return "malformed workbook: " + e.Err.Error()
}

func (e *MalformedFileError) Unwrap() error {
	return e.Err
}

// MissingColumnsError is returned when a sheet lacks required columns.
type MissingColumnsError struct {
	Columns []string // Required columns that were not found
	Found   []string // Header row as read
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}
