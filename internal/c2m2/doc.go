// Package c2m2 loads, filters, and writes C2M2 practice workbooks.
//
// This package is the engine behind the dashboard. It has no HTTP or session
// concerns and every function is a pure transform, so handlers, tests, and
// command-line tools can call it directly.
//
// # Flow
//
//  1. [Load] parses workbook bytes and extracts the [SheetName] sheet into a [Table].
//  2. [NewCriteria] builds a [Criteria] from the user's selections, defaulting
//     every categorical set to all values observed in the table.
//  3. [Filter] returns the rows matching every predicate, in original order.
//  4. [Serialize] writes any table (including an empty one) back to xlsx bytes.
//
// [SampleTemplate] produces a two-row workbook users can start from.
//
// # Errors
//
// Load never panics on bad input. It returns one of:
//
//   - [*SheetNotFoundError]: the workbook has no sheet named [SheetName]
//   - [*MalformedFileError]: the bytes are not a readable workbook
//   - [*MissingColumnsError]: the sheet lacks a column filtering depends on
//
// Use errors.As to inspect them.
package c2m2
