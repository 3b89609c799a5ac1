package c2m2

import "fmt"

// Row is one data row, positionally aligned with its table's columns.
type Row []Cell

func (r Row) clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// required holds the resolved positions of the columns filtering reads.
type required struct {
	domain    int
	module    int
	mil       int
	objective int
	practice  int
}

// Table is an immutable, ordered set of rows over a fixed column list.
// Every Table has the required C2M2 columns; constructors reject tables
// that do not. Accessors return copies, so callers cannot alter a Table
// after it is built.
type Table struct {
	columns []string
	index   HeaderIndex
	req     required
	rows    []Row
}

// NewTable builds a Table from column names and rows. Rows shorter than
// the column list are padded with empty cells. It fails if columns repeat,
// if a row is wider than the column list, or if a required column is absent.
func NewTable(columns []string, rows []Row) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}

	idx, err := ValidateHeaders(columns, FieldSpecs)
	if err != nil {
		return nil, err
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	out := make([]Row, len(rows))
	for i, r := range rows {
		if len(r) > len(cols) {
			return nil, fmt.Errorf("row %d has %d cells, table has %d columns", i, len(r), len(cols))
		}
		row := make(Row, len(cols))
		copy(row, r)
		out[i] = row
	}

	return &Table{
		columns: cols,
		index:   idx,
		req:     resolveRequired(idx),
		rows:    out,
	}, nil
}

// MustTable is like NewTable but panics on error. Intended for fixed data
// such as the sample template and tests.
func MustTable(columns []string, rows []Row) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func resolveRequired(idx HeaderIndex) required {
	return required{
		domain:    idx[ColDomain],
		module:    idx[ColModule],
		mil:       idx[ColMIL],
		objective: idx[ColObjective],
		practice:  idx[ColPracticeText],
	}
}

// withRows returns a table sharing t's columns with a new row list.
// Rows are never mutated after construction, so sharing them is safe.
func (t *Table) withRows(rows []Row) *Table {
	return &Table{
		columns: t.columns,
		index:   t.index,
		req:     t.req,
		rows:    rows,
	}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// Row returns a copy of row i.
func (t *Table) Row(i int) Row { return t.rows[i].clone() }

// Rows returns a copy of every row.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.clone()
	}
	return out
}

// Value returns the cell in row i under column name.
func (t *Table) Value(i int, name string) (Cell, bool) {
	pos, ok := t.index[name]
	if !ok {
		return Cell{}, false
	}
	return t.rows[i][pos], true
}

// Column returns every cell of the named column, in row order.
func (t *Table) Column(name string) ([]Cell, bool) {
	pos, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Cell, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[pos]
	}
	return out, true
}

func (t *Table) Domain(i int) Cell       { return t.rows[i][t.req.domain] }
func (t *Table) Module(i int) Cell       { return t.rows[i][t.req.module] }
func (t *Table) MIL(i int) Cell          { return t.rows[i][t.req.mil] }
func (t *Table) Objective(i int) Cell    { return t.rows[i][t.req.objective] }
func (t *Table) PracticeText(i int) Cell { return t.rows[i][t.req.practice] }

// Records returns each row as a column-name keyed map of display strings.
// Used for JSON responses.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.rows))
	for i, r := range t.rows {
		rec := make(map[string]string, len(t.columns))
		for j, col := range t.columns {
			rec[col] = r[j].String()
		}
		out[i] = rec
	}
	return out
}
