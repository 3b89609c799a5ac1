package c2m2

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns a new table holding the rows of t that satisfy every
// predicate of c, in their original order. t is not modified.
func Filter(t *Table, c Criteria) *Table {
	fold := cases.Fold()

	out := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		if c.match(t, r, fold) {
			out = append(out, r)
		}
	}
	return t.withRows(out)
}

// containsFold reports whether cell's text contains key, where key is
// already case-folded. An empty key matches any cell; a non-text cell
// never matches a non-empty key.
func containsFold(cell Cell, key string, fold cases.Caser) bool {
	if key == "" {
		return true
	}
	s, ok := cell.Text()
	if !ok {
		return false
	}
	return strings.Contains(fold.String(s), key)
}

// FilterOptions holds the distinct values offered for each categorical filter.
type FilterOptions struct {
	Domains []string `json:"domains"`
	Modules []string `json:"modules"`
	MILs    []string `json:"mils"`
}

// Options returns the distinct Domain, Module, and MIL values of t.
func Options(t *Table) FilterOptions {
	return FilterOptions{
		Domains: DistinctValues(t, ColDomain),
		Modules: DistinctValues(t, ColModule),
		MILs:    DistinctValues(t, ColMIL),
	}
}

// DistinctValues returns the distinct display values of column col in
// first-seen order. Blank cells contribute "" so that default criteria
// keep rows with blank categories. It returns nil if t has no such column.
func DistinctValues(t *Table, col string) []string {
	pos, ok := t.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.rows {
		v := r[pos].String()
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
