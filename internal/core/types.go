package core

import (
	"errors"
	"strings"
	"time"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
)

var (
	// ErrNoUpload is returned when a session has no workbook loaded yet.
	ErrNoUpload = errors.New("no workbook uploaded")

	// ErrNoFile is returned when an upload request carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrEmptyFile is returned for a zero-byte upload.
	ErrEmptyFile = errors.New("empty file")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Selection is the filter input as submitted by a client.
//
// When Restrict is false a nil or empty category slice places no restriction.
// When Restrict is true (a submitted filter form) every category is taken
// literally, so an empty slice selects nothing.
type Selection struct {
	Domains   []string `json:"domains"`
	Modules   []string `json:"modules"`
	MILs      []string `json:"mils"`
	Objective string   `json:"objective"`
	Practice  string   `json:"practice"`
	Restrict  bool     `json:"restrict"`
}

// Criteria converts the selection to engine criteria for t.
func (s Selection) Criteria(t *c2m2.Table) c2m2.Criteria {
	var opts []c2m2.CriteriaOption
	if s.Restrict || len(s.Domains) > 0 {
		opts = append(opts, c2m2.WithDomains(s.Domains...))
	}
	if s.Restrict || len(s.Modules) > 0 {
		opts = append(opts, c2m2.WithModules(s.Modules...))
	}
	if s.Restrict || len(s.MILs) > 0 {
		opts = append(opts, c2m2.WithMILs(s.MILs...))
	}
	// Queries are substring patterns taken as typed; only "" is unrestricted.
	if s.Objective != "" {
		opts = append(opts, c2m2.WithObjectiveQuery(s.Objective))
	}
	if s.Practice != "" {
		opts = append(opts, c2m2.WithPracticeQuery(s.Practice))
	}
	return c2m2.NewCriteria(t, opts...)
}

// IsZero reports whether the selection places no restriction at all.
func (s Selection) IsZero() bool {
	return !s.Restrict && len(s.Domains) == 0 && len(s.Modules) == 0 && len(s.MILs) == 0 &&
		s.Objective == "" && s.Practice == ""
}

// Dataset is a workbook loaded into a session.
type Dataset struct {
	Table      *c2m2.Table
	Options    c2m2.FilterOptions
	Summary    UploadSummary
	UploadedAt time.Time
}

// UploadSummary describes an accepted workbook.
type UploadSummary struct {
	FileName    string        `json:"fileName"`
	ContentType string        `json:"contentType"`
	Size        int64         `json:"size"`
	Rows        int           `json:"rows"`
	Columns     []string      `json:"columns"`
	Domains     int           `json:"domains"`
	Modules     int           `json:"modules"`
	MILs        int           `json:"mils"`
	PerDomain   Distribution  `json:"perDomain"`
	Duration    time.Duration `json:"duration"`
}

// Distribution summarizes how many practices fall in each category value.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// EmptyReason explains why a filter produced no rows.
type EmptyReason string

const (
	// ReasonNoData: the workbook has a header but no data rows.
	ReasonNoData EmptyReason = "no_data"
	// ReasonNothingSelected: a categorical filter was cleared.
	ReasonNothingSelected EmptyReason = "nothing_selected"
	// ReasonNoMatch: rows exist but none satisfy the filters.
	ReasonNoMatch EmptyReason = "no_match"
)

// EmptyResultWarning is attached to a FilterResult with zero rows.
// It is informational, not an error.
type EmptyResultWarning struct {
	Reason  EmptyReason `json:"reason"`
	Columns []string    `json:"columns,omitempty"` // set for ReasonNothingSelected
}

// Message returns the notice shown to the user.
func (w *EmptyResultWarning) Message() string {
	switch w.Reason {
	case ReasonNoData:
		return "The uploaded sheet has no data rows."
	case ReasonNothingSelected:
		return "No data available: nothing is selected for " + strings.Join(w.Columns, ", ") + "."
	default:
		return "No data available for the selected filters."
	}
}

// FilterResult is the outcome of applying a selection to a session's workbook.
type FilterResult struct {
	Table    *c2m2.Table
	Criteria c2m2.Criteria
	Total    int                 // rows in the uploaded workbook
	Warning  *EmptyResultWarning // non-nil when Table is empty
}

// Matched returns the number of rows that passed the filters.
func (r *FilterResult) Matched() int { return r.Table.Len() }

// newFilterResult filters t and classifies an empty outcome.
func newFilterResult(t *c2m2.Table, c c2m2.Criteria) *FilterResult {
	out := c2m2.Filter(t, c)
	res := &FilterResult{Table: out, Criteria: c, Total: t.Len()}

	if out.Empty() {
		switch {
		case t.Empty():
			res.Warning = &EmptyResultWarning{Reason: ReasonNoData}
		case len(c.EmptySelections()) > 0:
			res.Warning = &EmptyResultWarning{Reason: ReasonNothingSelected, Columns: c.EmptySelections()}
		default:
			res.Warning = &EmptyResultWarning{Reason: ReasonNoMatch}
		}
	}
	return res
}
