package c2m2

import (
	"golang.org/x/text/cases"
)

// valueSet is an ordered set of accepted display values.
type valueSet struct {
	values []string
	member map[string]struct{}
}

func newValueSet(values []string) *valueSet {
	s := &valueSet{member: make(map[string]struct{}, len(values))}
	for _, v := range values {
		if _, dup := s.member[v]; dup {
			continue
		}
		s.member[v] = struct{}{}
		s.values = append(s.values, v)
	}
	return s
}

// has reports membership. A nil set places no restriction.
func (s *valueSet) has(c Cell) bool {
	if s == nil {
		return true
	}
	_, ok := s.member[c.String()]
	return ok
}

func (s *valueSet) list() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Criteria is an immutable set of conjunctive row predicates.
//
// Build it with NewCriteria. The zero Criteria matches every row.
type Criteria struct {
	domains *valueSet
	modules *valueSet
	mils    *valueSet

	objective string // as entered
	practice  string

	objectiveKey string // case-folded
	practiceKey  string
}

// CriteriaOption sets one predicate of a Criteria.
type CriteriaOption func(*criteriaBuilder)

type criteriaBuilder struct {
	domains, modules, mils *[]string
	objective, practice    string
}

// WithDomains restricts Domain to values. Calling it with no values
// selects nothing.
func WithDomains(values ...string) CriteriaOption {
	return func(b *criteriaBuilder) { b.domains = copyValues(values) }
}

// WithModules restricts Module to values. Calling it with no values
// selects nothing.
func WithModules(values ...string) CriteriaOption {
	return func(b *criteriaBuilder) { b.modules = copyValues(values) }
}

// WithMILs restricts MIL to values, compared by display string ("1" matches
// the number 1). Calling it with no values selects nothing.
func WithMILs(values ...string) CriteriaOption {
	return func(b *criteriaBuilder) { b.mils = copyValues(values) }
}

// WithObjectiveQuery requires Objective to contain q, ignoring case.
// An empty q places no restriction.
func WithObjectiveQuery(q string) CriteriaOption {
	return func(b *criteriaBuilder) { b.objective = q }
}

// WithPracticeQuery requires Practice Text to contain q, ignoring case.
// An empty q places no restriction.
func WithPracticeQuery(q string) CriteriaOption {
	return func(b *criteriaBuilder) { b.practice = q }
}

func copyValues(values []string) *[]string {
	out := make([]string, len(values))
	copy(out, values)
	return &out
}

// NewCriteria builds criteria for t. Each categorical set that no option
// supplies defaults to every value observed in t for that column, so with
// no options every row of t matches.
func NewCriteria(t *Table, opts ...CriteriaOption) Criteria {
	var b criteriaBuilder
	for _, opt := range opts {
		opt(&b)
	}

	fold := cases.Fold()
	return Criteria{
		domains:      resolveSet(t, ColDomain, b.domains),
		modules:      resolveSet(t, ColModule, b.modules),
		mils:         resolveSet(t, ColMIL, b.mils),
		objective:    b.objective,
		practice:     b.practice,
		objectiveKey: fold.String(b.objective),
		practiceKey:  fold.String(b.practice),
	}
}

func resolveSet(t *Table, col string, chosen *[]string) *valueSet {
	if chosen != nil {
		return newValueSet(*chosen)
	}
	return newValueSet(DistinctValues(t, col))
}

// Domains returns the accepted Domain values, or nil when unrestricted.
func (c Criteria) Domains() []string { return c.domains.list() }

// Modules returns the accepted Module values, or nil when unrestricted.
func (c Criteria) Modules() []string { return c.modules.list() }

// MILs returns the accepted MIL values, or nil when unrestricted.
func (c Criteria) MILs() []string { return c.mils.list() }

// ObjectiveQuery returns the Objective search text as entered.
func (c Criteria) ObjectiveQuery() string { return c.objective }

// PracticeQuery returns the Practice Text search text as entered.
func (c Criteria) PracticeQuery() string { return c.practice }

// EmptySelections names the categorical columns whose accepted set is
// empty. Any such column makes the criteria match nothing.
func (c Criteria) EmptySelections() []string {
	var cols []string
	for _, s := range []struct {
		col string
		set *valueSet
	}{
		{ColDomain, c.domains},
		{ColModule, c.modules},
		{ColMIL, c.mils},
	} {
		if s.set != nil && len(s.set.values) == 0 {
			cols = append(cols, s.col)
		}
	}
	return cols
}

// match evaluates every predicate against one row of t.
func (c Criteria) match(t *Table, r Row, fold cases.Caser) bool {
	return c.domains.has(r[t.req.domain]) &&
		c.modules.has(r[t.req.module]) &&
		c.mils.has(r[t.req.mil]) &&
		containsFold(r[t.req.objective], c.objectiveKey, fold) &&
		containsFold(r[t.req.practice], c.practiceKey, fold)
}
