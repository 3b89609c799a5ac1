package web

import (
	"net/url"

	"github.com/JonMunkholm/c2m2filter/internal/core"
)

// Filter query parameters.
const (
	paramDomain    = "domain"
	paramModule    = "module"
	paramMIL       = "mil"
	paramObjective = "objective"
	paramPractice  = "practice"
	paramFiltered  = "filtered" // "1" on a submitted filter form
)

// parseSelection reads the filter selection from query parameters.
// Categories are repeated keys. Values are kept verbatim, so "" selects
// rows whose cell is blank.
func parseSelection(q url.Values) core.Selection {
	return core.Selection{
		Domains:   multiValue(q, paramDomain),
		Modules:   multiValue(q, paramModule),
		MILs:      multiValue(q, paramMIL),
		Objective: q.Get(paramObjective),
		Practice:  q.Get(paramPractice),
		Restrict:  q.Get(paramFiltered) == "1",
	}
}

func multiValue(q url.Values, key string) []string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	return append([]string(nil), values...)
}

// selectionQuery encodes sel back into query parameters, so links such
// as the filtered download reproduce the same result.
func selectionQuery(sel core.Selection) string {
	if sel.IsZero() {
		return ""
	}
	q := url.Values{}
	for _, v := range sel.Domains {
		q.Add(paramDomain, v)
	}
	for _, v := range sel.Modules {
		q.Add(paramModule, v)
	}
	for _, v := range sel.MILs {
		q.Add(paramMIL, v)
	}
	if sel.Objective != "" {
		q.Set(paramObjective, sel.Objective)
	}
	if sel.Practice != "" {
		q.Set(paramPractice, sel.Practice)
	}
	if sel.Restrict {
		q.Set(paramFiltered, "1")
	}
	return q.Encode()
}
