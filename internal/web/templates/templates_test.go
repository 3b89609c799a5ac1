package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboard_NoUpload(t *testing.T) {
	out := render(t, Dashboard(DashboardParams{MaxUpload: "20MiB"}))

	assert.Contains(t, out, "Please upload the C2M2 Excel file to proceed")
	assert.Contains(t, out, `action="/upload"`)
	assert.Contains(t, out, "Maximum size 20MiB")
	assert.NotContains(t, out, `name="filtered"`)
}

func TestDashboard_WithResults(t *testing.T) {
	tbl := c2m2.SampleTable()
	sel := core.Selection{Restrict: true, Domains: []string{"Threat and Vulnerability Management (THREAT)"}, Modules: []string{"THREAT-2"}, MILs: []string{"2"}}
	res := &core.FilterResult{Table: c2m2.Filter(tbl, sel.Criteria(tbl)), Criteria: sel.Criteria(tbl), Total: tbl.Len()}
	ds := &core.Dataset{Table: tbl, Options: c2m2.Options(tbl), Summary: core.UploadSummary{FileName: "c2m2 <v2>.xlsx", Rows: 2, Domains: 2}}

	out := render(t, Dashboard(DashboardParams{Dataset: ds, Result: res, Query: "domain=x&filtered=1"}))

	assert.Contains(t, out, "1 of 2")
	assert.Contains(t, out, "THREAT-2")
	assert.NotContains(t, out, "ASSET-1</td>")
	assert.Contains(t, out, `href="/download/filtered?domain=x&amp;filtered=1"`)
	assert.Contains(t, out, "c2m2 &lt;v2&gt;.xlsx", "file name is escaped")
	assert.Contains(t, out, `value="THREAT-2" checked`)
	assert.Contains(t, out, `value="ASSET-1">`)
}

func TestResults_Warning(t *testing.T) {
	tbl := c2m2.SampleTable()
	res := &core.FilterResult{
		Table:   c2m2.MustTable(tbl.Columns(), nil),
		Total:   2,
		Warning: &core.EmptyResultWarning{Reason: core.ReasonNoMatch},
	}

	out := render(t, Results(res, ""))
	assert.Contains(t, out, "No data available for the selected filters.")
	assert.Contains(t, out, `href="/download/filtered"`)
	assert.NotContains(t, out, "<table>")
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert(core.UserMessage{
		Message: `Sheet "C2M2 V2.1" not found`,
		Action:  "Upload another file",
		Code:    "FILE006",
		Detail:  "Sheets found: <Sheet1>",
	}))

	assert.Contains(t, out, "Code: FILE006")
	assert.Contains(t, out, "Sheets found: &lt;Sheet1&gt;")
	assert.Contains(t, out, "Upload another file")
}

func TestHelp(t *testing.T) {
	out := render(t, Help())
	assert.Contains(t, out, "<details")
	assert.Contains(t, out, "<strong>C2M2 V2.1</strong>")
	assert.Contains(t, out, `href="/download/template"`)
}

func TestPage_WrapsChildren(t *testing.T) {
	ctx := templ.WithChildren(context.Background(), Notice("hello"))
	var buf bytes.Buffer
	require.NoError(t, Page("a<b").Render(ctx, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>a&lt;b</title>")
	assert.Contains(t, out, `<main class="layout"><div class="alert info" role="status">hello</div></main>`)
}

func TestCheckboxGroup_EscapesValues(t *testing.T) {
	out := render(t, checkboxGroup("Domain", "domain", []string{"", `"A&B" <x>`}, []string{""}))

	assert.Contains(t, out, `id="domain-0" name="domain" value="" checked>`)
	assert.Contains(t, out, `value="&#34;A&amp;B&#34; &lt;x&gt;">`)
	assert.Contains(t, out, `<label for="domain-1">&#34;A&amp;B&#34; &lt;x&gt;</label>`)
	assert.NotContains(t, out, "No values")
}

func TestCheckboxGroup_NoValues(t *testing.T) {
	out := render(t, checkboxGroup("MIL", "mil", nil, nil))
	assert.Contains(t, out, "No values")
	assert.NotContains(t, out, `type="checkbox"`)
}

func TestDashboard_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Dashboard(DashboardParams{}).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestSummary_PerDomainRange(t *testing.T) {
	out := render(t, Summary(core.UploadSummary{
		FileName:  "c2m2.xlsx",
		Rows:      5,
		Domains:   2,
		PerDomain: core.Distribution{Min: 2, Max: 3, Median: 2.5},
	}))

	assert.Contains(t, out, "<span>5 practices</span>")
	assert.Contains(t, out, "2–3 practices per domain (median 2.5)")
	assert.Contains(t, out, `action="/reset"`)
}
