package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/config"
	"github.com/JonMunkholm/c2m2filter/internal/core"
)

const jsonAccept = "application/json"

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.get("/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec.Body.String())
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["sessions"])
}

func TestDashboard_NoUpload(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please upload the C2M2 Excel file to proceed")
	require.NotNil(t, c.cookie, "a session cookie is issued")
	assert.True(t, c.cookie.HttpOnly)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestDashboard_CSPDisabled(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.Security.EnableCSP = false })
	rec := newClient(t, srv).get("/")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestUpload_BrowserFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.upload("c2m2.xlsx", sampleWorkbook(t))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ASSET-1")
	assert.Contains(t, body, "THREAT-2")
	assert.Contains(t, body, "2 of 2")
	assert.Contains(t, body, "c2m2.xlsx")
	assert.NotContains(t, body, "Please upload the C2M2 Excel file")
}

func TestUpload_JSONSummary(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.upload("sample.xlsx", sampleWorkbook(t), jsonAccept)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[core.UploadSummary](t, rec.Body.String())
	assert.Equal(t, "sample.xlsx", summary.FileName)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, 2, summary.Domains)
	assert.Equal(t, c2m2.Columns(), summary.Columns)
}

func TestUpload_RejectedKeepsPreviousWorkbook(t *testing.T) {
	c := newClient(t, newTestServer(t))
	require.Equal(t, http.StatusSeeOther, c.upload("good.xlsx", sampleWorkbook(t)).Code)

	rec := c.upload("bad.xlsx", wrongSheetWorkbook(t), jsonAccept)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp := decode[ErrorResponse](t, rec.Body.String())
	assert.Equal(t, "FILE006", errResp.Code)
	assert.Equal(t, "Sheets found: Sheet1", errResp.Detail)

	// Browser form submission renders the alert above the old table.
	rec = c.upload("bad.xlsx", wrongSheetWorkbook(t))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Code: FILE006")
	assert.Contains(t, rec.Body.String(), "ASSET-1")

	data := decode[dataResponse](t, c.get("/api/data").Body.String())
	assert.Equal(t, 2, data.Matched)
}

func TestUpload_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		send     func(c *client) *httptest.ResponseRecorder
		wantCode int
		wantErr  string
	}{
		{
			name:     "no file field",
			send:     func(c *client) *httptest.ResponseRecorder { return c.upload("", nil, jsonAccept) },
			wantCode: http.StatusBadRequest,
			wantErr:  "FILE004",
		},
		{
			name:     "not multipart",
			send:     func(c *client) *httptest.ResponseRecorder { return c.post("/upload", jsonAccept) },
			wantCode: http.StatusBadRequest,
			wantErr:  "FILE004",
		},
		{
			name:     "empty file",
			send:     func(c *client) *httptest.ResponseRecorder { return c.upload("empty.xlsx", []byte{}, jsonAccept) },
			wantCode: http.StatusBadRequest,
			wantErr:  "FILE005",
		},
		{
			name:     "not a workbook",
			send:     func(c *client) *httptest.ResponseRecorder { return c.upload("notes.txt", []byte("hello"), jsonAccept) },
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "FILE002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, newTestServer(t))
			rec := tt.send(c)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[ErrorResponse](t, rec.Body.String()).Code)
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.Upload.MaxFileSize = 1024 })
	c := newClient(t, srv)

	rec := c.upload("big.xlsx", []byte(strings.Repeat("x", 4096)), jsonAccept)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE001", decode[ErrorResponse](t, rec.Body.String()).Code)
}

func TestNoUpload(t *testing.T) {
	c := newClient(t, newTestServer(t))

	for _, path := range []string{"/api/data", "/api/options"} {
		rec := c.get(path)
		require.Equal(t, http.StatusConflict, rec.Code, path)
		assert.Equal(t, "SES001", decode[ErrorResponse](t, rec.Body.String()).Code, path)
	}

	rec := c.get("/download/filtered")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "(Code: SES001)")

	rec = c.get("/data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please upload the C2M2 Excel file")
}

func TestAPIOptions(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.upload("c2m2.xlsx", sampleWorkbook(t))

	rec := c.get("/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decode[c2m2.FilterOptions](t, rec.Body.String())
	assert.Equal(t, []string{assetDomain, threatDomain}, opts.Domains)
	assert.Equal(t, []string{"ASSET-1", "THREAT-2"}, opts.Modules)
	assert.Equal(t, []string{"1", "2"}, opts.MILs)
}

func TestAPIData(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.upload("c2m2.xlsx", sampleWorkbook(t))

	tests := []struct {
		name        string
		query       url.Values
		wantMatched int
		wantModules []string
		wantReason  core.EmptyReason
	}{
		{name: "defaults", query: nil, wantMatched: 2, wantModules: []string{"ASSET-1", "THREAT-2"}},
		{name: "domain", query: url.Values{"domain": {threatDomain}}, wantMatched: 1, wantModules: []string{"THREAT-2"}},
		{name: "mil", query: url.Values{"mil": {"1"}}, wantMatched: 1, wantModules: []string{"ASSET-1"}},
		{name: "practice search is case-insensitive", query: url.Values{"practice": {"FIREWALL"}}, wantMatched: 1, wantModules: []string{"THREAT-2"}},
		{
			name:       "submitted form with no domain checked",
			query:      url.Values{"filtered": {"1"}, "module": {"ASSET-1", "THREAT-2"}, "mil": {"1", "2"}},
			wantReason: core.ReasonNothingSelected,
		},
		{name: "no match", query: url.Values{"objective": {"quantum"}}, wantReason: core.ReasonNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.get("/api/data?" + tt.query.Encode())
			require.Equal(t, http.StatusOK, rec.Code)

			data := decode[dataResponse](t, rec.Body.String())
			assert.Equal(t, 2, data.Total)
			assert.Equal(t, tt.wantMatched, data.Matched)
			assert.Equal(t, c2m2.Columns(), data.Columns)

			var modules []string
			for _, row := range data.Rows {
				modules = append(modules, row[c2m2.ColModule])
			}
			assert.Equal(t, tt.wantModules, modules)

			if tt.wantReason == "" {
				assert.Nil(t, data.Warning)
				return
			}
			require.NotNil(t, data.Warning)
			assert.Equal(t, tt.wantReason, data.Warning.Reason)
			assert.NotEmpty(t, data.Warning.Message)
		})
	}
}

func TestDataFragment(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.upload("c2m2.xlsx", sampleWorkbook(t))

	rec := c.get("/data?" + url.Values{"domain": {assetDomain}}.Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "ASSET-1")
	assert.NotContains(t, body, "THREAT-2")
	assert.Contains(t, body, "1 of 2")
}

func TestDownloadFiltered(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.upload("c2m2.xlsx", sampleWorkbook(t))

	rec := c.get("/download/filtered?" + url.Values{"module": {"THREAT-2"}}.Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, c2m2.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), c2m2.FilteredFileName)

	tbl, err := c2m2.Load(rec.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "THREAT-2", tbl.Module(0).String())
	assert.Equal(t, c2m2.Columns(), tbl.Columns())
}

func TestDownloadTemplate(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/download/template")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, c2m2.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), c2m2.TemplateFileName)

	tbl, err := c2m2.Load(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestReset(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.upload("c2m2.xlsx", sampleWorkbook(t))

	rec := c.post("/api/reset")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"reset": true}, decode[map[string]bool](t, rec.Body.String()))

	assert.Equal(t, http.StatusConflict, c.get("/api/data").Code)

	rec = c.post("/reset")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	bob := newClient(t, srv)

	alice.upload("c2m2.xlsx", sampleWorkbook(t))

	assert.Equal(t, http.StatusOK, alice.get("/api/data").Code)
	assert.Equal(t, http.StatusConflict, bob.get("/api/data").Code)
}

func TestInvalidSessionCookieReplaced(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.cookie = &http.Cookie{Name: "c2m2_session", Value: "not-a-uuid"}

	c.get("/")
	require.NotNil(t, c.cookie)
	assert.NotEqual(t, "not-a-uuid", c.cookie.Value)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Rate.Enabled = true
		cfg.Rate.RequestsPerMinute = 2
	})
	c := newClient(t, srv)

	assert.Equal(t, http.StatusOK, c.get("/healthz").Code)
	assert.Equal(t, http.StatusOK, c.get("/healthz").Code)

	rec := c.get("/api/options")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decode[ErrorResponse](t, rec.Body.String()).Code)
}

func TestStatic(t *testing.T) {
	rec := newClient(t, newTestServer(t)).get("/static/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestAPIData_ResubmittedDefaultFormKeepsEveryRow(t *testing.T) {
	tbl := c2m2.MustTable(c2m2.Columns(), []c2m2.Row{
		{c2m2.StringCell("Asset"), c2m2.StringCell("M1"), c2m2.IntCell(1), c2m2.StringCell("Inventory"), c2m2.StringCell("Track assets")},
		{c2m2.Cell{}, c2m2.StringCell("M1"), c2m2.IntCell(1), c2m2.StringCell("Unassigned"), c2m2.StringCell("Orphan practice")},
		{c2m2.StringCell("Threat"), c2m2.StringCell(" M2 "), c2m2.IntCell(2), c2m2.StringCell("Reduce"), c2m2.StringCell("Patch firewall")},
	})
	data, err := c2m2.Serialize(tbl)
	require.NoError(t, err)

	c := newClient(t, newTestServer(t))
	require.Equal(t, http.StatusOK, c.upload("c2m2.xlsx", data, "application/json").Code)

	before := decode[dataResponse](t, c.get("/api/data").Body.String())
	require.Equal(t, 3, before.Matched)

	opts := decode[c2m2.FilterOptions](t, c.get("/api/options").Body.String())
	require.Contains(t, opts.Domains, "")
	require.Contains(t, opts.Modules, " M2 ")

	// everything left checked, as the form renders by default
	q := url.Values{"filtered": {"1"}, "domain": opts.Domains, "module": opts.Modules, "mil": opts.MILs}
	after := decode[dataResponse](t, c.get("/api/data?"+q.Encode()).Body.String())
	assert.Equal(t, before.Matched, after.Matched)
	assert.Nil(t, after.Warning)

	q = url.Values{"filtered": {"1"}, "domain": {""}, "module": opts.Modules, "mil": opts.MILs}
	blank := decode[dataResponse](t, c.get("/api/data?"+q.Encode()).Body.String())
	require.Equal(t, 1, blank.Matched)
	assert.Equal(t, "Orphan practice", blank.Rows[0][c2m2.ColPracticeText])
}

func TestDashboard_FormRendersBlankOptionChecked(t *testing.T) {
	tbl := c2m2.MustTable(c2m2.Columns(), []c2m2.Row{
		{c2m2.StringCell("Asset"), c2m2.StringCell("M1"), c2m2.IntCell(1), c2m2.StringCell("Inventory"), c2m2.StringCell("Track assets")},
		{c2m2.Cell{}, c2m2.StringCell("M1"), c2m2.IntCell(1), c2m2.StringCell("Unassigned"), c2m2.StringCell("Orphan practice")},
	})
	data, err := c2m2.Serialize(tbl)
	require.NoError(t, err)

	c := newClient(t, newTestServer(t))
	c.upload("c2m2.xlsx", data)

	body := c.get("/").Body.String()
	assert.Contains(t, body, `name="domain" value="" checked`)
}
