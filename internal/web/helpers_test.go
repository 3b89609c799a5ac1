package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/config"
	"github.com/JonMunkholm/c2m2filter/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, RequestTimeout: 5 * time.Second},
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   100 * time.Millisecond,
			Timeout:       5 * time.Second,
		},
		Session: config.SessionConfig{
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
			MaxSessions:     10,
			CookieName:      "c2m2_session",
		},
		Rate:     config.RateLimitConfig{Enabled: false, RequestsPerMinute: 120, UploadLimit: 10},
		Security: config.SecurityConfig{EnableCSP: true},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	return NewServer(cfg, core.NewService(cfg, nil))
}

// client replays the session cookie like a browser would.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, h: srv.Router()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "c2m2_session" {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string, accept ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, a := range accept {
		req.Header.Set("Accept", a)
	}
	return c.do(req)
}

func (c *client) post(path string, accept ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	for _, a := range accept {
		req.Header.Set("Accept", a)
	}
	return c.do(req)
}

// upload posts data as the multipart "file" field.
func (c *client) upload(name string, data []byte, accept ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(c.t, err)
		_, err = fw.Write(data)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, a := range accept {
		req.Header.Set("Accept", a)
	}
	return c.do(req)
}

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()
	data, err := c2m2.SampleTemplate()
	require.NoError(t, err)
	return data
}

// wrongSheetWorkbook has a single sheet that is not "C2M2 V2.1".
func wrongSheetWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", c2m2.ColDomain))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

const (
	assetDomain  = "Asset, Change, and Configuration Management (ASSET)"
	threatDomain = "Threat and Vulnerability Management (THREAT)"
)
