package web

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/core"
	"github.com/JonMunkholm/c2m2filter/internal/web/templates"
)

const (
	// multipartOverhead is allowed on top of the file size limit for
	// form boundaries and headers.
	multipartOverhead = 1 << 20
	// multipartMemory is held in memory before spilling to temp files.
	multipartMemory = 8 << 20
)

// handleDashboard renders the main page for the current selection.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, parseSelection(r.URL.Query()), nil, http.StatusOK)
}

// renderDashboard renders the page with an optional alert. A session
// without a workbook gets the upload prompt.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, sel core.Selection, alert *core.UserMessage, status int) {
	ctx := r.Context()
	params := templates.DashboardParams{
		MaxUpload: s.cfg.Upload.MaxFileSize.String(),
		Alert:     alert,
	}

	ds, err := s.service.Dataset(sessionID(r))
	switch {
	case errors.Is(err, core.ErrNoUpload):
	case err != nil:
		respondError(w, r, err, statusFor(err))
		return
	default:
		res, err := s.service.Filter(ctx, sessionID(r), sel)
		if err != nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		params.Dataset = ds
		params.Result = res
		params.Query = selectionQuery(sel)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Dashboard(params).Render(ctx, w)
}

// handleData renders only the results fragment.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	sel := parseSelection(r.URL.Query())
	res, err := s.service.Filter(r.Context(), sessionID(r), sel)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch {
	case errors.Is(err, core.ErrNoUpload):
		templates.UploadPrompt().Render(r.Context(), w)
	case err != nil:
		respondError(w, r, err, statusFor(err))
	default:
		templates.Results(res, selectionQuery(sel)).Render(r.Context(), w)
	}
}

// handleUpload loads a workbook into the caller's session.
// Browsers are redirected back to the dashboard; API clients get the summary.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.service.MaxFileSize()+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.uploadFailed(w, r, fmt.Errorf("%w: limit is %s", core.ErrFileTooLarge, s.cfg.Upload.MaxFileSize))
			return
		}
		s.uploadFailed(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.uploadFailed(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	ds, err := s.service.Upload(r.Context(), sessionID(r), header.Filename, file)
	if err != nil {
		s.uploadFailed(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, ds.Summary)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// uploadFailed reports a rejected upload. Browsers get the dashboard with
// an alert above whatever the session held before.
func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if isHTMX(r) || wantsJSON(r) {
		respondError(w, r, err, status)
		return
	}
	msg := core.MapError(err)
	s.renderDashboard(w, r, core.Selection{}, &msg, status)
}

// handleReset forgets the session's workbook.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	held := s.service.Reset(r.Context(), sessionID(r))
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]bool{"reset": held})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDownloadFiltered streams the filtered workbook.
func (s *Server) handleDownloadFiltered(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.service.ExportFiltered(r.Context(), sessionID(r), parseSelection(r.URL.Query()))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeWorkbook(w, c2m2.FilteredFileName, data)
}

// handleDownloadTemplate serves the sample workbook. No upload is needed.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.SampleTemplate(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeWorkbook(w, c2m2.TemplateFileName, data)
}

func writeWorkbook(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", c2m2.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleHealth reports liveness with session and upload counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"uploads":  s.service.UploadLimiterStatus(),
	})
}
