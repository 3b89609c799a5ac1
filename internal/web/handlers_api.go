package web

import (
	"net/http"

	"github.com/JonMunkholm/c2m2filter/internal/core"
)

// warningResponse is the JSON form of core.EmptyResultWarning.
type warningResponse struct {
	Reason  core.EmptyReason `json:"reason"`
	Message string           `json:"message"`
	Columns []string         `json:"columns,omitempty"`
}

// dataResponse is the JSON body of /api/data.
type dataResponse struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Total   int                 `json:"total"`
	Matched int                 `json:"matched"`
	Warning *warningResponse    `json:"warning,omitempty"`
}

// handleAPIOptions returns the distinct Domain, Module and MIL values.
func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.Options(sessionID(r))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleAPIData returns the filtered rows as display strings.
func (s *Server) handleAPIData(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Filter(r.Context(), sessionID(r), parseSelection(r.URL.Query()))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	resp := dataResponse{
		Columns: res.Table.Columns(),
		Rows:    res.Table.Records(),
		Total:   res.Total,
		Matched: res.Matched(),
	}
	if res.Warning != nil {
		resp.Warning = &warningResponse{
			Reason:  res.Warning.Reason,
			Message: res.Warning.Message(),
			Columns: res.Warning.Columns,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
