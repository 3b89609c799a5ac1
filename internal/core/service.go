package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/config"
	"github.com/JonMunkholm/c2m2filter/internal/logging"
)

// Service provides the session-scoped C2M2 operations: upload, filter,
// export, and template download.
type Service struct {
	sessions      *SessionStore
	limiter       *UploadLimiter
	auditor       Auditor
	maxFileSize   int64
	uploadTimeout time.Duration
	now           func() time.Time
	parse         func([]byte) (*c2m2.Table, error)

	templateOnce  sync.Once
	templateBytes []byte
	templateErr   error
}

// NewService creates a Service from cfg. A nil auditor disables activity logging.
func NewService(cfg *config.Config, auditor Auditor) *Service {
	if auditor == nil {
		auditor = NopAuditor{}
	}
	return &Service{
		sessions:      NewSessionStore(cfg.Session.TTL, cfg.Session.MaxSessions),
		limiter:       NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		auditor:       auditor,
		maxFileSize:   cfg.Upload.MaxFileSize.Int64(),
		uploadTimeout: cfg.Upload.Timeout,
		now:           time.Now,
		parse:         c2m2.Load,
	}
}

// MaxFileSize returns the upload size limit in bytes.
func (s *Service) MaxFileSize() int64 { return s.maxFileSize }

// Upload reads a workbook from r, loads it, and makes it the session's
// dataset. On any failure the session keeps its previous dataset.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (*Dataset, error) {
	logger := logging.WithFields(ctx, "file", fileName)
	start := s.now()

	if err := s.limiter.Acquire(ctx); err != nil {
		s.record(ctx, AuditEntry{Action: ActionUploadRejected, FileName: fileName, Detail: MapError(err).Code})
		return nil, err
	}
	// load takes over the slot once parsing starts.
	holding := true
	defer func() {
		if holding {
			s.limiter.Release()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := s.checkSize(len(data)); err != nil {
		s.record(ctx, AuditEntry{Action: ActionUploadRejected, FileName: fileName, Detail: MapError(err).Code})
		return nil, err
	}

	contentType := mimetype.Detect(data).String()
	logger.Debug("upload received", "bytes", len(data), "content_type", contentType)

	holding = false
	t, err := s.load(ctx, data)
	if err != nil {
		msg := MapError(err)
		logger.Warn("upload rejected", "code", msg.Code, "error", err)
		s.record(ctx, AuditEntry{Action: ActionUploadRejected, FileName: fileName, Detail: msg.Code})
		return nil, err
	}

	opts := c2m2.Options(t)
	ds := &Dataset{
		Table:      t,
		Options:    opts,
		Summary:    summarize(fileName, contentType, int64(len(data)), t, opts),
		UploadedAt: s.now(),
	}
	ds.Summary.Duration = s.now().Sub(start)

	if evicted := s.sessions.Put(sessionID, ds); evicted != "" {
		logger.Info("session evicted to make room", "evicted_session", evicted)
	}

	logger.Info("workbook loaded",
		"rows", t.Len(),
		"columns", len(t.Columns()),
		"duration_ms", ds.Summary.Duration.Milliseconds(),
	)
	s.record(ctx, AuditEntry{Action: ActionUpload, FileName: fileName, RowsTotal: t.Len()})
	return ds, nil
}

func (s *Service) checkSize(n int) error {
	switch {
	case n == 0:
		return ErrEmptyFile
	case int64(n) > s.maxFileSize:
		return fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}
	return nil
}

// load parses data under the upload timeout and releases the caller's
// limiter slot when the parse ends. A parse that outlives the timeout keeps
// its slot until it finishes in the background; its result is dropped.
func (s *Service) load(ctx context.Context, data []byte) (*c2m2.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	type result struct {
		t   *c2m2.Table
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer s.limiter.Release()
		t, err := s.parse(data)
		done <- result{t, err}
	}()

	select {
	case res := <-done:
		return res.t, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dataset returns the session's loaded workbook, or ErrNoUpload.
func (s *Service) Dataset(sessionID string) (*Dataset, error) {
	ds, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoUpload
	}
	return ds, nil
}

// Options returns the distinct categorical values of the session's workbook.
func (s *Service) Options(sessionID string) (c2m2.FilterOptions, error) {
	ds, err := s.Dataset(sessionID)
	if err != nil {
		return c2m2.FilterOptions{}, err
	}
	return ds.Options, nil
}

// Filter applies sel to the session's workbook.
func (s *Service) Filter(ctx context.Context, sessionID string, sel Selection) (*FilterResult, error) {
	ds, err := s.Dataset(sessionID)
	if err != nil {
		return nil, err
	}
	res := newFilterResult(ds.Table, sel.Criteria(ds.Table))

	logging.FromContext(ctx).Debug("filter applied",
		"total", res.Total,
		"matched", res.Matched(),
	)
	return res, nil
}

// ExportFiltered filters the session's workbook and encodes the result as
// an xlsx workbook. An empty result still yields a header-only workbook.
func (s *Service) ExportFiltered(ctx context.Context, sessionID string, sel Selection) ([]byte, *FilterResult, error) {
	ds, err := s.Dataset(sessionID)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.Filter(ctx, sessionID, sel)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := c2m2.SerializeTo(&buf, res.Table); err != nil {
		return nil, nil, fmt.Errorf("serialize filtered workbook: %w", err)
	}

	s.record(ctx, AuditEntry{
		Action:       ActionExport,
		FileName:     ds.Summary.FileName,
		RowsTotal:    res.Total,
		RowsAffected: res.Matched(),
	})
	return buf.Bytes(), res, nil
}

// SampleTemplate returns the onboarding workbook. It is built once and
// does not depend on any session.
func (s *Service) SampleTemplate(ctx context.Context) ([]byte, error) {
	s.templateOnce.Do(func() {
		s.templateBytes, s.templateErr = c2m2.SampleTemplate()
	})
	if s.templateErr != nil {
		return nil, fmt.Errorf("build sample template: %w", s.templateErr)
	}

	s.record(ctx, AuditEntry{Action: ActionTemplateDownload, FileName: c2m2.TemplateFileName})
	return s.templateBytes, nil
}

// Reset forgets the session's workbook. It reports whether one was held.
func (s *Service) Reset(ctx context.Context, sessionID string) bool {
	held := s.sessions.Delete(sessionID)
	if held {
		s.record(ctx, AuditEntry{Action: ActionReset})
	}
	return held
}

// SessionCount returns the number of sessions holding a workbook.
func (s *Service) SessionCount() int { return s.sessions.Len() }

// UploadLimiterStatus returns the upload limiter state for monitoring.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// record writes an activity entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, e AuditEntry) {
	meta := RequestMetaFrom(ctx)
	e.SessionID = meta.SessionID
	e.IPAddress = meta.IPAddress
	e.UserAgent = meta.UserAgent
	if e.Severity == "" {
		e.Severity = determineSeverity(e.Action)
	}

	if err := s.auditor.Record(ctx, e); err != nil {
		logging.FromContext(ctx).Error("activity log write failed",
			"action", e.Action,
			"error", err,
		)
	}
}
