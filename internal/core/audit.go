package core

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// AuditAction represents the type of activity being recorded.
type AuditAction string

const (
	ActionUpload           AuditAction = "upload"
	ActionUploadRejected   AuditAction = "upload_rejected"
	ActionExport           AuditAction = "export"
	ActionTemplateDownload AuditAction = "template_download"
	ActionReset            AuditAction = "reset"
)

// AuditSeverity represents the severity level of an activity entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// determineSeverity returns the severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionUploadRejected:
		return SeverityHigh
	case ActionUpload, ActionReset:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AuditEntry is one activity log record. It carries metadata only,
// never cell contents.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	SessionID    string        `json:"sessionId,omitempty"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	FileName     string        `json:"fileName,omitempty"`
	RowsTotal    int           `json:"rowsTotal,omitempty"`
	RowsAffected int           `json:"rowsAffected,omitempty"`
	Detail       string        `json:"detail,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Auditor records activity entries.
type Auditor interface {
	Record(ctx context.Context, e AuditEntry) error
}

// NopAuditor discards every entry. Used when no database is configured.
type NopAuditor struct{}

func (NopAuditor) Record(context.Context, AuditEntry) error { return nil }

// DBTX is the subset of *pgxpool.Pool and pgx.Tx the auditor needs.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
}

const activitySchema = `
CREATE TABLE IF NOT EXISTS c2m2_activity_log (
	id            UUID PRIMARY KEY,
	action        TEXT        NOT NULL,
	severity      TEXT        NOT NULL,
	session_id    TEXT,
	ip_address    INET,
	user_agent    TEXT,
	file_name     TEXT,
	rows_total    INTEGER,
	rows_affected INTEGER,
	detail        TEXT,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS c2m2_activity_log_created_at_idx ON c2m2_activity_log (created_at);
`

const insertActivity = `
INSERT INTO c2m2_activity_log
	(id, action, severity, session_id, ip_address, user_agent, file_name, rows_total, rows_affected, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// PostgresAuditor writes activity entries to the c2m2_activity_log table.
type PostgresAuditor struct {
	db  DBTX
	now func() time.Time
}

// NewPostgresAuditor creates an auditor writing through db.
func NewPostgresAuditor(db DBTX) *PostgresAuditor {
	return &PostgresAuditor{db: db, now: time.Now}
}

// EnsureSchema creates the activity table if it does not exist.
func (a *PostgresAuditor) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, activitySchema); err != nil {
		return fmt.Errorf("create activity log table: %w", err)
	}
	return nil
}

// Record inserts e, filling in ID, severity, and timestamp when unset.
func (a *PostgresAuditor) Record(ctx context.Context, e AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Severity == "" {
		e.Severity = determineSeverity(e.Action)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = a.now().UTC()
	}

	id, err := uuid.Parse(e.ID)
	if err != nil {
		return fmt.Errorf("activity id: %w", err)
	}

	_, err = a.db.Exec(ctx, insertActivity,
		pgtype.UUID{Bytes: id, Valid: true},
		string(e.Action),
		string(e.Severity),
		toPgText(e.SessionID),
		toInet(e.IPAddress),
		toPgText(e.UserAgent),
		toPgText(e.FileName),
		toPgInt4(e.RowsTotal),
		toPgInt4(e.RowsAffected),
		toPgText(e.Detail),
		pgtype.Timestamptz{Time: e.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Helper functions for type conversion

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgInt4(i int) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(i), Valid: true}
}

// toInet returns nil for addresses that do not parse, storing NULL.
func toInet(s string) *netip.Addr {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil
	}
	return &addr
}
