package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   50 * time.Millisecond,
			Timeout:       5 * time.Second,
		},
		Session: config.SessionConfig{
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
			MaxSessions:     10,
			CookieName:      "c2m2_session",
		},
	}
}

// fixtureTable has two Asset rows and one Threat row.
func fixtureTable() *c2m2.Table {
	return c2m2.MustTable(
		[]string{c2m2.ColDomain, c2m2.ColModule, c2m2.ColMIL, c2m2.ColObjective, c2m2.ColPracticeText},
		[]c2m2.Row{
			{c2m2.StringCell("Asset"), c2m2.StringCell("M1"), c2m2.IntCell(1), c2m2.StringCell("Inventory"), c2m2.StringCell("Track assets")},
			{c2m2.StringCell("Asset"), c2m2.StringCell("M2"), c2m2.IntCell(2), c2m2.StringCell("Manage Changes"), c2m2.StringCell("Firewall Policy review")},
			{c2m2.StringCell("Threat"), c2m2.StringCell("M1"), c2m2.IntCell(1), c2m2.StringCell("Reduce Vulnerabilities"), c2m2.StringCell("Patch firewall")},
		},
	)
}

func workbook(t *testing.T, tbl *c2m2.Table) []byte {
	t.Helper()
	data, err := c2m2.Serialize(tbl)
	require.NoError(t, err)
	return data
}

// recordingAuditor keeps entries in memory and optionally fails.
type recordingAuditor struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (a *recordingAuditor) Record(_ context.Context, e AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return a.err
}

func (a *recordingAuditor) actions() []AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditAction, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

func (a *recordingAuditor) last() AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return AuditEntry{}
	}
	return a.entries[len(a.entries)-1]
}

var errAuditDown = errors.New("activity log unavailable")
