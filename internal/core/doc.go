// Package core holds the session-scoped logic of the C2M2 filter,
// independent of any transport. Web handlers, CLI tools, and tests use it
// the same way.
//
// # Sessions
//
// Each browser session owns at most one uploaded workbook, kept in a
// [SessionStore] with an idle TTL. [Service.StartSessionJanitor] sweeps
// expired sessions in the background.
//
// # Upload
//
// [Service.Upload] reads the file under a size limit, waits for a slot in
// the [UploadLimiter], and parses it with the c2m2 loader. A rejected
// upload leaves the session's previous workbook in place.
//
// # Filtering and export
//
// [Service.Filter] turns a [Selection] into engine criteria and returns a
// [FilterResult]. An empty result carries an [EmptyResultWarning] saying
// whether the sheet had no rows, a category had nothing selected, or no
// row matched. [Service.ExportFiltered] encodes the same result as xlsx.
//
// # Error Handling
//
// Errors are mapped to user messages with support codes by [MapError]:
//
//   - FILE001-FILE006: file and workbook errors
//   - VAL004: missing required columns
//   - SES001: no workbook uploaded yet
//   - UPL002-UPL005: busy, cancelled, or timed out
//   - RATE001: rate limited
//
// # Activity Log
//
// Uploads, rejected uploads, exports, template downloads, and resets are
// passed to an [Auditor]. [PostgresAuditor] stores them when a database is
// configured; entries hold metadata only, never cell contents.
package core
