// Package report persists decoded tracebacks to a SQLite archive so crashes
// can be inspected after the owning process is gone.
//
// The archive is strictly optional and strictly best-effort: the recorder and
// decoder never depend on it, and the fatal handler treats any archive
// failure as log-and-continue, since it runs on the error-reporting path
// itself. Reports are immutable once saved; each gets a UUIDv7 id so listing
// order matches creation order.
//
// Exception display names arrive from whatever runtime produced the
// breadcrumbs and are NFC-normalized before storage, so the same exception
// type groups identically regardless of the producer's encoding.
package report
