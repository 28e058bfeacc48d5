package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyQuery      = "query"
	KeyEntry      = "entry"
	KeyEntryID    = "entry_id"
	KeyObjectName = "object_name"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Query(q string) slog.Attr        { return slog.String(KeyQuery, q) }
func Entry(name string) slog.Attr     { return slog.String(KeyEntry, name) }
func EntryID(id string) slog.Attr     { return slog.String(KeyEntryID, id) }
func ObjectName(n string) slog.Attr   { return slog.String(KeyObjectName, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
