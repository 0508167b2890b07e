package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyManifest    = "manifest"
	KeyDestination = "destination"
	KeySection     = "section"
	KeyTool        = "tool"
	KeyForgeType   = "forge_type"
	KeyPath        = "path"
	KeyURL         = "url"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Manifest(p string) slog.Attr     { return slog.String(KeyManifest, p) }
func Destination(d string) slog.Attr  { return slog.String(KeyDestination, d) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Tool(t string) slog.Attr         { return slog.String(KeyTool, t) }
func ForgeType(f string) slog.Attr    { return slog.String(KeyForgeType, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
