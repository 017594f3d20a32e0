package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPlugin        = "plugin"
	KeyStage         = "stage"
	KeyCompilationID = "compilation_id"
	KeyAsset         = "asset"
	KeyPosition      = "position"
	KeyVocabulary    = "vocabulary"
	KeyChunk         = "chunk"
	KeyBytes         = "bytes"
	KeyDurationMS    = "duration_ms"
	KeyError         = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Plugin(name string) slog.Attr      { return slog.String(KeyPlugin, name) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func CompilationID(id string) slog.Attr { return slog.String(KeyCompilationID, id) }
func Asset(name string) slog.Attr       { return slog.String(KeyAsset, name) }
func Position(p string) slog.Attr       { return slog.String(KeyPosition, p) }
func Vocabulary(v string) slog.Attr     { return slog.String(KeyVocabulary, v) }
func Chunk(name string) slog.Attr       { return slog.String(KeyChunk, name) }
func Bytes(n int) slog.Attr             { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
