package log

import (
	"context"
	"io"
	"log/slog"
)

// DefaultMaxValueLen is the length at which string attribute values are cut.
// 2KB keeps full nmap banners readable in debug output while preventing a
// 65,535-port scan from flooding the log.
const DefaultMaxValueLen = 2048

// TruncationMarker is appended to every value that was cut.
const TruncationMarker = "...[truncated]"

// TruncatingHandler wraps an slog.Handler to cap string attribute values.
// It intercepts log records and truncates oversized values before passing
// them to the underlying handler.
//
// Design decision: We use a handler wrapper rather than truncating at each
// call site because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay free of formatting concerns
type TruncatingHandler struct {
	// handler is the underlying slog handler that receives capped records.
	handler slog.Handler

	// maxLen is the maximum string value length before truncation.
	maxLen int
}

// NewTruncatingHandler creates a new TruncatingHandler wrapping the given
// handler. String attributes longer than maxLen are cut and marked. A
// non-positive maxLen uses DefaultMaxValueLen. If handler is nil, the
// returned TruncatingHandler uses slog.Default().Handler().
func NewTruncatingHandler(handler slog.Handler, maxLen int) *TruncatingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &TruncatingHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncatingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle truncates the record's attributes and passes it to the underlying handler.
func (h *TruncatingHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are truncated before being added.
func (h *TruncatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cappedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cappedAttrs[i] = h.truncateAttr(a)
	}
	return &TruncatingHandler{handler: h.handler.WithAttrs(cappedAttrs), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncatingHandler) WithGroup(name string) slog.Handler {
	return &TruncatingHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// truncateAttr caps a single attribute, recursively handling groups.
func (h *TruncatingHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cappedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cappedAttrs[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cappedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if len(strVal) > h.maxLen {
			return slog.String(a.Key, strVal[:h.maxLen]+TruncationMarker)
		}
	}

	return a
}

// NewLogger creates a new slog.Logger with attribute truncation.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)

	return slog.New(NewTruncatingHandler(textHandler, DefaultMaxValueLen))
}
