package log

import (
	"context"
	"io"
	"log/slog"
)

// DefaultMaxValueLen is the default cap on logged attribute values.
// Archive snapshot URLs run long (host + timestamp + embedded original
// URL), so the cap is generous; HTML bodies blow far past it.
const DefaultMaxValueLen = 512

// Ellipsis is appended to truncated values.
const Ellipsis = "..."

// TrimHandler wraps an slog.Handler and truncates string attribute values
// that exceed a maximum length before passing the record on.
//
// Design decision: A handler wrapper rather than call-site truncation
// because:
//  1. It integrates with standard slog APIs and any underlying handler
//  2. Call sites log whole values; the policy lives in one place
//  3. The crawl engine and fetcher don't need to know about log limits
type TrimHandler struct {
	// handler is the underlying slog handler receiving trimmed records.
	handler slog.Handler

	// maxLen is the maximum length of a logged string value.
	maxLen int
}

// TrimOption configures a TrimHandler.
type TrimOption func(*TrimHandler)

// WithMaxValueLen sets the maximum logged value length.
func WithMaxValueLen(n int) TrimOption {
	return func(h *TrimHandler) {
		h.maxLen = n
	}
}

// NewTrimHandler creates a TrimHandler wrapping the given handler.
// If handler is nil, slog.Default()'s handler is used.
func NewTrimHandler(handler slog.Handler, opts ...TrimOption) *TrimHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &TrimHandler{
		handler: handler,
		maxLen:  DefaultMaxValueLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled delegates to the underlying handler.
func (h *TrimHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle trims the record's attributes and passes it on.
func (h *TrimHandler) Handle(ctx context.Context, r slog.Record) error {
	trimmed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		trimmed.AddAttrs(h.trimAttr(a))
		return true
	})

	return h.handler.Handle(ctx, trimmed)
}

// WithAttrs returns a new handler with the given attributes added, trimmed.
func (h *TrimHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	trimmedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		trimmedAttrs[i] = h.trimAttr(a)
	}
	return &TrimHandler{handler: h.handler.WithAttrs(trimmedAttrs), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TrimHandler) WithGroup(name string) slog.Handler {
	return &TrimHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// trimAttr trims a single attribute, recursing into groups.
func (h *TrimHandler) trimAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		trimmedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			trimmedAttrs[i] = h.trimAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(trimmedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if len(s) > h.maxLen {
			return slog.String(a.Key, s[:h.maxLen]+Ellipsis)
		}
	}

	return a
}

// NewLogger creates a text-format slog.Logger with value trimming.
//
// Parameters:
//   - w: destination for log output (typically os.Stderr)
//   - verbose: if true, level is Debug; otherwise Info
//
// Progress lines (fetch attempts, backoff waits, skips, saves) log at
// Info so the default output stream narrates the crawl.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTrimHandler(textHandler))
}
