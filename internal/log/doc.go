// Package log provides slog-based logging for archivedoc.
//
// Crawl logs routinely carry archive snapshot URLs (which embed a second
// full URL) and raw HTML fragments. TrimHandler wraps any slog.Handler and
// truncates oversized attribute values so a single noisy page cannot make
// the progress stream unreadable.
package log
