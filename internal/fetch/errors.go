package fetch

import (
	"errors"
	"fmt"
)

// ErrExhausted marks a terminal fetch failure after the full attempt
// budget. Callers must treat the URL as permanently unreachable for the
// rest of the run; the fetcher will not be asked again.
var ErrExhausted = errors.New("all fetch attempts exhausted")

// Kind classifies a single failed attempt.
type Kind int

const (
	// KindNetwork is a transport-level failure: DNS, dial, timeout.
	KindNetwork Kind = iota

	// KindHTTPStatus is a response with a 4xx or 5xx status.
	KindHTTPStatus

	// KindRateLimited is a connection actively refused by the server,
	// which in practice means the archive is rate-limiting us.
	KindRateLimited
)

// String returns a human-readable name for the failure kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http-status"
	case KindRateLimited:
		return "rate-limited"
	default:
		return "unknown"
	}
}

// Error describes one failed fetch attempt.
type Error struct {
	// URL is the URL that failed.
	URL string

	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status for KindHTTPStatus failures, 0 otherwise.
	StatusCode int

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case KindRateLimited:
		return fmt.Sprintf("fetch %s: connection refused (rate-limited): %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
