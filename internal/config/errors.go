package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: Package-level sentinel errors rather than error values
// created inside Validate(), so callers can use errors.Is() while still
// getting a human-readable message.
var (
	// ErrNoStartURL is returned when no seed snapshot URL is configured.
	ErrNoStartURL = errors.New("no start URL: provide a seed archive snapshot URL")

	// ErrNoOutputFile is returned when no output document path is configured.
	ErrNoOutputFile = errors.New("no output file: provide a path for the output document")

	// ErrNoDomainFilter is returned when no scope filter is configured.
	// Crawling without a domain filter would wander across the entire archive.
	ErrNoDomainFilter = errors.New("no domain filter: provide the original-site domain or path substring")

	// ErrNoArchivePrefix is returned when the archive URL prefix is empty.
	ErrNoArchivePrefix = errors.New("no archive prefix: provide the archive-service URL prefix")

	// ErrInvalidMaxAttempts is returned when the attempt budget is not positive.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBaseDelay is returned when the backoff base is negative.
	// Use 0 for immediate retries (useful in tests).
	ErrInvalidBaseDelay = errors.New("invalid base delay: must be non-negative")

	// ErrInvalidCrawlDelay is returned when the politeness delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
