package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The retry and delay defaults are deliberately conservative: the Wayback
// Machine rate-limits aggressively, and strict serialization plus generous
// backoff is the throttling strategy.
const (
	// DefaultMaxAttempts is the total number of fetch attempts per URL,
	// including the first. After the last failure the URL is treated as
	// permanently unreachable for the rest of the run.
	DefaultMaxAttempts = 5

	// DefaultBaseDelay is the backoff base. The wait before attempt k is
	// base * 2^(k-1), so the default schedule is 30s, 60s, 120s, 240s.
	DefaultBaseDelay = 30 * time.Second

	// DefaultTimeout is the per-request HTTP timeout. Archived snapshots
	// can be slow to serve, so this is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultCrawlDelay is the politeness delay applied after every
	// successful fetch, unconditionally.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultArchivePrefix is the URL prefix that all crawlable snapshot
	// URLs must carry.
	DefaultArchivePrefix = "https://web.archive.org/web/"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is ample for archived HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies archivedoc in HTTP requests so archive
	// operators can recognize the traffic in their logs.
	DefaultUserAgent = "archivedoc/1.0"

	// AppName is the application name used for XDG directory paths.
	AppName = "archivedoc"
)

// DefaultBannerSelectors match the Wayback Machine's injected toolbar.
// The toolbar is present on every snapshot and must be stripped before
// content is fingerprinted, otherwise the toolbar's per-snapshot markup
// defeats content deduplication.
func DefaultBannerSelectors() []string {
	return []string{"#wm-ipp-base", "#wm-ipp"}
}

// Config holds all options for a crawl run.
//
// Design decision: A single flat struct instead of nested sub-configs.
// The option count is manageable, and a flat struct keeps flag wiring in
// cmd/ trivial. Revisit if the configuration grows substantially.
type Config struct {
	// StartURL is the seed archive snapshot URL.
	StartURL string

	// OutputFile is the path of the Markdown document being built.
	// The file is fully rewritten after every accepted page.
	OutputFile string

	// DomainFilter is the original-site domain/path substring that every
	// crawlable URL must contain (e.g. "example.org/docs").
	DomainFilter string

	// ArchivePrefix is the archive-service URL prefix for in-scope links.
	ArchivePrefix string

	// MaxAttempts is the total number of fetch attempts per URL.
	MaxAttempts int

	// BaseDelay is the exponential backoff base between fetch attempts.
	BaseDelay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CrawlDelay is the politeness delay after each successful fetch.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// BannerSelectors are CSS selectors for archive-injected chrome that
	// is removed from every page before extraction.
	BannerSelectors []string

	// Verbose enables slog.LevelDebug output. When false, only info and
	// above are logged.
	Verbose bool

	// JournalDir is the directory for the SQLite crawl journal.
	// Defaults to the XDG data directory.
	JournalDir string

	// SaveJournal enables recording per-URL outcomes to the journal.
	// The journal is write-only observability; it is never consulted for
	// deduplication, so crawls stay independent across runs.
	SaveJournal bool

	// SeedFilePath is the explicit path of the YAML seed file, if any.
	// If empty, .archivedoc is searched in cwd and the home directory.
	SeedFilePath string
}

// NewConfig creates a Config with default values.
// Many defaults are non-zero, so relying on zero values would be wrong;
// this constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		ArchivePrefix:   DefaultArchivePrefix,
		MaxAttempts:     DefaultMaxAttempts,
		BaseDelay:       DefaultBaseDelay,
		Timeout:         DefaultTimeout,
		CrawlDelay:      DefaultCrawlDelay,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		BannerSelectors: DefaultBannerSelectors(),
		JournalDir:      XDGDataDir(),
		SaveJournal:     true,
	}
}

// XDGDataDir returns the XDG data directory for archivedoc.
// On Linux: ~/.local/share/archivedoc
// On macOS: ~/Library/Application Support/archivedoc
// On Windows: %LOCALAPPDATA%\archivedoc
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any network traffic, so
// misconfiguration fails fast with a specific sentinel error.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	if c.OutputFile == "" {
		return ErrNoOutputFile
	}
	if c.DomainFilter == "" {
		return ErrNoDomainFilter
	}
	if c.ArchivePrefix == "" {
		return ErrNoArchivePrefix
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BaseDelay < 0 {
		return ErrInvalidBaseDelay
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
