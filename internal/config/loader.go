package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSeedFile is the default seed file name.
const DefaultSeedFile = ".archivedoc"

// ErrSeedFileNotFound is returned when the seed file does not exist.
var ErrSeedFileNotFound = errors.New("seed file not found")

// File represents the YAML seed file.
// All fields are optional; non-zero values overlay the defaults and are
// in turn overridden by CLI flags.
//
// Durations are YAML strings in Go syntax ("30s", "1m30s") because
// yaml.v3 has no native duration type.
type File struct {
	// StartURL is the seed archive snapshot URL.
	StartURL string `yaml:"start_url,omitempty"`

	// Output is the output document path.
	Output string `yaml:"output,omitempty"`

	// DomainFilter is the original-site scope substring.
	DomainFilter string `yaml:"domain_filter,omitempty"`

	// ArchivePrefix overrides the archive-service URL prefix.
	ArchivePrefix string `yaml:"archive_prefix,omitempty"`

	// MaxAttempts overrides the fetch attempt budget.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// BaseDelay overrides the backoff base, e.g. "30s".
	BaseDelay string `yaml:"base_delay,omitempty"`

	// Timeout overrides the per-request timeout, e.g. "60s".
	Timeout string `yaml:"timeout,omitempty"`

	// CrawlDelay overrides the politeness delay, e.g. "1s".
	CrawlDelay string `yaml:"crawl_delay,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// BannerSelectors override the archive-chrome CSS selectors.
	BannerSelectors []string `yaml:"banner_selectors,omitempty"`
}

// LoadSeedFile loads the seed file at path.
// Returns ErrSeedFileNotFound when the file does not exist; callers decide
// whether that is fatal based on whether the path was explicit.
func LoadSeedFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided seed path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSeedFileNotFound
		}
		return nil, err
	}

	var sf File
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	return &sf, nil
}

// FindSeedFile searches for the seed file:
//  1. If path is given, use it directly
//  2. .archivedoc in the current directory
//  3. .archivedoc in the user's home directory
//
// Returns the path if found, or "" if not.
func FindSeedFile(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultSeedFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultSeedFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Apply overlays the seed file's non-zero values onto cfg.
// Duration strings are parsed here so a typo surfaces as a load error,
// not as a silently ignored setting.
func (f *File) Apply(cfg *Config) error {
	if f.StartURL != "" {
		cfg.StartURL = f.StartURL
	}
	if f.Output != "" {
		cfg.OutputFile = f.Output
	}
	if f.DomainFilter != "" {
		cfg.DomainFilter = f.DomainFilter
	}
	if f.ArchivePrefix != "" {
		cfg.ArchivePrefix = f.ArchivePrefix
	}
	if f.MaxAttempts != 0 {
		cfg.MaxAttempts = f.MaxAttempts
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if len(f.BannerSelectors) > 0 {
		cfg.BannerSelectors = f.BannerSelectors
	}

	for _, d := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"base_delay", f.BaseDelay, &cfg.BaseDelay},
		{"timeout", f.Timeout, &cfg.Timeout},
		{"crawl_delay", f.CrawlDelay, &cfg.CrawlDelay},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("seed file: invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dst = parsed
	}

	return nil
}
