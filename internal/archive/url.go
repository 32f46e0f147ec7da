package archive

import (
	"net/url"
	"strings"
)

// Normalize resolves href against the containing page's URL and returns
// the canonical absolute form: fragment, query string, and path parameter
// segment stripped.
//
// Normalization is idempotent: running it on an already-canonical URL
// returns the URL unchanged. The crawl engine relies on this because
// canonical URLs are the keys of its dedup sets.
func Normalize(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}

	u := base.ResolveReference(ref)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Path = stripPathParams(u.Path)
	u.RawPath = ""

	return u.String(), nil
}

// stripPathParams removes a trailing ";params" segment from the final
// path element, e.g. "/page.html;session=1" -> "/page.html".
func stripPathParams(path string) string {
	slash := strings.LastIndex(path, "/")
	if semi := strings.Index(path[slash+1:], ";"); semi >= 0 {
		return path[:slash+1+semi]
	}
	return path
}

// ExtractOriginal derives the pre-archive original URL from a snapshot
// URL by locating the first "http" scheme token after the archive path
// prefix and taking everything from there onward.
//
// Returns ErrMalformedURL when the prefix is absent or no scheme token
// follows it (e.g. a bare timestamp listing URL).
func ExtractOriginal(archivedURL, archivePrefix string) (string, error) {
	i := strings.Index(archivedURL, archivePrefix)
	if i < 0 {
		return "", ErrMalformedURL
	}

	rest := archivedURL[i+len(archivePrefix):]
	j := strings.Index(rest, "http")
	if j < 0 {
		return "", ErrMalformedURL
	}

	return rest[j:], nil
}

// ScopeFunc reports whether a URL is in scope for traversal.
// The crawl engine treats it as an opaque predicate.
type ScopeFunc func(rawURL string) bool

// NewScope builds the standard conjunctive allowlist: the URL must be
// served under the archive prefix, must contain the original-site
// domain/path substring, and must not be a mailto: or javascript:
// pseudo-link. Any failing clause excludes the link.
func NewScope(archivePrefix, domainFilter string) ScopeFunc {
	return func(rawURL string) bool {
		if strings.Contains(rawURL, "mailto:") || strings.Contains(rawURL, "javascript:") {
			return false
		}
		if !strings.HasPrefix(rawURL, archivePrefix) {
			return false
		}
		return strings.Contains(rawURL, domainFilter)
	}
}

// Snapshot is a parsed snapshot URL.
type Snapshot struct {
	// Timestamp is the capture timestamp path segment, normally the
	// 14-digit YYYYMMDDhhmmss form (shorter prefixes also occur).
	Timestamp string

	// OriginalURL is the embedded pre-archive URL.
	OriginalURL string
}

// ParseSnapshot splits a snapshot URL into its timestamp and original URL.
// Returns ErrMalformedURL when either part cannot be located.
func ParseSnapshot(archivedURL, archivePrefix string) (Snapshot, error) {
	original, err := ExtractOriginal(archivedURL, archivePrefix)
	if err != nil {
		return Snapshot{}, err
	}

	i := strings.Index(archivedURL, archivePrefix)
	rest := archivedURL[i+len(archivePrefix):]
	ts := strings.TrimSuffix(rest[:len(rest)-len(original)], "/")

	return Snapshot{Timestamp: ts, OriginalURL: original}, nil
}
