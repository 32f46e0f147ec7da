package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MaxPageSize is the maximum size of raw page content to keep in memory.
// Larger responses are truncated to this size.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// Page represents a single fetched archive snapshot.
//
// Design decision: We keep the raw body bytes alongside the response
// metadata because:
//  1. The extractor needs the exact bytes for charset detection
//  2. The content hash is computed over the raw body for the journal
//  3. Re-fetching to recover the body would violate the politeness model
type Page struct {
	// URL is the full archive snapshot URL that was fetched.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Raw contains the raw response body bytes, capped at MaxPageSize.
	Raw []byte `json:"-"`

	// Hash is the SHA-256 hash of the raw body.
	// Used by the crawl journal for change detection.
	Hash string `json:"hash"`
}

// ComputeHash calculates and sets the SHA-256 hash of the page's raw body.
// Call this after setting Raw.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	sum := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(sum[:])
}

// GetHeader returns the first value of the named header, or "" if absent.
// Go's http package canonicalizes header names, so lookups use the
// canonical form.
func (p *Page) GetHeader(name string) string {
	if values, ok := p.Headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// IsHTML reports whether the content type indicates an HTML document.
func (p *Page) IsHTML() bool {
	return strings.HasPrefix(p.ContentType, "text/html") ||
		strings.HasPrefix(p.ContentType, "application/xhtml+xml")
}

// TruncateRaw enforces the MaxPageSize cap on the raw body.
// Call this after setting Raw.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
	}
}
