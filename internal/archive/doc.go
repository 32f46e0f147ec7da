// Package archive handles the Wayback Machine's two-part URL scheme.
//
// A snapshot URL has the shape
//
//	https://<archive-host>/web/<timestamp>/<original-url>
//
// where <original-url> is the pre-archive, real-world URL. The package
// provides URL normalization for deduplication, original-URL extraction
// for cross-timestamp deduplication, and scope filtering for traversal.
//
// Scope filtering is expressed as a ScopeFunc predicate rather than
// hardcoded host checks, so the crawl engine stays independent of any
// particular archive service.
package archive
