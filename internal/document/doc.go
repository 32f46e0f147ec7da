// Package document assembles extracted content into the single output
// Markdown document and persists it.
//
// The document is the crawl's only durable artifact. Every save is a full
// re-render written atomically (temp file + rename), so the on-disk file
// is a complete, openable document at every instant. A crawl killed
// mid-run loses at most the in-flight page.
package document
