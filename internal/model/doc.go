// Package model defines the core data structures shared across archivedoc:
// fetched pages, extracted content blocks, and per-URL crawl outcomes.
//
// The model package has no dependencies on other internal packages so that
// every layer (fetching, extraction, crawling, persistence) can exchange
// data without import cycles.
package model
