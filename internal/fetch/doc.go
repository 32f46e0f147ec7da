// Package fetch performs single-page HTTP retrieval with bounded retries
// and exponential backoff.
//
// The Wayback Machine rate-limits aggressively, so every failure class,
// transport errors and 4xx/5xx statuses alike, is retried under the same
// backoff policy. Connection refusal is reported as a distinct rate-limit
// kind, but the classification is informational only and never changes
// retry behavior.
//
// The fetcher is fully synchronous: it blocks the caller through request,
// retries, and backoff sleeps. That serialization is the crawl's
// throttling strategy, not an accident.
package fetch
