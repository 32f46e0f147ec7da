package crawler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"archivedoc/internal/archive"
	"archivedoc/internal/database"
	"archivedoc/internal/document"
	"archivedoc/internal/extract"
	"archivedoc/internal/fetch"
	"archivedoc/internal/model"
)

// Engine drives one crawl: it owns the worklist, the three dedup sets,
// and the output document, and dispatches every URL to exactly one
// outcome.
//
// An Engine is single-use and single-threaded. Strict serialization is
// the rate-limiting strategy, so there is deliberately no worker pool.
type Engine struct {
	// fetcher retrieves pages with retry and backoff.
	fetcher *fetch.Fetcher

	// extractor turns fetched pages into content blocks and links.
	extractor *extract.Extractor

	// builder accumulates accepted content and persists the document.
	builder *document.Builder

	// scope decides which normalized links enter the worklist.
	scope archive.ScopeFunc

	// archivePrefix locates the original URL inside snapshot URLs.
	archivePrefix string

	// crawlDelay is the politeness pause after every successful fetch.
	crawlDelay time.Duration

	// journal records per-URL outcomes. Optional; nil disables it.
	// Write-only: the engine never reads it back.
	journal *database.Journal

	// progress is invoked after each processed URL. Optional.
	progress func(Progress)

	// logger narrates the crawl.
	logger *slog.Logger

	// visited holds every dispatched snapshot URL.
	visited map[string]bool

	// originals holds the original URL of every successfully fetched
	// snapshot, collapsing snapshots of the same page.
	originals map[string]bool

	// fingerprints holds the body fingerprint of every accepted page.
	fingerprints map[string]bool

	stats Stats
}

// Stats counts processed URLs by outcome.
type Stats struct {
	// Processed is the total number of dispatched URLs.
	Processed int

	// Accepted pages contributed a section to the document.
	Accepted int

	// DuplicateExact URLs were dispatched more than once.
	DuplicateExact int

	// DuplicateOriginal snapshots shared an original with an earlier page.
	DuplicateOriginal int

	// DuplicateContent pages were fetched but byte-identical to earlier
	// content.
	DuplicateContent int

	// MalformedURL snapshots carried no recoverable original URL.
	MalformedURL int

	// FetchFailed URLs exhausted every fetch attempt.
	FetchFailed int

	// NoContent pages were fetched but had no extractable body region.
	NoContent int
}

// Progress is a point-in-time snapshot handed to the progress callback.
type Progress struct {
	// URL is the snapshot URL just processed.
	URL string

	// Outcome is the URL's terminal state.
	Outcome model.Outcome

	// Processed and Accepted mirror the running Stats counters.
	Processed int
	Accepted  int

	// Pending is the current worklist size.
	Pending int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScope sets the link scope predicate. The default accepts nothing,
// which limits the crawl to the start URL.
func WithScope(scope archive.ScopeFunc) Option {
	return func(e *Engine) {
		e.scope = scope
	}
}

// WithArchivePrefix sets the snapshot URL prefix used to derive
// original URLs.
func WithArchivePrefix(prefix string) Option {
	return func(e *Engine) {
		e.archivePrefix = prefix
	}
}

// WithCrawlDelay sets the politeness delay after each successful fetch.
func WithCrawlDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.crawlDelay = d
	}
}

// WithJournal enables outcome recording to the given journal.
func WithJournal(j *database.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithProgress sets a callback invoked after each processed URL.
func WithProgress(fn func(Progress)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithLogger sets the crawl logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine around its three collaborators.
//
// Design decision: We require the fetcher, extractor, and builder as
// explicit arguments rather than options because:
//  1. The engine cannot run without them
//  2. Tests inject collaborators pointed at httptest servers
//  3. Options stay reserved for genuinely optional behavior
func New(fetcher *fetch.Fetcher, extractor *extract.Extractor, builder *document.Builder, opts ...Option) *Engine {
	e := &Engine{
		fetcher:       fetcher,
		extractor:     extractor,
		builder:       builder,
		scope:         func(string) bool { return false },
		archivePrefix: "https://web.archive.org/web/",
		crawlDelay:    1 * time.Second,
		logger:        slog.Default(),
		visited:       make(map[string]bool),
		originals:     make(map[string]bool),
		fingerprints:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Stats returns the outcome counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Run crawls depth-first from startURL until the worklist drains or ctx
// is cancelled. The output document on disk is complete and openable
// after every accepted page; cancellation loses at most the in-flight
// URL.
func (e *Engine) Run(ctx context.Context, startURL string) error {
	worklist := []string{startURL}

	for len(worklist) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// LIFO pop keeps the traversal depth-first.
		url := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		outcome, page, links, err := e.process(ctx, url)
		if err != nil {
			return err
		}
		e.record(ctx, url, outcome, page)

		// Push in reverse so pop order matches document order.
		for i := len(links) - 1; i >= 0; i-- {
			worklist = append(worklist, links[i])
		}

		if e.progress != nil {
			e.progress(Progress{
				URL:       url,
				Outcome:   outcome,
				Processed: e.stats.Processed,
				Accepted:  e.stats.Accepted,
				Pending:   len(worklist),
			})
		}
	}

	e.logger.Info("crawl complete",
		"processed", e.stats.Processed,
		"accepted", e.stats.Accepted,
		"sections", e.builder.SectionCount(),
	)
	return nil
}

// process dispatches one URL to its outcome and returns the in-scope
// links to push. A non-nil error means the crawl itself must stop; all
// per-URL failures map to outcomes instead.
func (e *Engine) process(ctx context.Context, url string) (model.Outcome, *model.Page, []string, error) {
	if e.visited[url] {
		e.logger.Debug("skipping visited URL", "url", url)
		return model.OutcomeDuplicateExact, nil, nil, nil
	}
	// Every dispatched URL is marked up front: no skip branch below may
	// leave it eligible for re-dispatch.
	e.visited[url] = true

	original, err := archive.ExtractOriginal(url, e.archivePrefix)
	if err != nil {
		e.logger.Warn("no original URL in snapshot, skipping", "url", url)
		return model.OutcomeMalformedURL, nil, nil, nil
	}

	if e.originals[original] {
		e.logger.Debug("skipping other snapshot of same page", "url", url, "original", original)
		return model.OutcomeDuplicateOriginal, nil, nil, nil
	}

	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return model.OutcomeFetchFailed, nil, nil, ctx.Err()
		}
		// The URL stays visited, but the original stays unclaimed: a
		// different snapshot of the same page may still succeed later.
		e.logger.Warn("giving up on URL", "url", url, "error", err)
		return model.OutcomeFetchFailed, nil, nil, nil
	}
	e.originals[original] = true

	if err := e.pause(ctx); err != nil {
		return model.OutcomeFetchFailed, page, nil, err
	}

	body, err := e.extractor.Body(page)
	if err != nil {
		if errors.Is(err, extract.ErrNoContent) {
			e.logger.Debug("page has no body region", "url", url)
		} else {
			e.logger.Warn("failed to parse page", "url", url, "error", err)
		}
		// Fetched but nothing to add and no links to follow.
		return model.OutcomeNoContent, page, nil, nil
	}

	outcome := model.OutcomeAccepted
	if fp := e.extractor.Fingerprint(body); e.fingerprints[fp] {
		// Same bytes under a different URL: contribute nothing, but
		// still follow the links.
		e.logger.Debug("content already in document", "url", url)
		outcome = model.OutcomeDuplicateContent
	} else {
		e.fingerprints[fp] = true
		e.builder.Add(url, e.extractor.Blocks(body))
		if err := e.builder.Save(); err != nil {
			// The section stays in memory; the next successful save
			// includes it.
			e.logger.Error("failed to save document", "path", e.builder.Path(), "error", err)
		} else {
			e.logger.Info("content added", "url", url, "sections", e.builder.SectionCount())
		}
	}

	return outcome, page, e.collectLinks(url, body), nil
}

// collectLinks normalizes the body's anchors against the page URL and
// keeps the in-scope, not-yet-visited ones, preserving document order.
// Visited URLs are filtered here only as a cheap pre-check; the
// authoritative check happens again at dispatch.
func (e *Engine) collectLinks(pageURL string, body *goquery.Selection) []string {
	var links []string
	seen := make(map[string]bool)

	for _, href := range e.extractor.Links(body) {
		normalized, err := archive.Normalize(pageURL, href)
		if err != nil {
			e.logger.Debug("unparseable link", "href", href, "error", err)
			continue
		}
		if !e.scope(normalized) || e.visited[normalized] || seen[normalized] {
			continue
		}
		seen[normalized] = true
		links = append(links, normalized)
	}

	return links
}

// pause applies the politeness delay, honoring cancellation.
func (e *Engine) pause(ctx context.Context) error {
	if e.crawlDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.crawlDelay):
		return nil
	}
}

// record updates the outcome counters and, when enabled, the journal.
func (e *Engine) record(ctx context.Context, url string, outcome model.Outcome, page *model.Page) {
	e.stats.Processed++
	switch outcome {
	case model.OutcomeAccepted:
		e.stats.Accepted++
	case model.OutcomeDuplicateExact:
		e.stats.DuplicateExact++
	case model.OutcomeDuplicateOriginal:
		e.stats.DuplicateOriginal++
	case model.OutcomeDuplicateContent:
		e.stats.DuplicateContent++
	case model.OutcomeMalformedURL:
		e.stats.MalformedURL++
	case model.OutcomeFetchFailed:
		e.stats.FetchFailed++
	case model.OutcomeNoContent:
		e.stats.NoContent++
	}

	if e.journal == nil {
		return
	}

	rec := &database.PageRecord{URL: url, Outcome: outcome}
	if original, err := archive.ExtractOriginal(url, e.archivePrefix); err == nil {
		rec.OriginalURL = original
	}
	if page != nil {
		rec.StatusCode = page.StatusCode
		rec.ContentHash = page.Hash
	}
	if err := e.journal.RecordPage(ctx, rec); err != nil {
		// Journal trouble never stops a crawl.
		e.logger.Warn("failed to record outcome", "url", url, "error", err)
	}
}
