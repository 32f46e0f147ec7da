package model

// Outcome is the terminal state of a URL after the crawl engine has
// dispatched it. Every dispatched URL ends in exactly one outcome and is
// never revisited.
//
// Design decision: We use iota-based constants rather than strings for
// cheap comparisons in the engine's hot path. String() provides the
// human-readable form for logs and the crawl journal.
type Outcome int

const (
	// OutcomeAccepted means the page was fetched and its content was
	// appended to the output document.
	OutcomeAccepted Outcome = iota

	// OutcomeDuplicateExact means the exact snapshot URL was already
	// dispatched earlier in the run.
	OutcomeDuplicateExact

	// OutcomeDuplicateOriginal means a different snapshot of the same
	// original page was already processed.
	OutcomeDuplicateOriginal

	// OutcomeDuplicateContent means the page was fetched but its body was
	// byte-identical to content already in the document. Links are still
	// followed.
	OutcomeDuplicateContent

	// OutcomeMalformedURL means no original URL could be derived from the
	// snapshot URL.
	OutcomeMalformedURL

	// OutcomeFetchFailed means all fetch attempts were exhausted.
	OutcomeFetchFailed

	// OutcomeNoContent means the page was fetched but no body region
	// could be extracted, so it contributed neither content nor links.
	OutcomeNoContent
)

// String returns a stable, human-readable name for the outcome.
// These strings are also stored in the crawl journal, so changing them
// breaks journal queries across versions.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDuplicateExact:
		return "duplicate-exact"
	case OutcomeDuplicateOriginal:
		return "duplicate-original"
	case OutcomeDuplicateContent:
		return "duplicate-content"
	case OutcomeMalformedURL:
		return "malformed-url"
	case OutcomeFetchFailed:
		return "fetch-failed"
	case OutcomeNoContent:
		return "no-content"
	default:
		return "unknown"
	}
}

// Fetched reports whether the outcome involved a successful fetch.
// Accepted, duplicate-content, and no-content pages were fetched; all
// skip outcomes and fetch failures were not.
func (o Outcome) Fetched() bool {
	return o == OutcomeAccepted || o == OutcomeDuplicateContent || o == OutcomeNoContent
}
