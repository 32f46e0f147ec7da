// Package crawler implements the depth-first crawl engine.
//
// The engine pops archived URLs off an explicit worklist, decides each
// one's outcome (accepted, one of three duplicate kinds, malformed, or
// fetch-failed), appends accepted content to the output document, and
// pushes in-scope links for later processing.
//
// Design decision: We use an explicit LIFO worklist instead of
// recursion because:
//  1. Crawl depth is bounded by the site, not the Go stack
//  2. Cancellation has a single check point at the top of the loop
//  3. Links are pushed in reverse so pop order matches document order
//
// All dedup state lives on the Engine instance. Two engines never share
// state, and nothing survives a run.
package crawler
