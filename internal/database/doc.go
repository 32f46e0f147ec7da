// Package database provides the SQLite crawl journal.
//
// The journal records every URL the crawl engine processed along with
// its outcome. It is written for observability only: the crawl never
// consults it, so deleting the journal changes nothing about a run and
// two runs never influence each other through it.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// plain log file because:
// 1. No external dependencies - the journal is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Outcomes can be aggregated with a query after the run
// 4. WAL mode keeps journal writes cheap during the crawl
package database
