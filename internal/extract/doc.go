// Package extract converts fetched archive snapshots into ordered content
// blocks.
//
// Extraction is a pure transform: the same raw HTML always yields the
// same block sequence and the same fingerprint string. The archive
// service injects its own toolbar into every snapshot, so stripping that
// chrome is a required pre-filter: leaving it in would poison the
// content fingerprints that drive deduplication.
//
// Only the direct structural children of the body (h1-h4, p, ul, ol) are
// decomposed; structural tags nested inside other containers are not
// independently visited at the top level.
package extract
