package archive

import "errors"

// ErrMalformedURL is returned when no original URL can be derived from a
// snapshot URL. The caller must skip the URL and log; it is never fatal
// to a run.
var ErrMalformedURL = errors.New("malformed archive URL: no original URL after archive prefix")
