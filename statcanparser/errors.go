package statcanparser

import "errors"

// Error kinds surfaced by GetTable and RefreshTable. Callers match them with
// errors.Is; the wrapped message carries the underlying cause.
var (
	// ErrTransport reports a network failure or a non-success HTTP status
	// while downloading a table on a cache miss.
	ErrTransport = errors.New("statcan: transport error")

	// ErrFilesystem reports that the cache directory or a cache file could
	// not be created, written, or read.
	ErrFilesystem = errors.New("statcan: filesystem error")

	// ErrParse reports that downloaded or cached content could not be
	// decoded into tabular form.
	ErrParse = errors.New("statcan: parse error")
)
