package domain

import "errors"

var (
	// ErrMalformedRepositoryURL is returned when a repository identifier
	// cannot be parsed or has no path segments.
	ErrMalformedRepositoryURL = errors.New("malformed repository url")
	// ErrMalformedTimestamp is returned when a date field is shorter than YYYY-MM-DD.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrSourceFetchFailed is returned when issues for a repository cannot be fetched.
	ErrSourceFetchFailed = errors.New("source fetch failed")
	ErrInvalidConfig     = errors.New("invalid config")
)
