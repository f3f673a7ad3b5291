package triage

import (
	"fmt"

	"github.com/vilaca/github-issues/internal/domain"
)

// dateLength is the length of a YYYY-MM-DD calendar date.
const dateLength = 10

// NormalizeDate keeps only the calendar date of a timestamp such as
// "2021-03-05T12:00:00Z".
func NormalizeDate(timestamp string) (string, error) {
	if len(timestamp) < dateLength {
		return "", fmt.Errorf("%w: %q", domain.ErrMalformedTimestamp, timestamp)
	}
	return timestamp[:dateLength], nil
}

// NormalizeOptionalDate is NormalizeDate for optional fields; nil stays nil.
func NormalizeOptionalDate(timestamp *string) (*string, error) {
	if timestamp == nil {
		return nil, nil
	}
	date, err := NormalizeDate(*timestamp)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
