package httprange

import (
	"errors"
	"fmt"
)

// ErrRangeNotSupported is returned by Fetcher.Fetch if the server replies with the full content (200 OK) instead of
// the requested range.
var ErrRangeNotSupported = errors.New("server does not support range requests")

// StatusError is returned when the server replies with a non-success HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.URL, e.Status)
}
