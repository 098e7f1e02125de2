package ingest

import "fmt"

// FetchError indicates the feed document could not be retrieved: network
// failure, timeout, or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError indicates the feed document was retrieved but is not valid
// RSS/Atom.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
