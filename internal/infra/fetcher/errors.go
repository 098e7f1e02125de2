// Package fetcher retrieves the readable text of article web pages, used
// to enhance feed items whose embedded content is too thin.
package fetcher

import "errors"

var (
	// ErrInvalidURL indicates the URL failed validation before any request
	// was made.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the URL resolves to a private or loopback
	// address and was refused.
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrTimeout indicates the fetch exceeded its configured timeout.
	ErrTimeout = errors.New("content fetch timed out")

	// ErrTooManyRedirects indicates the redirect chain exceeded the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrNoReadableContent indicates the page yielded no extractable text.
	ErrNoReadableContent = errors.New("no readable content")
)
