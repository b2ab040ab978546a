package directory

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the request context was cancelled before
// the response was processed. Callers discard it silently.
var ErrCancelled = errors.New("request cancelled")

// NetworkError is a transport failure: DNS, refused connection, TLS or
// timeout.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// ParseError means the response body was not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsCancelled reports whether err is a cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsHTTPStatus reports whether err is an HTTP error with the given status.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

// IsParse reports whether err is a malformed response.
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
