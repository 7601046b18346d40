package httputil

import (
	"context"
	"errors"
	"fmt"
)

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d (%s) from %s", e.StatusCode, e.Status, e.URL)
}

// NetworkError is a transport-level failure: DNS, timeout, connection
// reset, or a context cancellation aborting the request.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Canceled reports whether the failure was a deliberate abort rather
// than an upstream fault.
func (e *NetworkError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCancellation reports whether err is, or wraps, a context
// cancellation. The aggregator uses this to tell a clean shutdown from
// a supplier fault.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) && ne.Canceled() {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
