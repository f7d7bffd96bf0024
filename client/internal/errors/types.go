// Package errors defines the single error shape returned by the client SDK.
// Every failure path (transport, deadline, non-2xx status) is normalized into
// an *APIError so callers can branch on StatusCode alone.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Category tells which failure class produced an APIError.
type Category int

const (
	// Network covers DNS failures, refused connections, resets and
	// cancellation by the caller. StatusCode is 0.
	Network Category = iota

	// Timeout means the client deadline fired before the response completed.
	// StatusCode is 408.
	Timeout

	// HTTP means the server answered with a non-2xx status.
	HTTP
)

// String returns a human-readable representation of the category.
func (c Category) String() string {
	switch c {
	case Network:
		return "Network"
	case Timeout:
		return "Timeout"
	case HTTP:
		return "HTTP"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// StatusNetwork is the StatusCode carried by transport-level failures.
const StatusNetwork = 0

// APIError is the uniform error returned by every client call.
type APIError struct {
	Message    string
	StatusCode int // 0 for network failures, 408 for timeouts, else HTTP status
	Payload    any // parsed response body, or the transport error for Network
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %s", e.Category(), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Category(), e.Message)
}

// Unwrap exposes the transport error of a network failure so errors.Is
// against net or context sentinels keeps working.
func (e *APIError) Unwrap() error {
	if err, ok := e.Payload.(error); ok {
		return err
	}
	return nil
}

// Category derives the failure class from StatusCode.
func (e *APIError) Category() Category {
	switch e.StatusCode {
	case StatusNetwork:
		return Network
	case http.StatusRequestTimeout:
		return Timeout
	default:
		return HTTP
	}
}

// As returns the *APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the StatusCode of the APIError in err's chain, or -1 when
// err is nil or not an APIError.
func StatusCode(err error) int {
	if apiErr, ok := As(err); ok {
		return apiErr.StatusCode
	}
	return -1
}

// IsTimeout reports whether err is a client-side timeout.
func IsTimeout(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Category() == Timeout
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Category() == Network
}

// IsUnauthorized reports whether the server rejected the credentials.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
