package client

import (
	apierrors "github.com/georgelotishvili/certification/client/internal/errors"
)

// APIError is the single error shape returned by the client. Branch on
// StatusCode: 0 for network failures, 408 for timeouts, else the HTTP status.
type APIError = apierrors.APIError

// ErrorCategory is the failure class derived from an APIError's StatusCode.
type ErrorCategory = apierrors.Category

const (
	CategoryNetwork = apierrors.Network
	CategoryTimeout = apierrors.Timeout
	CategoryHTTP    = apierrors.HTTP
)

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) { return apierrors.As(err) }

// StatusCode returns the StatusCode of err, or -1 when err is not an APIError.
func StatusCode(err error) int { return apierrors.StatusCode(err) }

// IsTimeout reports whether err is a client-side timeout.
func IsTimeout(err error) bool { return apierrors.IsTimeout(err) }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool { return apierrors.IsNetwork(err) }

// IsUnauthorized reports whether the backend answered 401. The client never
// logs out on its own; that decision is the caller's.
func IsUnauthorized(err error) bool { return apierrors.IsUnauthorized(err) }
