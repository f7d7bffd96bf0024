package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// NewHTTPError builds the error for a non-2xx response. The message is taken
// from a "detail" or "message" string field of a JSON object body, falling
// back to "HTTP <status>".
func NewHTTPError(statusCode int, payload any) *APIError {
	return &APIError{
		Message:    messageFromPayload(statusCode, payload),
		StatusCode: statusCode,
		Payload:    payload,
	}
}

// NewNetworkError wraps a transport failure. Payload keeps the original error.
func NewNetworkError(operation string, err error) *APIError {
	msg := "network error"
	if err != nil {
		msg = err.Error()
	}
	if operation != "" {
		msg = fmt.Sprintf("%s: %s", operation, msg)
	}
	return &APIError{
		Message:    msg,
		StatusCode: StatusNetwork,
		Payload:    err,
	}
}

// NewTimeoutError reports that the request did not complete before the
// client deadline.
func NewTimeoutError() *APIError {
	return &APIError{
		Message:    "Request timeout",
		StatusCode: http.StatusRequestTimeout,
	}
}

// NewDecodeError reports a 2xx body that could not be decoded into the typed
// response expected by the caller.
func NewDecodeError(statusCode int, payload any, err error) *APIError {
	return &APIError{
		Message:    fmt.Sprintf("decode response: %v", err),
		StatusCode: statusCode,
		Payload:    payload,
	}
}

func messageFromPayload(statusCode int, payload any) string {
	if obj, ok := payload.(map[string]any); ok {
		for _, key := range []string{"detail", "message"} {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
