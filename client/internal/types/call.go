package types

import "net/http"

// ------------------------------
// Request lifecycle
// ------------------------------

// RequestOptions are per-call extras. They are never retained by the client.
type RequestOptions struct {
	// Headers are merged over the defaults; the caller wins on conflict except
	// for Authorization and the actor header, which the client controls.
	Headers map[string]string

	// ActorEmail is sent as x-actor-email on authenticated calls.
	ActorEmail string
}

// Call is one HTTP exchange to prepare and send.
type Call struct {
	Method   string
	Endpoint string // path appended to the base URL
	Body     any    // JSON-encoded for POST, PUT and PATCH only
	Options  *RequestOptions
}

// Result is a completed 2xx exchange.
type Result struct {
	StatusCode int
	Header     http.Header
	// Body is the decoded JSON value, or the raw text when the response is
	// not declared JSON or fails to parse.
	Body any
}
