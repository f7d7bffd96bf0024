package client

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
//
// Options are applied before the debug transport is installed, so a custom
// http.Client supplied here still gets wrapped when debug logging is on.
type Option func(*Client) error

// WithHTTPClient replaces the underlying http.Client. The configured request
// timeout is still enforced per call through the request context.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		if h == nil {
			return errors.New("http client cannot be nil")
		}
		c.http = h
		return nil
	}
}

// WithLogger sets the logger used for request and session diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// dumped at debug level when enabled is true. Authorization headers are
// redacted, bodies are not: do not enable this in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}

// WithMetricsRegisterer registers the client's Prometheus collectors with reg.
// Without it the collectors are kept but not registered anywhere.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		c.registry = reg
		return nil
	}
}
