// Package client is the SDK for the certification exam backend. A Client sends
// authenticated, deadline-bounded JSON requests and keeps the login session
// (bearer token and cached user) in a durable SessionStore.
package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/georgelotishvili/certification/config"
)

// Keys under which the session is persisted.
const (
	KeyToken       = "auth_token"
	KeyCurrentUser = "current_user"
)

// ActorEmailHeader carries the acting admin's identity for audit purposes.
const ActorEmailHeader = "x-actor-email"

// RequestIDHeader is set on every request unless the caller provides one.
const RequestIDHeader = "X-Request-ID"

// SessionStore persists the session between process restarts.
// Package sessionstore provides SQLite and in-memory implementations.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	cfg   config.Config
	http  *http.Client
	store SessionStore
	log   zerolog.Logger

	debug    bool
	registry prometheus.Registerer
	metrics  *clientMetrics

	mu          sync.Mutex // guards token and tokenLoaded
	token       string
	tokenLoaded bool

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for cfg that persists its session in store.
// The composition root is expected to build exactly one Client per process
// and pass it to whoever needs it.
func New(cfg config.Config, store SessionStore, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("session store cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:   cfg,
		store: store,
		http:  &http.Client{},
		log:   zerolog.Nop(),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() || cfg.Debug {
		c.debug = true
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.debug {
		// copy so a client passed via WithHTTPClient is left as the caller built it
		wrapped := *c.http
		base := wrapped.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		wrapped.Transport = &debugTransport{base: base, log: c.log}
		c.http = &wrapped
	}
	c.metrics = newClientMetrics(c.registry)

	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() config.Config { return c.cfg }

// Close releases the session store. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	return c.store.Close()
}

// currentToken returns the active token, reading it from the store on first
// use. A store failure is logged and treated as "no token"; the next call
// tries again.
func (c *Client) currentToken(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokenLoaded {
		return c.token
	}

	tok, ok, err := c.store.Get(ctx, KeyToken)
	if err != nil {
		c.log.Warn().Stack().Err(err).Msg("load persisted token")
		return ""
	}
	if ok {
		c.token = tok
	}
	c.tokenLoaded = true
	return c.token
}
