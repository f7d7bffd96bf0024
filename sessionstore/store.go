// Package sessionstore provides the durable key-value storage that keeps the
// client session (auth token and cached user) across process restarts.
package sessionstore

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("session store closed")

// Store is a string-keyed durable map. Get reports a missing key with
// ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes all given keys in one step. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
