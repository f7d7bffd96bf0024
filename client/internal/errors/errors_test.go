package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPError_MessageSelection(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"detail wins", map[string]any{"detail": "not found", "message": "other"}, "not found"},
		{"message fallback", map[string]any{"message": "bad input"}, "bad input"},
		{"non-string detail", map[string]any{"detail": []any{"x"}}, "HTTP 422"},
		{"blank detail", map[string]any{"detail": "  "}, "HTTP 422"},
		{"text body", "oops", "HTTP 422"},
		{"nil body", nil, "HTTP 422"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHTTPError(422, tt.payload)
			assert.Equal(t, tt.want, err.Message)
			assert.Equal(t, 422, err.StatusCode)
			assert.Equal(t, tt.payload, err.Payload)
			assert.Equal(t, HTTP, err.Category())
		})
	}
}

func TestCategories(t *testing.T) {
	assert.Equal(t, Network, NewNetworkError("get", stderrors.New("refused")).Category())
	assert.Equal(t, Timeout, NewTimeoutError().Category())
	assert.Equal(t, HTTP, NewHTTPError(500, nil).Category())
	assert.Equal(t, "Unknown(9)", Category(9).String())
}

func TestNetworkErrorUnwrap(t *testing.T) {
	err := NewNetworkError("GET /x", context.Canceled)
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.Equal(t, 0, err.StatusCode)
	assert.Equal(t, context.Canceled, err.Payload)
	assert.Contains(t, err.Error(), "[Network] GET /x")
}

func TestHelpersThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load profile: %w", NewHTTPError(401, map[string]any{"detail": "expired"}))

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "expired", apiErr.Message)
	assert.True(t, IsUnauthorized(wrapped))
	assert.False(t, IsTimeout(wrapped))
	assert.Equal(t, 401, StatusCode(wrapped))

	assert.True(t, IsTimeout(NewTimeoutError()))
	assert.True(t, IsNetwork(NewNetworkError("", nil)))
	assert.Equal(t, -1, StatusCode(stderrors.New("plain")))
	assert.Equal(t, -1, StatusCode(nil))
}
