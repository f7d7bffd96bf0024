package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/georgelotishvili/certification/client/internal/api"
)

// --------------------------------------------------------------------
// Session operations
// --------------------------------------------------------------------

// Login posts the credentials to the configured login endpoint. A "token"
// field in the response becomes the active token and a non-empty "user"
// field becomes the cached current user; both are persisted. The raw response is returned
// whether or not those fields were present, so callers must check it.
//
// Request failures are returned as *APIError without retry. A failure to
// persist the session is returned as a wrapped store error alongside the
// response.
func (c *Client) Login(ctx context.Context, email, password string) (any, error) {
	resp, err := c.Post(ctx, c.cfg.Endpoints.Auth.Login, LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	obj, ok := resp.(map[string]any)
	if !ok {
		return resp, nil
	}
	// The user goes first so a failed write leaves the previous session as it
	// was. If the token write fails after that, the new user sits next to the
	// previous token (or none) until the next login or logout.
	if user := obj["user"]; present(user) {
		if err := c.setCurrentUser(ctx, user); err != nil {
			return resp, err
		}
	}
	if tok, ok := obj["token"].(string); ok && tok != "" {
		if err := c.SetToken(ctx, tok); err != nil {
			return resp, err
		}
	}
	c.log.Debug().Str("email", email).Msg("logged in")
	return resp, nil
}

// RequestCode asks the backend to send a one-time login code to email.
func (c *Client) RequestCode(ctx context.Context, email string) (any, error) {
	return api.RequestCode(ctx, c, c.cfg.Endpoints.Auth.Code, email)
}

// Logout forgets the token and the cached user, in memory and in the store.
// Logging out without a session is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.tokenLoaded = true
	if err := c.store.Delete(ctx, KeyToken, KeyCurrentUser); err != nil {
		// the persisted token may still be there; reload it next time
		c.tokenLoaded = false
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SetToken replaces the active token and persists it. An empty token clears
// the persisted entry.
func (c *Client) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)

	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if token == "" {
		err = c.store.Delete(ctx, KeyToken)
	} else {
		err = c.store.Set(ctx, KeyToken, token)
	}
	if err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	c.token = token
	c.tokenLoaded = true
	return nil
}

// Token returns the active bearer token, or "" when logged out.
func (c *Client) Token(ctx context.Context) string {
	return c.currentToken(ctx)
}

// CurrentUser returns the cached user as decoded JSON, or nil when none is
// stored. Unreadable or corrupt data is also reported as nil.
func (c *Client) CurrentUser(ctx context.Context) any {
	raw, ok, err := c.store.Get(ctx, KeyCurrentUser)
	if err != nil {
		c.log.Warn().Stack().Err(err).Msg("load current user")
		return nil
	}
	if !ok {
		return nil
	}
	var user any
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		c.log.Warn().Stack().Err(err).Msg("discarding corrupt current user entry")
		return nil
	}
	if !present(user) {
		return nil
	}
	return user
}

// present reports whether a decoded JSON value counts as a user: null, false,
// 0 and "" do not.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

// IsAuthenticated reports whether a token and a cached user are both present.
// It is a local check; the backend may still reject the token.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.currentToken(ctx) != "" && c.CurrentUser(ctx) != nil
}

func (c *Client) setCurrentUser(ctx context.Context, user any) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := c.store.Set(ctx, KeyCurrentUser, string(data)); err != nil {
		return fmt.Errorf("persist current user: %w", err)
	}
	return nil
}
