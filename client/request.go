package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/georgelotishvili/certification/client/internal/errors"
)

// Request sends one HTTP request to BaseURL+endpoint and returns the decoded
// response body: a JSON value (map[string]any, []any, string, float64, bool or
// nil) for JSON responses, otherwise the body as a string.
//
// Every error returned is an *APIError.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, opts *RequestOptions) (any, error) {
	res, err := c.Do(ctx, Call{Method: method, Endpoint: endpoint, Body: body, Options: opts})
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts *RequestOptions) (any, error) {
	return c.Request(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts *RequestOptions) (any, error) {
	return c.Request(ctx, http.MethodPost, endpoint, body, opts)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts *RequestOptions) (any, error) {
	return c.Request(ctx, http.MethodPut, endpoint, body, opts)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts *RequestOptions) (any, error) {
	return c.Request(ctx, http.MethodPatch, endpoint, body, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts *RequestOptions) (any, error) {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, opts)
}

// Do executes call and returns the full result of a 2xx exchange.
// The request is bounded by the configured timeout; when it fires the
// in-flight request is cancelled and a 408 APIError is returned.
func (c *Client) Do(ctx context.Context, call Call) (*Result, error) {
	method := strings.ToUpper(call.Method)
	if !supportedMethod(method) {
		return nil, &APIError{Message: fmt.Sprintf("unsupported method %q", call.Method), StatusCode: apierrors.StatusNetwork}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout.Std())
	defer cancel()

	c.metrics.inflight.Inc()
	defer c.metrics.inflight.Dec()

	reqID := requestID(call.Options)
	start := time.Now()
	res, err := c.send(ctx, method, call, reqID)
	elapsed := time.Since(start)

	code := 0
	switch {
	case err != nil:
		code = apierrors.StatusCode(err)
	case res != nil:
		code = res.StatusCode
	}
	c.metrics.observe(method, code, elapsed)

	c.log.Debug().
		Err(err).
		Str("method", method).
		Str("endpoint", call.Endpoint).
		Str("request_id", reqID).
		Int("status_code", code).
		Dur("elapsed", elapsed).
		Msg("api request")

	return res, err
}

func (c *Client) send(ctx context.Context, method string, call Call, reqID string) (*Result, error) {
	var reader io.Reader
	if hasBody(method) && call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode request body: %v", err), StatusCode: apierrors.StatusNetwork, Payload: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+call.Endpoint, reader)
	if err != nil {
		return nil, apierrors.NewNetworkError("build request", err)
	}
	c.applyHeaders(ctx, req, call.Options, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, method+" "+call.Endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, "read response", err)
	}

	payload := decodeBody(resp.Header.Get("Content-Type"), raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.NewHTTPError(resp.StatusCode, payload)
	}
	return &Result{StatusCode: resp.StatusCode, Header: resp.Header, Body: payload}, nil
}

// applyHeaders builds the header set: JSON content type, then caller headers,
// then the credentials the client owns.
func (c *Client) applyHeaders(ctx context.Context, req *http.Request, opts *RequestOptions, reqID string) {
	req.Header.Set("Content-Type", "application/json")

	var actor string
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
		actor = strings.TrimSpace(opts.ActorEmail)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, reqID)
	}

	if tok := c.currentToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
		if actor != "" {
			req.Header.Set(ActorEmailHeader, actor)
		}
	}
}

// requestID returns the caller's X-Request-ID, or a fresh one.
func requestID(opts *RequestOptions) string {
	if opts != nil {
		for k, v := range opts.Headers {
			if http.CanonicalHeaderKey(k) == RequestIDHeader && v != "" {
				return v
			}
		}
	}
	return uuid.NewString()
}

// transportError maps a failed round trip to either a timeout or a network
// APIError.
func transportError(ctx context.Context, op string, err error) *APIError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError()
	}
	return apierrors.NewNetworkError(op, err)
}

// decodeBody parses JSON when the content type declares it. Anything else,
// including malformed JSON, is returned as text. An empty body is nil.
func decodeBody(contentType string, raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		if isJSON(contentType) {
			return nil
		}
		return string(raw)
	}
	if !isJSON(contentType) {
		return string(raw)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func supportedMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func hasBody(m string) bool {
	return m == http.MethodPost || m == http.MethodPut || m == http.MethodPatch
}
