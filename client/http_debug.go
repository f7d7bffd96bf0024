package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// debugTransport logs every request and response at debug level.
//
// Enable it with EXAM_CLIENT_DEBUG=true (or DEBUG=true), the config's Debug
// flag, or WithDebugLogging(true). The Authorization header is replaced with
// "Bearer [redacted]" and credential fields of JSON bodies (see
// secretFields) are masked in both directions.
type debugTransport struct {
	base http.RoundTripper
	log  zerolog.Logger
}

const redactedValue = "[redacted]"

// secretFields are masked at any depth of a dumped JSON body.
var secretFields = map[string]bool{
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"password":      true,
	"gate_password": true,
	"code":          true,
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := dumpRequest(req); err == nil {
		dt.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", reqDump).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.Error().Stack().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := dumpResponse(resp); err == nil {
		dt.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", respDump).Msg("HTTP response")
	}
	return resp, nil
}

// dumpRequest renders req with a redacted Authorization header. The body is
// read from GetBody so the original stays untouched for the real round trip.
func dumpRequest(req *http.Request) (string, error) {
	redacted := req.Clone(req.Context())
	if redacted.Header.Get("Authorization") != "" {
		redacted.Header.Set("Authorization", "Bearer "+redactedValue)
	}
	redacted.Body = nil
	redacted.GetBody = nil
	redacted.ContentLength = 0

	head, err := httputil.DumpRequestOut(redacted, false)
	if err != nil {
		return "", err
	}
	if req.GetBody == nil {
		return string(head), nil
	}
	body, err := req.GetBody()
	if err != nil {
		return string(head), nil
	}
	defer func() { _ = body.Close() }()
	data, err := io.ReadAll(body)
	if err != nil {
		return string(head), nil
	}
	return string(head) + string(redactBody(req.Header.Get("Content-Type"), data)), nil
}

// dumpResponse renders resp with a redacted body and puts an unread copy of
// the body back for the caller.
func dumpResponse(resp *http.Response) (string, error) {
	head, err := httputil.DumpResponse(resp, false)
	if err != nil {
		return "", err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return string(head), nil
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return string(head), nil
	}
	return string(head) + string(redactBody(resp.Header.Get("Content-Type"), data)), nil
}

// redactBody masks secretFields in a JSON body. Bodies that do not parse
// as JSON are replaced entirely when they look like a form post.
func redactBody(contentType string, data []byte) []byte {
	if len(bytes.TrimSpace(data)) == 0 {
		return data
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
			return []byte(redactedValue)
		}
		return data
	}
	out, err := json.Marshal(redactValue(v))
	if err != nil {
		return []byte(redactedValue)
	}
	return out
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if secretFields[strings.ToLower(k)] {
				t[k] = redactedValue
				continue
			}
			t[k] = redactValue(val)
		}
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
	}
	return v
}

// debugLoggingRequested reports whether EXAM_CLIENT_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("EXAM_CLIENT_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
