package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgelotishvili/certification/internal/apitest"
)

// cli runs examctl against baseURL with a session file private to the test.
type cli struct {
	t       *testing.T
	session string
}

func newCLI(t *testing.T, baseURL string) *cli {
	t.Helper()
	t.Setenv("EXAM_CLIENT_BASE_URL", baseURL)
	t.Setenv("EXAM_CLIENT_HOME", t.TempDir())
	return &cli{t: t, session: filepath.Join(t.TempDir(), "session.db")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--session", c.session}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	_, err := c.run("whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)

	out, err := c.run("login", "a@b.com", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Logged in as a@b.com\n", out)

	out, err = c.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "a@b.com"`)

	out, err = c.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": true`)

	_, err = c.run("profile")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", b.Last().Header.Get("Authorization"), "session survives between invocations")

	out, err = c.run("logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)

	_, err = c.run("whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestCLI_LoginPasswordFromStdin(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("pw\n"))
	root.SetArgs([]string{"--session", c.session, "login", "a@b.com"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "Logged in as a@b.com\n", out.String())
}

func TestCLI_LoginRejected(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	_, err := c.run("login", "a@b.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestCLI_Request(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	_, err := c.run("login", "a@b.com", "-p", "pw")
	require.NoError(t, err)

	out, err := c.run("request", "post", "/echo", "--data", `{"x":1}`, "-H", "X-Panel: roster", "--actor", "admin@exam.ge")
	require.NoError(t, err)
	assert.Contains(t, out, `"method": "POST"`)

	last := b.Last()
	assert.Equal(t, "roster", last.Header.Get("X-Panel"))
	assert.Equal(t, "admin@exam.ge", last.Header.Get("X-Actor-Email"))

	_, err = c.run("request", "GET", "/echo", "-H", "broken")
	assert.Error(t, err)
	_, err = c.run("request", "POST", "/echo", "--data", "{")
	assert.Error(t, err)
}

func TestCLI_ExamConfigAndGate(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	out, err := c.run("exam-config")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Certification"`)

	_, err = c.run("login", "a@b.com", "-p", "pw")
	require.NoError(t, err)
	out, err = c.run("exam-config", "--update", `{"id":1,"title":"Final","duration_minutes":90}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"duration_minutes": 90`)
	assert.Equal(t, "a@b.com", b.Last().Header.Get("X-Actor-Email"), "actor defaults to the logged-in user")

	out, err = c.run("verify-gate", "1", "open-sesame")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	_, err = c.run("verify-gate", "abc", "x")
	assert.Error(t, err)
}

func TestCLI_ConfigFile(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, "http://127.0.0.1:1")

	path := filepath.Join(t.TempDir(), "examctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: "+b.URL()+"\ntimeout: 5s\n"), 0o600))

	out, err := c.run("--config", path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, b.URL())
	assert.Contains(t, out, `"timeout": "5s"`)
}

func TestCLI_JSONLogFormat(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--session", c.session, "--log-format", "json", "--debug", "status"})
	require.NoError(t, root.Execute())

	first := strings.SplitN(strings.TrimSpace(errOut.String()), "\n", 2)[0]
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &entry), errOut.String())
	assert.Equal(t, "examctl", entry["service"])

	_, err := c.run("--log-format", "xml", "status")
	assert.ErrorContains(t, err, "unknown --log-format")
}

func TestCLI_UnopenableSessionIsWrapped(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	c.session = filepath.Join(blocker, "session.db")

	_, err := c.run("status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open session store")
}

func TestCLI_PingRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()
	c := newCLI(t, srv.URL)

	out, err := c.run("ping", "--retries", "5", "--interval", "1ms")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ok (3 attempt(s)"), out)
}

func TestCLI_PingGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := newCLI(t, srv.URL)

	_, err := c.run("ping", "--retries", "2", "--interval", "1ms")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCLI_PingDoesNotRetryClientErrors(t *testing.T) {
	b := apitest.New(t)
	c := newCLI(t, b.URL())

	_, err := c.run("ping", "--path", "/status/404", "--retries", "5", "--interval", "1ms")
	require.Error(t, err)
	assert.Len(t, b.Requests(), 1)
}
