// Package apitest runs an in-process fake of the exam backend for tests. It
// serves the default endpoint paths from config.Default and records every
// request it receives.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Account is a user the fake backend accepts at login.
type Account struct {
	Password string
	Token    string
	User     map[string]any
}

// Recorded is one request as the backend saw it.
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Backend is the fake server. Exported fields may be changed before requests
// are sent; use the methods once the test is running concurrently.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts map[string]Account
	exam     map[string]any
	gates    map[string]string // exam id -> password
	requests []Recorded
	block    chan struct{}
}

// New starts a backend with one account, a@b.com / pw, which logs in as
// {"token":"tok1","user":{"id":1}}. The server is closed on test cleanup.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		accounts: map[string]Account{
			"a@b.com": {Password: "pw", Token: "tok1", User: map[string]any{"id": float64(1), "email": "a@b.com"}},
		},
		exam: map[string]any{
			"id": float64(1), "title": "Certification", "duration_minutes": float64(60), "is_active": true,
		},
		gates: map[string]string{"1": "open-sesame"},
		block: make(chan struct{}),
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(func() {
		b.Unblock()
		b.Server.Close()
	})
	return b
}

// URL is the base URL of the server.
func (b *Backend) URL() string { return b.Server.URL }

// AddAccount registers another login.
func (b *Backend) AddAccount(email string, acc Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[email] = acc
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Recorded, len(b.requests))
	copy(out, b.requests)
	return out
}

// Last returns the most recent request, or a zero value.
func (b *Backend) Last() Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Recorded{}
	}
	return b.requests[len(b.requests)-1]
}

// Unblock releases every request parked on /slow. Idempotent.
func (b *Backend) Unblock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.block:
	default:
		close(b.block)
	}
}

func (b *Backend) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/auth/login", b.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/code", b.handleCode).Methods(http.MethodPost)
	r.HandleFunc("/users/profile", b.authenticated(b.handleProfile)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/public", b.handlePublicProfile).Methods(http.MethodGet)
	r.HandleFunc("/exam/config", b.handleGetExam).Methods(http.MethodGet)
	r.HandleFunc("/exam/config", b.authenticated(b.handlePutExam)).Methods(http.MethodPut)
	r.HandleFunc("/exam/{id}/verify-gate", b.handleVerifyGate).Methods(http.MethodPost)

	// fixtures for transport edge cases
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.HandleFunc("/echo", b.handleEcho)
	r.HandleFunc("/text", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "plain text")
	})
	r.HandleFunc("/no-content", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.HandleFunc("/slow", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-b.block:
		case <-req.Context().Done():
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"late": true})
	})
	r.HandleFunc("/status/{code}", func(w http.ResponseWriter, req *http.Request) {
		code, _ := strconv.Atoi(mux.Vars(req)["code"])
		writeJSON(w, code, map[string]any{"message": "forced status " + mux.Vars(req)["code"]})
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
	})
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// authenticated rejects requests whose bearer token matches no account.
func (b *Backend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, ok := b.accountByToken(tok); !ok || tok == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) accountByToken(tok string) (Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acc := range b.accounts {
		if acc.Token == tok {
			return acc, true
		}
	}
	return Account{}, false
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid json"})
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[creds.Email]
	b.mu.Unlock()
	if !ok || acc.Password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid credentials"})
		return
	}

	resp := map[string]any{}
	if acc.Token != "" {
		resp["token"] = acc.Token
	}
	if acc.User != nil {
		resp["user"] = acc.User
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Email == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "email required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sent": true})
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	acc, _ := b.accountByToken(tok)
	writeJSON(w, http.StatusOK, acc.User)
}

func (b *Backend) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acc := range b.accounts {
		if v, ok := acc.User["id"].(float64); ok && strconv.FormatFloat(v, 'f', -1, 64) == id {
			writeJSON(w, http.StatusOK, map[string]any{"id": v, "first_name": acc.User["first_name"]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "user not found"})
}

func (b *Backend) handleGetExam(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.exam)
}

func (b *Backend) handlePutExam(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Actor-Email") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "actor email required"})
		return
	}
	var next map[string]any
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid json"})
		return
	}
	b.mu.Lock()
	b.exam = next
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, next)
}

func (b *Backend) handleVerifyGate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	want, ok := b.gates[id]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "exam not found"})
		return
	}
	examID, _ := strconv.ParseInt(id, 10, 64)
	writeJSON(w, http.StatusOK, map[string]any{"valid": req.Password == want, "exam_id": examID})
}

// handleEcho answers with what it received so tests can inspect the request
// from the response as well.
func (b *Backend) handleEcho(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var decoded any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &decoded)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"method": r.Method,
		"body":   decoded,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
