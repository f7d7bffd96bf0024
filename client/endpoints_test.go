package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgelotishvili/certification/internal/apitest"
)

func TestProfile_RequiresLogin(t *testing.T) {
	b := apitest.New(t)
	c, _ := newTestClient(t, b.URL())
	ctx := context.Background()

	_, err := c.Profile(ctx)
	assert.True(t, IsUnauthorized(err), "got %v", err)

	_, err = c.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	p, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "a@b.com", p.Email)
}

func TestProfile_TimestampWithoutZone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":9,"email":"a@b.com","created_at":"2024-05-01T10:00:00.123456"}`)
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv.URL)

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), p.CreatedAt.Time)
}

func TestPublicProfile(t *testing.T) {
	b := apitest.New(t)
	b.AddAccount("nino@b.com", apitest.Account{
		Password: "pw",
		Token:    "tok2",
		User:     map[string]any{"id": float64(12), "first_name": "Nino"},
	})
	c, _ := newTestClient(t, b.URL())
	ctx := context.Background()

	p, err := c.PublicProfile(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.ID)
	assert.Equal(t, "Nino", p.FirstName)
	assert.Equal(t, "/users/12/public", b.Last().Path)

	_, err = c.PublicProfile(ctx, 999)
	assert.Equal(t, 404, StatusCode(err))
}

func TestExamConfig_GetAndUpdate(t *testing.T) {
	b := apitest.New(t)
	c, _ := newTestClient(t, b.URL())
	ctx := context.Background()

	cfg, err := c.ExamConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Certification", cfg.Title)
	assert.Equal(t, 60, cfg.DurationMinutes)
	assert.True(t, cfg.IsActive)

	_, err = c.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	cfg.DurationMinutes = 90
	saved, err := c.UpdateExamConfig(ctx, *cfg, "admin@exam.ge")
	require.NoError(t, err)
	assert.Equal(t, 90, saved.DurationMinutes)

	put := b.Last()
	assert.Equal(t, "PUT", put.Method)
	assert.Equal(t, "admin@exam.ge", put.Header.Get(ActorEmailHeader))
	assert.Equal(t, "Bearer tok1", put.Header.Get("Authorization"))

	again, err := c.ExamConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, again.DurationMinutes)
}

func TestUpdateExamConfig_WithoutSession(t *testing.T) {
	b := apitest.New(t)
	c, _ := newTestClient(t, b.URL())

	_, err := c.UpdateExamConfig(context.Background(), ExamConfig{Title: "x"}, "admin@exam.ge")
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, b.Last().Header.Get(ActorEmailHeader), "actor header needs a token")
}

func TestVerifyGate(t *testing.T) {
	b := apitest.New(t)
	c, _ := newTestClient(t, b.URL())
	ctx := context.Background()

	res, err := c.VerifyGate(ctx, "1", "open-sesame")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, int64(1), res.ExamID)

	res, err = c.VerifyGate(ctx, "1", "guess")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	_, err = c.VerifyGate(ctx, "7", "open-sesame")
	assert.Equal(t, 404, StatusCode(err))
}
