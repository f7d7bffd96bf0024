package sessionstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempSQLite(t *testing.T) (string, *SQLite) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return path, s
}

// exerciseStore runs the behaviour every Store implementation must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "auth_token", "tok1"))
	require.NoError(t, s.Set(ctx, "auth_token", "tok2"))
	require.NoError(t, s.Set(ctx, "current_user", `{"id":1}`))

	v, ok, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok2", v)

	require.NoError(t, s.Delete(ctx, "auth_token", "current_user", "never-set"))
	_, ok, err = s.Get(ctx, "current_user")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, _, err = s.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(ctx, "k", "v"), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, "k"), ErrClosed)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	_, s := openTempSQLite(t)
	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path, s := openTempSQLite(t)
	require.NoError(t, s.Set(ctx, "auth_token", "persisted"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestSQLiteStore_PathWithURIMetacharacters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "odd?dir#1", "my session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "auth_token", "tok1"))
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "database must be created at the literal path")

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	v, ok, err := reopened.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok1", v)
}

func TestDSN_EscapesPath(t *testing.T) {
	got := dsn("/tmp/a?b#c/session.db")
	assert.Equal(t, "file:///tmp/a%3Fb%23c/session.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", got)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), context.Canceled)
	assert.Equal(t, 0, m.Len())
}

func TestDefaultPath_HonoursOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv("EXAM_CLIENT_HOME", dir)

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session.db"), p)
}
