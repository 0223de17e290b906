package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdl/internal/session"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestStore_SetAndReload(t *testing.T) {
	path := storePath(t)

	store := session.NewStore(path)
	_, ok := store.UserID()
	assert.False(t, ok, "fresh store must be logged out")

	require.NoError(t, store.Set(session.Credentials{
		UserID:       7,
		SessionToken: "sess-abc",
		CSRFToken:    "csrf-xyz",
	}))

	// A second store over the same file sees the persisted session.
	reloaded := session.NewStore(path)
	userID, ok := reloaded.UserID()
	require.True(t, ok)
	assert.Equal(t, 7, userID)

	tok, ok := reloaded.SessionToken()
	require.True(t, ok)
	assert.Equal(t, "sess-abc", tok)

	csrf, ok := reloaded.CSRFToken()
	require.True(t, ok)
	assert.Equal(t, "csrf-xyz", csrf)
}

func TestStore_FileMode(t *testing.T) {
	path := storePath(t)
	store := session.NewStore(path)
	require.NoError(t, store.Set(session.Credentials{UserID: 1, SessionToken: "s"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_Clear(t *testing.T) {
	path := storePath(t)
	store := session.NewStore(path)
	require.NoError(t, store.Set(session.Credentials{UserID: 1, SessionToken: "s", CSRFToken: "c"}))

	require.NoError(t, store.Clear())

	_, ok := store.UserID()
	assert.False(t, ok)
	_, ok = store.CSRFToken()
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestStore_CorruptFileMeansLoggedOut(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store := session.NewStore(path)
	_, ok := store.UserID()
	assert.False(t, ok)
}

func TestStore_MissingTokensReportAbsent(t *testing.T) {
	store := session.NewStore(storePath(t))
	require.NoError(t, store.Set(session.Credentials{UserID: 3, SessionToken: "s"}))

	_, ok := store.CSRFToken()
	assert.False(t, ok, "empty CSRF token must read as absent, not as an empty bearer")
}
