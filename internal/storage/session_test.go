package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "admin-session.json")
	store := NewSessionFileStore(path)

	session := &models.Session{
		Token:     "token",
		ExpiresAt: time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC),
		Admin:     models.AdminProfile{ID: "admin-id", AdminID: "root", Name: "Admin"},
	}

	require.NoError(t, store.Save(session))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.Token, loaded.Token)
	assert.True(t, session.ExpiresAt.Equal(loaded.ExpiresAt))
	assert.Equal(t, session.Admin, loaded.Admin)
}

func TestSessionFileStoreLoadMissingFile(t *testing.T) {
	store := NewSessionFileStore(filepath.Join(t.TempDir(), "admin-session.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-session.json")
	store := NewSessionFileStore(path)

	require.NoError(t, store.Save(&models.Session{Token: "token"}))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Повторная очистка при отсутствующем файле не считается ошибкой.
	require.NoError(t, store.Clear())
}
