package credstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/authgate/internal/adapter/credstore"
	"github.com/iho/authgate/internal/domain"
)

func TestFile_MissingFileYieldsEmptyCredential(t *testing.T) {
	t.Parallel()

	store := credstore.NewFile(filepath.Join(t.TempDir(), "credentials.json"))

	cred, err := store.Get()
	require.NoError(t, err)
	assert.True(t, cred.IsZero())
}

func TestFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "credentials.json")
	store := credstore.NewFile(path)

	want := domain.Credential{AccessToken: "t1", RefreshToken: "r1"}
	require.NoError(t, store.Set(want))

	got, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_SetOverwritesWholePair(t *testing.T) {
	t.Parallel()

	store := credstore.NewFile(filepath.Join(t.TempDir(), "credentials.json"))

	require.NoError(t, store.Set(domain.Credential{AccessToken: "t1", RefreshToken: "r1"}))
	require.NoError(t, store.Set(domain.Credential{AccessToken: "t2"}))

	got, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "t2", got.AccessToken)
	assert.Empty(t, got.RefreshToken, "refresh token must not leak from the previous pair")
}

func TestFile_Clear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.json")
	store := credstore.NewFile(path)

	require.NoError(t, store.Set(domain.Credential{AccessToken: "t1", RefreshToken: "r1"}))
	require.NoError(t, store.Clear())

	cred, err := store.Get()
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestMemory_RoundTrip(t *testing.T) {
	t.Parallel()

	store := credstore.NewMemory()

	cred, err := store.Get()
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	want := domain.Credential{AccessToken: "t1", RefreshToken: "r1"}
	require.NoError(t, store.Set(want))

	got, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear())
	got, err = store.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
