package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestReference(t *testing.T) {
	tests := []struct {
		in      string
		account string
		ok      bool
	}{
		{"keyring:prod-db", "prod-db", true},
		{"keyring: spaced ", "spaced", true},
		{"keyring:", "", false},
		{"plain-secret", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			account, ok := Reference(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.account, account)
		})
	}
}

func TestResolveSystem(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, System{}.Set(Service, "prod-db", "s3cret"))

	got, err := Resolve(System{}, "keyring:prod-db")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = Resolve(System{}, "literal")
	require.NoError(t, err)
	assert.Equal(t, "literal", got)

	_, err = Resolve(System{}, "keyring:missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Resolve(System{}, "keyring:")
	assert.Error(t, err)

	_, err = Resolve(nil, "keyring:prod-db")
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keyring.json")
	store, err := NewFileStore(path, "master")
	require.NoError(t, err)

	_, err = store.Get(Service, "a")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Set(Service, "a", "alpha"))
	require.NoError(t, store.Set(Service, "b", "beta"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "alpha")

	got, err := store.Get(Service, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	other, err := NewFileStore(path, "wrong")
	require.NoError(t, err)
	_, err = other.Get(Service, "a")
	assert.Error(t, err)

	require.NoError(t, store.Delete(Service, "a"))
	assert.True(t, errors.Is(store.Delete(Service, "a"), ErrNotFound))
	got, err = store.Get(Service, "b")
	require.NoError(t, err)
	assert.Equal(t, "beta", got)
}

func TestFileStoreRequiresMasterPassword(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "k.json"), "")
	assert.Error(t, err)
}
