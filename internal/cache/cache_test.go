package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStability(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("a", "b"), Key("a", "c"))
	assert.Len(t, Key("a"), 64)
}

func TestDiskRoundTrip(t *testing.T) {
	d, err := OpenAt(t.TempDir())
	require.NoError(t, err)

	key := Key("solc-ast-v1", "solc", "/c/Token.sol", "contract Token {}")
	_, ok := d.Load(key)
	assert.False(t, ok)

	require.NoError(t, d.Store(key, []byte(`{"nodes":[]}`)))
	b, ok := d.Load(key)
	require.True(t, ok)
	assert.JSONEq(t, `{"nodes":[]}`, string(b))
}

func TestDiskJSONHelpers(t *testing.T) {
	d, err := OpenAt(t.TempDir())
	require.NoError(t, err)

	type entry struct {
		Name string `json:"name"`
	}
	require.NoError(t, d.StoreJSON("k", entry{Name: "Vault"}))

	var got entry
	require.True(t, d.LoadJSON("k", &got))
	assert.Equal(t, "Vault", got.Name)

	// corrupt entries count as misses
	require.NoError(t, d.Store("bad", []byte("{")))
	assert.False(t, d.LoadJSON("bad", &got))
}
