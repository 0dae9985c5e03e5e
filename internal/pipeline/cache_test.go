package pipeline

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xab-mack/solpipe/internal/model"
)

func TestCacheKeyShape(t *testing.T) {
	key := CacheKey("slither", "/tmp/contracts/Token.sol", "abc123")
	assert.Equal(t, "slither:Token.sol:abc123", key)
}

func TestCacheKeyDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Token.sol")
	writeFile(t, path)

	a := CacheKey("slither", path, "")
	b := CacheKey("slither", path, "")
	assert.Equal(t, a, b)

	// distinct tools never collide for the same artifact
	assert.NotEqual(t, CacheKey("slither", path, "x"), CacheKey("solhint", path, "x"))
}

func TestCacheKeyMissingFile(t *testing.T) {
	key := CacheKey("slither", "/does/not/exist/Token.sol", "")
	assert.Equal(t, "slither:Token.sol:unknown", key)
}

func TestNoopStoreAlwaysMisses(t *testing.T) {
	store := NoopStore{}
	assert.True(t, store.Put("k", []model.Finding{{Title: "x"}}))
	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	fs := []model.Finding{{Source: "slither", Title: "reentrancy"}}
	require.True(t, store.Put("k", fs))
	got, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, fs, got)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			store.Put(key, []model.Finding{{Title: key}})
			store.Get(key)
		}(i)
	}
	wg.Wait()
	for i := 0; i < 4; i++ {
		_, ok := store.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok)
	}
}
