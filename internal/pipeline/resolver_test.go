package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("pragma solidity ^0.8.0;\n"), 0o644))
}

func TestResolveDirectorySortedAndDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "Token.sol"))
	writeFile(t, filepath.Join(dir, "a", "Vault.sol"))
	writeFile(t, filepath.Join(dir, "Zed.sol"))
	writeFile(t, filepath.Join(dir, "readme.md"))

	r := NewResolver(testLogger())
	first := r.Resolve(dir)
	second := r.Resolve(dir)

	require.Len(t, first, 3)
	assert.True(t, sort.StringsAreSorted(first))
	assert.Equal(t, first, second)
}

func TestResolveExcludesKnownDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "contracts", "Good.sol"))
	for _, excluded := range []string{"node_modules", ".git", "build", "dist", "out", "artifacts", "cache", ".venv", "venv"} {
		writeFile(t, filepath.Join(dir, excluded, "Bad.sol"))
		writeFile(t, filepath.Join(dir, excluded, "nested", "AlsoBad.sol"))
	}

	got := NewResolver(testLogger()).Resolve(dir)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Good.sol")
}

func TestResolveSingleFile(t *testing.T) {
	dir := t.TempDir()
	sol := filepath.Join(dir, "Token.sol")
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, sol)
	writeFile(t, txt)

	r := NewResolver(testLogger())
	assert.Equal(t, []string{sol}, r.Resolve(sol))
	assert.Empty(t, r.Resolve(txt))
}

func TestResolveMissingPath(t *testing.T) {
	r := NewResolver(testLogger())
	assert.Empty(t, r.Resolve(filepath.Join(t.TempDir(), "nope")))
}

func TestResolveRootInsideExcludedDir(t *testing.T) {
	dir := t.TempDir()
	inside := filepath.Join(dir, "node_modules", "dep")
	writeFile(t, filepath.Join(inside, "Dep.sol"))

	assert.Empty(t, NewResolver(testLogger()).Resolve(inside))
}
