package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))

	long := strings.Repeat("line of solidity\n", 200)
	cut := Truncate(long, 1500)
	assert.LessOrEqual(t, len(cut), 1500)
	assert.True(t, strings.HasSuffix(cut, "line of solidity"))

	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestFileFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Token.sol")
	require.NoError(t, os.WriteFile(path, []byte("contract Token {}"), 0o644))

	a := FileFingerprint(path)
	assert.NotEmpty(t, a)
	assert.Equal(t, a, FileFingerprint(path))

	require.NoError(t, os.WriteFile(path, []byte("contract Token { uint x; }"), 0o644))
	assert.NotEqual(t, a, FileFingerprint(path))

	assert.Empty(t, FileFingerprint(filepath.Join(dir, "missing.sol")))
}
