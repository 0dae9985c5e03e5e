package util

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// FileFingerprint computes a stable content hash for a file. Returns "" when
// the file cannot be read so callers can fall back to weaker keys.
func FileFingerprint(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
