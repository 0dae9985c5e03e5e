// Package cache is a content-addressed disk cache for expensive collaborator
// output, such as solc AST dumps. Keys are derived from the inputs that make
// the output unique, so stale entries are simply never addressed again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
)

type Disk struct {
	dir string
}

// Open returns a disk cache rooted at ~/.solpipe/cache, creating it if needed.
func Open() (*Disk, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".solpipe", "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// OpenAt is Open with an explicit root, for tests.
func OpenAt(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// Key hashes the given parts into a cache filename.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (d *Disk) Load(key string) ([]byte, bool) {
	b, err := os.ReadFile(filepath.Join(d.dir, key))
	if err != nil {
		return nil, false
	}
	return b, true
}

func (d *Disk) Store(key string, data []byte) error {
	return os.WriteFile(filepath.Join(d.dir, key), data, 0o644)
}

// LoadJSON unmarshals a cached entry into v; a decode failure counts as a miss.
func (d *Disk) LoadJSON(key string, v any) bool {
	b, ok := d.Load(key)
	if !ok {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (d *Disk) StoreJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.Store(key, b)
}
