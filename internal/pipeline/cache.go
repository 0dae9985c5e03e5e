package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xab-mack/solpipe/internal/model"
)

// CacheKey derives a stable key for one (tool, artifact) pair. When no
// content fingerprint is supplied, the file's mtime stands in. Same inputs
// always yield the same key.
func CacheKey(tool, path, fingerprint string) string {
	if fingerprint == "" {
		if st, err := os.Stat(path); err == nil {
			fingerprint = fmt.Sprintf("%d", st.ModTime().Unix())
		} else {
			fingerprint = "unknown"
		}
	}
	return tool + ":" + filepath.Base(path) + ":" + fingerprint
}

// CacheStore holds per-key tool results. Implementations must be safe for
// concurrent use by in-flight artifact tasks.
type CacheStore interface {
	Get(key string) ([]model.Finding, bool)
	Put(key string, findings []model.Finding) bool
}

// NoopStore is the default store: every lookup misses and every put reports
// success without persisting. This is deliberate scaffolding for a future
// backend, kept so repeated-run cost stays unchanged until one is wired in.
type NoopStore struct{}

func (NoopStore) Get(string) ([]model.Finding, bool) { return nil, false }

func (NoopStore) Put(string, []model.Finding) bool { return true }

// MemoryStore is an opt-in in-process store for callers that analyze the same
// artifacts repeatedly within one process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]model.Finding
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]model.Finding{}}
}

func (s *MemoryStore) Get(key string) ([]model.Finding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fs, ok := s.entries[key]
	return fs, ok
}

func (s *MemoryStore) Put(key string, findings []model.Finding) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = findings
	return true
}
