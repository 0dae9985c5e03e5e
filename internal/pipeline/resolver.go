package pipeline

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// excludedDirs are path segments that never contain first-party contracts.
var excludedDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"build":        {},
	"dist":         {},
	"out":          {},
	"artifacts":    {},
	"cache":        {},
	".venv":        {},
	"venv":         {},
}

const solExt = ".sol"

// Resolver discovers eligible Solidity files beneath a root path.
type Resolver struct {
	log *slog.Logger
}

func NewResolver(log *slog.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve expands root into a sorted list of .sol files. A missing root is
// not an error; it resolves to nothing and the caller decides what that means.
func (r *Resolver) Resolve(root string) []string {
	info, err := os.Stat(root)
	if err != nil {
		r.log.Debug("path does not exist", "path", root)
		return nil
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(root), solExt) {
			return []string{root}
		}
		r.log.Debug("not a solidity file", "path", root)
		return nil
	}

	var out []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if _, excluded := excludedDirs[d.Name()]; excluded {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), solExt) {
			return nil
		}
		if underExcludedDir(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	sort.Strings(out)
	r.log.Debug("resolved artifacts", "root", root, "count", len(out))
	return out
}

// underExcludedDir checks every segment of path against the exclusion set.
// WalkDir already prunes excluded directories below root; this also covers
// roots handed in that themselves sit inside an excluded tree.
func underExcludedDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if _, ok := excludedDirs[part]; ok {
			return true
		}
	}
	return false
}
