package agent

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/logveil/logveil/internal/ignore"
)

// walk traverses cfg.Root and invokes handle for each eligible log file with
// its content. Selection applies, in order: default dir excludes, include and
// exclude globs, .logveilignore entries, the max-bytes gate, own-output and
// binary skips.
func walk(ctx context.Context, cfg Config, handle func(rel, abs string, data []byte)) error {
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".logveilignore"))
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		if ign.Match(rel) {
			return nil
		}
		// never re-ingest our own outputs or bookkeeping
		if strings.HasSuffix(rel, cfg.Suffix) || filepath.Base(rel) == ".logveil_cache.json" {
			return nil
		}
		info, _ := d.Info()
		if info != nil && info.Size() > cfg.MaxBytes {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		if looksBinary(b) {
			return nil
		}
		handle(rel, p, b)
		return nil
	})
}

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"bin":          true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

// allowedByGlobs applies comma-separated include then exclude globs with
// forward-slash doublestar semantics; each glob is also tried against the
// basename.
func allowedByGlobs(rel string, cfg Config) bool {
	rp := strings.ReplaceAll(rel, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(path string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// looksBinary sniffs the first bytes for NULs; log files are text.
func looksBinary(b []byte) bool {
	n := len(b)
	if n > 800 {
		n = 800
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
