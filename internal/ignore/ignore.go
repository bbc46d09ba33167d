package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Matcher answers whether a path is excluded by a .logveilignore file.
type Matcher struct {
	dirs  []string // "name/" entries, matched against any path segment prefix
	globs []string // everything else, matched against path and basename
}

// Load parses the ignore file at path. A missing file yields an empty
// matcher and no error from the caller's point of view.
func Load(path string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
			continue
		}
		m.globs = append(m.globs, line)
	}
	return m, sc.Err()
}

// Match reports whether rel (a slash-separated relative path) is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, d := range m.dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") || strings.Contains(rel, "/"+d+"/") {
			return true
		}
	}
	base := filepath.Base(rel)
	for _, g := range m.globs {
		if ok, _ := filepath.Match(g, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	return false
}
