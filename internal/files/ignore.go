package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore ensures pattern is present in .gitignore at root. It creates
// the file if missing. Idempotent.
func AppendIgnore(root, pattern string) error {
	path := filepath.Join(root, ".gitignore")
	existing := map[string]bool{}
	if f, err := os.Open(path); err == nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		_ = f.Close()
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(pattern + "\n")
	return err
}

// LocalArtifacts lists the files logveil writes next to the logs it
// processes, all safe to keep out of version control.
func LocalArtifacts() []string {
	return []string{
		".logveil_cache.json",
		"logveil_trace.jsonl",
	}
}
