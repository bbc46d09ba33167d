package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendIgnoreCreatesAndAppends(t *testing.T) {
	root := t.TempDir()
	if err := AppendIgnore(root, ".logveil_cache.json"); err != nil {
		t.Fatal(err)
	}
	if err := AppendIgnore(root, "logveil_trace.jsonl"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(b)
	if !strings.Contains(content, ".logveil_cache.json") || !strings.Contains(content, "logveil_trace.jsonl") {
		t.Fatalf("patterns missing:\n%s", content)
	}
}

func TestAppendIgnoreIdempotent(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 3; i++ {
		if err := AppendIgnore(root, "*.sanitized"); err != nil {
			t.Fatal(err)
		}
	}
	b, _ := os.ReadFile(filepath.Join(root, ".gitignore"))
	if n := strings.Count(string(b), "*.sanitized"); n != 1 {
		t.Fatalf("pattern appended %d times", n)
	}
}

func TestLocalArtifacts(t *testing.T) {
	if len(LocalArtifacts()) == 0 {
		t.Fatal("no artifacts listed")
	}
}
