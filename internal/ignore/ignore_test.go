package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIgnore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".logveilignore")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), ".logveilignore"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if m.Match("anything.log") {
		t.Fatal("empty matcher matched")
	}
}

func TestMatch(t *testing.T) {
	path := writeIgnore(t, `# comment
*.tmp
archive/
secrets.log
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		rel  string
		want bool
	}{
		{"scratch.tmp", true},
		{"deep/nested/scratch.tmp", true},
		{"archive/old.log", true},
		{"logs/archive/old.log", true},
		{"secrets.log", true},
		{"app.log", false},
		{"archives/old.log", false},
	}
	for _, tt := range tests {
		if got := m.Match(tt.rel); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestCommentsAndBlanksSkipped(t *testing.T) {
	m, err := Load(writeIgnore(t, "\n# only comments\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Match("# only comments") || m.Match("anything") {
		t.Fatal("comment treated as pattern")
	}
}
