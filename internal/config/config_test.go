package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `include: "**/*.log"
threads: 4
entropy: true
entropy_threshold: 3.9
profile: nginx
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Include == nil || *cfg.Include != "**/*.log" {
		t.Fatalf("include = %v", cfg.Include)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("threads = %v", cfg.Threads)
	}
	if cfg.Entropy == nil || !*cfg.Entropy {
		t.Fatalf("entropy = %v", cfg.Entropy)
	}
	if cfg.EntropyThreshold == nil || *cfg.EntropyThreshold != 3.9 {
		t.Fatalf("entropy_threshold = %v", cfg.EntropyThreshold)
	}
	if cfg.Profile == nil || *cfg.Profile != "nginx" {
		t.Fatalf("profile = %v", cfg.Profile)
	}
	// unset fields stay nil so the CLI can tell unset from zero
	if cfg.MaxBytes != nil || cfg.NoColor != nil {
		t.Fatal("unset fields not nil")
	}
}

func TestLoadLocalNames(t *testing.T) {
	root := t.TempDir()
	if _, err := LoadLocal(root); err == nil {
		t.Fatal("expected error with no local config")
	}
	if err := os.WriteFile(filepath.Join(root, ".logveil.yml"), []byte("threads: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadLocal(root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threads == nil || *cfg.Threads != 2 {
		t.Fatalf("threads = %v", cfg.Threads)
	}
}

func TestLoadGlobalXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error with no global config")
	}
	dir := filepath.Join(base, "logveil")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("no_color: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatalf("no_color = %v", cfg.NoColor)
	}
}

func TestLoadDotEnvOverrides(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("LOGVEIL_PROFILE=jsonapp\nLOGVEIL_THREADS=8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not overwrite existing env; keep these clear
	t.Setenv("LOGVEIL_PROFILE", "")
	t.Setenv("LOGVEIL_THREADS", "")
	os.Unsetenv("LOGVEIL_PROFILE")
	os.Unsetenv("LOGVEIL_THREADS")

	existing := "stale"
	cfg := LoadDotEnv(root, FileConfig{Profile: &existing})
	if cfg.Profile == nil || *cfg.Profile != "jsonapp" {
		t.Fatalf("profile = %v", cfg.Profile)
	}
	if cfg.Threads == nil || *cfg.Threads != 8 {
		t.Fatalf("threads = %v", cfg.Threads)
	}
}

func TestLoadDotEnvEnvironmentBeatsDotfile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("LOGVEIL_NO_COLOR=false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOGVEIL_NO_COLOR", "1")
	cfg := LoadDotEnv(root, FileConfig{})
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatalf("no_color = %v", cfg.NoColor)
	}
}
