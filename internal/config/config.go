package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for logveil. All fields
// are pointers so the CLI can tell "unset" from "zero" when merging.
type FileConfig struct {
	Include          *string  `yaml:"include"`
	Exclude          *string  `yaml:"exclude"`
	MaxBytes         *int64   `yaml:"max_bytes"`
	Threads          *int     `yaml:"threads"`
	Profile          *string  `yaml:"profile"`
	ProfilesDir      *string  `yaml:"profiles_dir"`
	Entropy          *bool    `yaml:"entropy"`
	EntropyThreshold *float64 `yaml:"entropy_threshold"`
	TraceFile        *string  `yaml:"trace_file"`
	OutDir           *string  `yaml:"out_dir"`
	NoColor          *bool    `yaml:"no_color"`
	DefaultExcludes  *bool    `yaml:"default_excludes"`
	ServeAddr        *string  `yaml:"serve_addr"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .logveil.yml/.yaml and logveil.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".logveil.yml", ".logveil.yaml", "logveil.yml", "logveil.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or
// ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "logveil", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// LoadDotEnv loads root/.env into the process environment if present, then
// applies LOGVEIL_* variables on top of cfg. Environment beats file config
// but not explicit CLI flags.
func LoadDotEnv(root string, cfg FileConfig) FileConfig {
	if p := filepath.Join(root, ".env"); fileExists(p) {
		_ = godotenv.Load(p)
	}
	if v := os.Getenv("LOGVEIL_PROFILE"); v != "" {
		cfg.Profile = &v
	}
	if v := os.Getenv("LOGVEIL_TRACE_FILE"); v != "" {
		cfg.TraceFile = &v
	}
	if v := os.Getenv("LOGVEIL_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Threads = &n
		}
	}
	if v := os.Getenv("LOGVEIL_NO_COLOR"); v != "" {
		b := v != "0" && v != "false"
		cfg.NoColor = &b
	}
	if v := os.Getenv("LOGVEIL_SERVE_ADDR"); v != "" {
		cfg.ServeAddr = &v
	}
	return cfg
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
