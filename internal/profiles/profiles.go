package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/logveil/logveil/internal/patterns"
	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/types"
	"gopkg.in/yaml.v3"
)

// PatternRule is one extra pattern a profile contributes. A rule whose label
// collides with a builtin replaces that builtin's expression in the derived
// registry; the builtins themselves are never mutated.
type PatternRule struct {
	Label       string `yaml:"label"`
	Expr        string `yaml:"pattern"`
	Description string `yaml:"description,omitempty"`
}

// Profile bundles redaction settings for one class of log files.
type Profile struct {
	Name             string                  `yaml:"name"`
	Description      string                  `yaml:"description"`
	Format           string                  `yaml:"format"` // plaintext, json, yaml
	Patterns         []PatternRule           `yaml:"patterns"`
	KeyPaths         []sanitize.KeyPathRule  `yaml:"key_paths"`
	Entropy          *patterns.EntropyConfig `yaml:"entropy"`
	FilenamePatterns []string                `yaml:"filename_patterns"`
}

// Registry derives a pattern registry for this profile: builtins in their
// documented order, with colliding labels overridden in place and new labels
// appended after the builtins so profile-specific shapes never preempt the
// specificity order.
func (p *Profile) Registry(logger hclog.Logger) *patterns.Registry {
	defs := patterns.BuiltinDefinitions()
	byLabel := map[types.Label]int{}
	for i, d := range defs {
		byLabel[d.Label] = i
	}
	for _, rule := range p.Patterns {
		label := types.Label(strings.ToLower(rule.Label))
		if i, ok := byLabel[label]; ok {
			defs[i].Expr = rule.Expr
			continue
		}
		defs = append(defs, patterns.Definition{Label: label, Expr: rule.Expr})
	}
	return patterns.New(defs, logger)
}

// Engine builds a sanitize.Engine configured per this profile.
func (p *Profile) Engine(logger hclog.Logger, opts ...sanitize.Option) *sanitize.Engine {
	if p.Entropy != nil {
		opts = append(opts, sanitize.WithEntropy(*p.Entropy))
	}
	return sanitize.New(p.Registry(logger), opts...)
}

// Matches reports whether path belongs to this profile. Globs use doublestar
// semantics and are also tried against the basename, so "*access.log*"
// matches nested paths.
func (p *Profile) Matches(path string) bool {
	rp := strings.ReplaceAll(path, "\\", "/")
	for _, g := range p.FilenamePatterns {
		if ok, _ := doublestar.Match(g, rp); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(rp)); ok {
			return true
		}
	}
	return false
}

// Manager holds named profiles: the built-ins plus any loaded from disk.
// Selection by path walks profiles in registration order, built-ins last, so
// user profiles win ties.
type Manager struct {
	profiles map[string]*Profile
	order    []string
}

// NewManager returns a Manager preloaded with the builtin profiles.
func NewManager() *Manager {
	m := &Manager{profiles: map[string]*Profile{}}
	for _, p := range builtins() {
		m.add(p)
	}
	return m
}

func (m *Manager) add(p *Profile) {
	if _, seen := m.profiles[p.Name]; !seen {
		m.order = append(m.order, p.Name)
	}
	m.profiles[p.Name] = p
}

// LoadDir reads every *.yml/*.yaml profile in dir. A file that fails to
// parse is reported; previously loaded profiles are kept.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var firstErr error
	var loaded []*Profile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		p, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		loaded = append(loaded, p)
	}
	// user profiles take precedence over built-ins for path selection
	if len(loaded) > 0 {
		rebuilt := &Manager{profiles: map[string]*Profile{}}
		for _, p := range loaded {
			rebuilt.add(p)
		}
		for _, name := range m.order {
			rebuilt.add(m.profiles[name])
		}
		*m = *rebuilt
	}
	return firstErr
}

// LoadFile parses one profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile %s: missing name", path)
	}
	return &p, nil
}

// Get returns the named profile.
func (m *Manager) Get(name string) (*Profile, bool) {
	p, ok := m.profiles[name]
	return p, ok
}

// Names lists the registered profile names, sorted.
func (m *Manager) Names() []string {
	out := append([]string(nil), m.order...)
	sort.Strings(out)
	return out
}

// ForPath returns the first profile whose filename patterns match path, or
// nil when none do.
func (m *Manager) ForPath(path string) *Profile {
	for _, name := range m.order {
		if p := m.profiles[name]; p.Matches(path) {
			return p
		}
	}
	return nil
}

func builtins() []*Profile {
	entropy := patterns.DefaultEntropyConfig()
	return []*Profile{
		{
			Name:        "nginx",
			Description: "Nginx access and error logs",
			Format:      "plaintext",
			Patterns: []PatternRule{
				{Label: "session", Expr: `\bsess(?:ion)?[_-]?id=[A-Za-z0-9]+\b`, Description: "session identifiers in query strings"},
			},
			FilenamePatterns: []string{"*access.log*", "*error.log*", "**/nginx/**"},
		},
		{
			Name:        "jsonapp",
			Description: "Structured JSON application logs",
			Format:      "json",
			KeyPaths: []sanitize.KeyPathRule{
				{Path: "password", Action: "remove"},
				{Path: "*.password", Action: "remove"},
				{Path: "token", Action: "redact"},
				{Path: "user.*.email", Action: "redact", Replacement: "[REDACTED_EMAIL]"},
			},
			Entropy:          &entropy,
			FilenamePatterns: []string{"*.json.log", "*.jsonl", "*-json.log"},
		},
		{
			Name:             "generic",
			Description:      "Builtin patterns only, for unclassified plaintext logs",
			Format:           "plaintext",
			FilenamePatterns: []string{"*.log"},
		},
	}
}
