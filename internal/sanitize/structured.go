package sanitize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/logveil/logveil/internal/types"
	"gopkg.in/yaml.v3"
)

// KeyPathRule targets values in structured documents by dotted key path.
// A "*" segment matches exactly one path segment, so "user.*.email" matches
// "user.alice.email" but not "user.email".
type KeyPathRule struct {
	Path        string `yaml:"path" json:"path"`
	Action      string `yaml:"action" json:"action"` // redact (default), remove, mask
	Replacement string `yaml:"replacement,omitempty" json:"replacement,omitempty"`
}

type compiledRule struct {
	re          *regexp.Regexp
	action      string
	replacement string
}

// Structured redacts JSON and YAML documents: key-path rules apply first,
// then every remaining string leaf runs through the line engine.
type Structured struct {
	engine *Engine
	rules  []compiledRule
}

// NewStructured compiles rules against engine. An invalid path pattern is a
// construction error, not a per-call fault, since rules come from config.
func NewStructured(engine *Engine, rules []KeyPathRule) (*Structured, error) {
	s := &Structured{engine: engine}
	for _, r := range rules {
		re, err := compilePath(r.Path)
		if err != nil {
			return nil, fmt.Errorf("key path %q: %w", r.Path, err)
		}
		action := r.Action
		if action == "" {
			action = "redact"
		}
		s.rules = append(s.rules, compiledRule{re: re, action: action, replacement: r.Replacement})
	}
	return s, nil
}

// compilePath turns "a.*.b" into ^a\.[^.]+\.b$.
func compilePath(path string) (*regexp.Regexp, error) {
	quoted := strings.ReplaceAll(regexp.QuoteMeta(path), `\*`, `[^.]+`)
	return regexp.Compile("^" + quoted + "$")
}

// RedactJSON redacts a JSON document, preserving structure.
func (s *Structured) RedactJSON(data []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	redacted := s.walk(doc, "")
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(redacted); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RedactYAML redacts a YAML document, preserving structure.
func (s *Structured) RedactYAML(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	redacted := s.walk(doc, "")
	return yaml.Marshal(redacted)
}

func (s *Structured) walk(v any, path string) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for key, val := range node {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			if rule := s.match(childPath); rule != nil {
				switch rule.action {
				case "remove":
					continue
				case "mask":
					out[key] = types.Mask(fmt.Sprint(val))
				default:
					if rule.replacement != "" {
						out[key] = rule.replacement
					} else {
						out[key] = types.Label(key).Marker()
					}
				}
				continue
			}
			out[key] = s.walk(val, childPath)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = s.walk(item, path)
		}
		return out
	case string:
		clean, _ := s.engine.Sanitize(node)
		return clean
	default:
		return v
	}
}

func (s *Structured) match(path string) *compiledRule {
	for i := range s.rules {
		if s.rules[i].re.MatchString(path) {
			return &s.rules[i]
		}
	}
	return nil
}
