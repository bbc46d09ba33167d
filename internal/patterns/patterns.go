package patterns

import (
	"regexp"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/logveil/logveil/internal/types"
)

// Pattern pairs a label with its compiled matcher.
type Pattern struct {
	Label types.Label
	Re    *regexp.Regexp
}

// Definition is an uncompiled pattern, the unit registry construction
// consumes. Profiles produce these from YAML; the builtin set is fixed.
type Definition struct {
	Label types.Label
	Expr  string
}

// BuiltinDefinitions returns the fixed pattern set in application order.
// The order is deliberate and must stay stable across versions: structurally
// specific shapes run before generic ones, and the bare hex-run patterns run
// longest first so a 64-hex digest is reported as sha256, never carved up by
// a shorter hash pattern.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{types.LabelUUID, `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}\b`},
		{types.LabelJWT, `\beyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\b`},
		{types.LabelEmail, `\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`},
		{types.LabelIP, `\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`},
		{types.LabelSHA256, `\b[a-fA-F0-9]{64}\b`},
		{types.LabelSHA1, `\b[a-fA-F0-9]{40}\b`},
		{types.LabelMD5, `\b[a-fA-F0-9]{32}\b`},
	}
}

// Registry is an immutable, insertion-ordered pattern collection. It is safe
// to share one instance across any number of goroutines.
type Registry struct {
	patterns []Pattern
}

// New compiles defs into a Registry, preserving order. A definition that
// fails to compile is logged and omitted so the remaining patterns still
// work; the builtin set is fixed at build time, so this path is a
// degrade-not-crash guarantee rather than an expected outcome.
func New(defs []Definition, logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Registry{patterns: make([]Pattern, 0, len(defs))}
	for _, d := range defs {
		re, err := regexp.Compile(d.Expr)
		if err != nil {
			logger.Warn("pattern failed to compile, omitting", "label", d.Label, "error", err)
			continue
		}
		r.patterns = append(r.patterns, Pattern{Label: d.Label, Re: re})
	}
	return r
}

// FromPatterns wraps already-compiled patterns in a Registry, preserving
// order.
func FromPatterns(ps []Pattern) *Registry {
	cp := make([]Pattern, len(ps))
	copy(cp, ps)
	return &Registry{patterns: cp}
}

// Patterns returns the patterns in application order. Callers must not
// modify the returned slice.
func (r *Registry) Patterns() []Pattern { return r.patterns }

// Len reports the number of usable patterns.
func (r *Registry) Len() int { return len(r.patterns) }

// Labels returns the ordered label list.
func (r *Registry) Labels() []types.Label {
	out := make([]types.Label, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = p.Label
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide builtin registry. The build happens
// exactly once, on first use, and every caller receives the same immutable
// instance. Callers that want an explicit instance (tests, profiles) should
// use New instead.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New(BuiltinDefinitions(), hclog.Default().Named("patterns"))
	})
	return defaultReg
}
