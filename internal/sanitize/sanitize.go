package sanitize

import (
	"fmt"
	"strings"

	"github.com/logveil/logveil/internal/patterns"
	"github.com/logveil/logveil/internal/types"
)

// Engine rewrites single lines of text, replacing every match of every
// registry pattern with its redaction marker. An Engine is immutable after
// construction and safe for concurrent use; each call works on its own copy
// of the line.
type Engine struct {
	reg     *patterns.Registry
	entropy *patterns.EntropyDetector // nil = disabled
	stats   *Stats                    // nil = no counting
}

// Option configures an Engine.
type Option func(*Engine)

// WithEntropy enables the high-entropy secret pass, which runs after all
// pattern substitutions.
func WithEntropy(cfg patterns.EntropyConfig) Option {
	return func(e *Engine) { e.entropy = patterns.NewEntropyDetector(cfg) }
}

// WithStats records per-label match counts into st.
func WithStats(st *Stats) Option {
	return func(e *Engine) { e.stats = st }
}

// New builds an Engine over reg. A nil reg falls back to the builtin
// registry.
func New(reg *patterns.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = patterns.Default()
	}
	e := &Engine{reg: reg}
	for _, o := range opts {
		o(e)
	}
	return e
}

// PatternFault records an internal failure applying one pattern. The fault
// is contained: only that pattern's substitution is skipped, and only for
// that call.
type PatternFault struct {
	Label types.Label
	Err   error
}

func (f PatternFault) Error() string {
	return fmt.Sprintf("pattern %s: %v", f.Label, f.Err)
}

// Sanitize returns line with every non-overlapping match of every pattern
// replaced by its marker, applying patterns in registry order against the
// progressively rewritten text. Faults are reported per pattern; there is no
// whole-call failure and the returned string is always usable. Empty input
// yields empty output; input with no matches comes back unchanged.
func (e *Engine) Sanitize(line string) (string, []PatternFault) {
	out, _, faults := e.sanitize(line, "", 0, false)
	return out, faults
}

// SanitizeWithTrace is Sanitize plus one Redaction record per replaced span,
// tagged with the given source and line number. Matched values are stored
// masked.
func (e *Engine) SanitizeWithTrace(line, source string, lineNo int) (string, []types.Redaction, []PatternFault) {
	return e.sanitize(line, source, lineNo, true)
}

func (e *Engine) sanitize(line, source string, lineNo int, traced bool) (string, []types.Redaction, []PatternFault) {
	out := line
	var recs []types.Redaction
	var faults []PatternFault
	for _, p := range e.reg.Patterns() {
		replaced, matched, err := applyOne(p, out)
		if err != nil {
			faults = append(faults, PatternFault{Label: p.Label, Err: err})
			continue
		}
		if n := len(matched); n > 0 {
			if e.stats != nil {
				e.stats.Add(p.Label, n)
			}
			if traced {
				for _, m := range matched {
					recs = append(recs, types.Redaction{
						Source:   source,
						Line:     lineNo,
						Label:    p.Label,
						Original: types.Mask(m),
						Replaced: p.Label.Marker(),
					})
				}
			}
		}
		out = replaced
	}
	if e.entropy != nil {
		for _, hit := range e.entropy.Detect(out) {
			out = strings.Replace(out, hit.Token, types.LabelSecret.Marker(), 1)
			if e.stats != nil {
				e.stats.Add(types.LabelSecret, 1)
			}
			if traced {
				recs = append(recs, types.Redaction{
					Source:   source,
					Line:     lineNo,
					Label:    types.LabelSecret,
					Original: types.Mask(hit.Token),
					Replaced: types.LabelSecret.Marker(),
				})
			}
		}
	}
	return out, recs, faults
}

// applyOne runs a single pattern substitution, converting any panic below it
// into an error so the per-pattern loop can continue. On fault the input is
// returned untouched.
func applyOne(p patterns.Pattern, in string) (out string, matched []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = in
			matched = nil
			err = fmt.Errorf("apply panicked: %v", r)
		}
	}()
	matched = p.Re.FindAllString(in, -1)
	if len(matched) == 0 {
		return in, nil, nil
	}
	return p.Re.ReplaceAllLiteralString(in, p.Label.Marker()), matched, nil
}
