package core

import (
	"context"

	"github.com/logveil/logveil/internal/agent"
	"github.com/logveil/logveil/internal/boundary"
	"github.com/logveil/logveil/internal/patterns"
	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = agent.Config
type Result = agent.Result
type Redaction = types.Redaction
type PatternFault = sanitize.PatternFault
type Handle = boundary.Handle

// Sentinel is the handle returned when line sanitization cannot proceed.
const Sentinel = boundary.Sentinel

// Sanitize is the stable entrypoint for sanitizing files and trees.
func Sanitize(ctx context.Context, cfg Config) (Result, error) {
	return agent.Run(ctx, cfg)
}

// SanitizeText redacts a block of text with the builtin patterns. Pattern
// faults are contained per pattern; the returned text reflects every pattern
// that did apply.
func SanitizeText(text string) string {
	eng := sanitize.New(nil)
	out, _ := eng.Sanitize(text)
	return out
}

// SanitizeLine runs one raw line through the handle-based boundary. The
// caller owns the handle and must release it with Free.
func SanitizeLine(raw []byte) Handle {
	return defaultAdapter.SanitizeLine(raw)
}

// Free releases a handle returned by SanitizeLine. Freeing Sentinel or an
// already-freed handle is a no-op.
func Free(h Handle) {
	boundary.Free(h)
}

var defaultAdapter = boundary.New(nil)

// PatternLabels returns the builtin pattern labels in application order.
// This is exposed for convenience to avoid importing internals directly.
func PatternLabels() []string {
	labels := patterns.Default().Labels()
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}
