// Package boundary is the safety shell between the engine and callers that
// do not share its guarantees. Input is validated (absent, non-UTF-8),
// internal faults are contained, and results cross the boundary as opaque
// handles with an explicit single-release ownership contract. Every failure
// collapses to one observable outcome: the sentinel.
package boundary
