package boundary

import (
	"sync"
	"unicode/utf8"

	"github.com/logveil/logveil/internal/sanitize"
)

// Handle is an opaque reference to a boundary-owned result. The zero Handle
// is the sentinel: it signals failure and never refers to a live allocation.
type Handle uint64

// Sentinel is returned for absent input, invalid encoding, and any contained
// fault. It is never a valid argument to read from, and Free treats it as a
// no-op.
const Sentinel Handle = 0

// results is the process-wide handle table. Ids are handed out monotonically
// and never reused, so a stale Free stays a no-op instead of hitting a later
// allocation.
var results = struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]string
}{next: 1, entries: map[Handle]string{}}

func put(s string) Handle {
	results.mu.Lock()
	defer results.mu.Unlock()
	h := results.next
	results.next++
	results.entries[h] = s
	return h
}

// Adapter marshals raw caller input into the engine and engine output back
// into caller-owned handles. It is the only layer allowed to turn an internal
// fault into an observable failure, and that failure is always the sentinel.
type Adapter struct {
	engine *sanitize.Engine
}

// New binds an Adapter to engine. A nil engine uses the builtin registry.
func New(engine *sanitize.Engine) *Adapter {
	if engine == nil {
		engine = sanitize.New(nil)
	}
	return &Adapter{engine: engine}
}

// SanitizeLine validates raw, redacts it, and transfers ownership of the
// result to the caller.
//
// Returns Sentinel when raw is nil (absent input), when raw is not valid
// UTF-8, or when a fault escapes the engine; a fault must never unwind past
// this function. On success the returned handle owns the redacted line and
// must be passed to Free exactly once. Reading a handle after Free is the
// caller's bug; the adapter does not tag handles to detect it.
func (a *Adapter) SanitizeLine(raw []byte) (h Handle) {
	defer func() {
		if r := recover(); r != nil {
			h = Sentinel
		}
	}()
	if raw == nil {
		return Sentinel
	}
	if !utf8.Valid(raw) {
		return Sentinel
	}
	// Pattern-level faults are already contained below the boundary and do
	// not fail the call.
	out, _ := a.engine.Sanitize(string(raw))
	return put(out)
}

// Bytes returns a copy of the redacted text held by h. ok is false for the
// sentinel and for handles that were already released.
func (h Handle) Bytes() ([]byte, bool) {
	if h == Sentinel {
		return nil, false
	}
	results.mu.Lock()
	defer results.mu.Unlock()
	s, ok := results.entries[h]
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

// String returns the redacted text held by h, or "" if h is not live.
func (h Handle) String() string {
	b, ok := h.Bytes()
	if !ok {
		return ""
	}
	return string(b)
}

// Free releases the allocation owned by h. The sentinel and unknown or
// already-released handles are no-ops. A non-sentinel handle must be freed
// exactly once; after Free it must not be read again.
func Free(h Handle) {
	if h == Sentinel {
		return
	}
	results.mu.Lock()
	delete(results.entries, h)
	results.mu.Unlock()
}

// Live reports how many handles are currently allocated and not yet
// released. Intended for tests and leak diagnostics.
func Live() int {
	results.mu.Lock()
	defer results.mu.Unlock()
	return len(results.entries)
}
