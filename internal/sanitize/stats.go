package sanitize

import (
	"sync"

	"github.com/logveil/logveil/internal/types"
)

// Stats accumulates per-label match counts across lines, files, and batches.
// Safe for concurrent use.
type Stats struct {
	mu     sync.Mutex
	counts map[types.Label]int
}

// NewStats returns an empty collector.
func NewStats() *Stats {
	return &Stats{counts: map[types.Label]int{}}
}

// Add records n matches for label.
func (s *Stats) Add(label types.Label, n int) {
	s.mu.Lock()
	s.counts[label] += n
	s.mu.Unlock()
}

// Merge folds other into s.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	for label, n := range other.Counts() {
		s.Add(label, n)
	}
}

// Counts returns a copy of the per-label counters.
func (s *Stats) Counts() map[types.Label]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[types.Label]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Total returns the number of redactions recorded.
func (s *Stats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := 0
	for _, v := range s.counts {
		t += v
	}
	return t
}
