// Package dedup holds the per-run set of identity keys already accepted.
package dedup

import (
	"sync"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure Set implements model.SeenSet.
var _ model.SeenSet = (*Set)(nil)

// Set is an in-memory, run-scoped set of identity keys. It is safe for
// concurrent use; Add performs the membership check and the insert under one
// lock so two producers can never both accept the same key.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add inserts key and reports whether it was not already present.
func (s *Set) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct keys accepted so far.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
