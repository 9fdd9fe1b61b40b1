// Package scheduler implements the height-ordered, deduplicated dirty-scope
// queue (component N): a stable-sorted vector of (scope_id, height) pairs
// that guarantees a parent flushes before its children in the same round.
package scheduler

import "github.com/corewasm/corewasm/internal/reactive"

type entry struct {
	scope  uint32
	height int32
}

// Scheduler holds the set of scopes due for a re-render, ordered by
// ascending height. Within a height, insertion order is preserved — a
// stable sort, not an unstable one — so siblings flush in the order they
// were marked dirty.
type Scheduler struct {
	entries []entry
	queued  map[uint32]bool
	sorted  bool
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{queued: make(map[uint32]bool)}
}

// Collect drains rt's dirty queue and inserts each scope id with its
// current height, deduplicated against what is already queued.
func (s *Scheduler) Collect(rt *reactive.Runtime) {
	for _, scopeID := range rt.DrainDirty() {
		s.push(rt, scopeID)
	}
}

func (s *Scheduler) push(rt *reactive.Runtime, scopeID uint32) {
	if s.queued[scopeID] {
		return
	}
	height := int32(0)
	if sc := rt.Scopes.Get(int32(scopeID)); sc != nil {
		height = sc.Height
	}
	s.queued[scopeID] = true
	s.entries = append(s.entries, entry{scope: scopeID, height: height})
	s.sorted = false
}

// Next lazily stable-sorts by ascending height and pops the front entry.
// Returns (0, false) when empty.
func (s *Scheduler) Next() (uint32, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}
	if !s.sorted {
		s.stableSortByHeight()
		s.sorted = true
	}
	e := s.entries[0]
	s.entries = s.entries[1:]
	delete(s.queued, e.scope)
	return e.scope, true
}

// stableSortByHeight is an explicit insertion sort rather than sort.Stable:
// the queue is expected to stay small (one entry per dirty scope in a
// single flush round), so the simple O(n^2) pass the teacher's diff queue
// used is preferable to pulling in the general-purpose sort machinery here.
func (s *Scheduler) stableSortByHeight() {
	for i := 1; i < len(s.entries); i++ {
		cur := s.entries[i]
		j := i - 1
		for j >= 0 && s.entries[j].height > cur.height {
			s.entries[j+1] = s.entries[j]
			j--
		}
		s.entries[j+1] = cur
	}
}

// IsEmpty reports whether the queue currently holds no scopes.
func (s *Scheduler) IsEmpty() bool { return len(s.entries) == 0 }

// Count returns the number of queued scopes.
func (s *Scheduler) Count() int { return len(s.entries) }

// HasScope reports whether scopeID is currently queued.
func (s *Scheduler) HasScope(scopeID uint32) bool { return s.queued[scopeID] }

// Clear empties the queue without processing it.
func (s *Scheduler) Clear() {
	s.entries = nil
	s.queued = make(map[uint32]bool)
	s.sorted = true
}
