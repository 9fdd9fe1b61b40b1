package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/internal/reactive"
)

// Marking S1(height 2), S2(height 0), S3(height 1), then S1 again, must
// drain in height order S2, S3, S1 — a parent always flushes before its
// children within one round (spec.md §8, scheduler ordering scenario).
func TestSchedulerHeightOrdering(t *testing.T) {
	rt := reactive.NewRuntime()
	s1 := rt.Scopes.Create(2, reactive.NoScope)
	s2 := rt.Scopes.Create(0, reactive.NoScope)
	s3 := rt.Scopes.Create(1, reactive.NoScope)

	rt.MarkScopeDirty(uint32(s1))
	rt.MarkScopeDirty(uint32(s2))
	rt.MarkScopeDirty(uint32(s3))
	rt.MarkScopeDirty(uint32(s1)) // re-marking must not duplicate or reorder

	s := New()
	s.Collect(rt)
	require.Equal(t, 3, s.Count())

	var order []uint32
	for {
		id, ok := s.Next()
		if !ok {
			break
		}
		order = append(order, id)
	}
	assert.Equal(t, []uint32{uint32(s2), uint32(s3), uint32(s1)}, order)
}

// Siblings sharing a height flush in the order they were marked dirty
// (stable sort, not an unstable one).
func TestSchedulerStableWithinHeight(t *testing.T) {
	rt := reactive.NewRuntime()
	a := rt.Scopes.Create(0, reactive.NoScope)
	b := rt.Scopes.Create(0, reactive.NoScope)
	c := rt.Scopes.Create(0, reactive.NoScope)

	rt.MarkScopeDirty(uint32(b))
	rt.MarkScopeDirty(uint32(a))
	rt.MarkScopeDirty(uint32(c))

	s := New()
	s.Collect(rt)

	var order []uint32
	for {
		id, ok := s.Next()
		if !ok {
			break
		}
		order = append(order, id)
	}
	assert.Equal(t, []uint32{uint32(b), uint32(a), uint32(c)}, order)
}

func TestSchedulerDeduplicatesAcrossCollectCalls(t *testing.T) {
	rt := reactive.NewRuntime()
	scope := rt.Scopes.Create(0, reactive.NoScope)

	rt.MarkScopeDirty(uint32(scope))
	s := New()
	s.Collect(rt)
	assert.True(t, s.HasScope(uint32(scope)))

	rt.MarkScopeDirty(uint32(scope))
	s.Collect(rt)
	assert.Equal(t, 1, s.Count(), "a scope already queued is not duplicated by a later Collect")
}

func TestSchedulerEmptyAndClear(t *testing.T) {
	s := New()
	assert.True(t, s.IsEmpty())
	_, ok := s.Next()
	assert.False(t, ok)

	rt := reactive.NewRuntime()
	scope := rt.Scopes.Create(0, reactive.NoScope)
	rt.MarkScopeDirty(uint32(scope))
	s.Collect(rt)
	require.False(t, s.IsEmpty())

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.False(t, s.HasScope(uint32(scope)))
}
