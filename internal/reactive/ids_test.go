package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocatorRootPreAllocated(t *testing.T) {
	a := NewIDAllocator()
	assert.True(t, a.IsAlive(RootElementID))
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 0, a.UserCount())
}

func TestIDAllocatorAllocIsDenseAndGrowing(t *testing.T) {
	a := NewIDAllocator()
	first := a.Alloc()
	second := a.Alloc()
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, uint32(2), second)
	assert.Equal(t, 3, a.Count())
}

// Freshly allocated IDs first exhaust the free list (LIFO) before
// extending the slab (spec.md §8).
func TestIDAllocatorFreeListLIFOBeforeExtend(t *testing.T) {
	a := NewIDAllocator()
	x := a.Alloc()
	y := a.Alloc()
	z := a.Alloc()

	a.Free(y)
	a.Free(z)

	// LIFO: z was freed last, so it comes back first.
	require.Equal(t, z, a.Alloc())
	require.Equal(t, y, a.Alloc())

	fresh := a.Alloc()
	assert.Greater(t, fresh, x)
	assert.Greater(t, fresh, y)
	assert.Greater(t, fresh, z)
}

func TestIDAllocatorFreeRootIsNoop(t *testing.T) {
	a := NewIDAllocator()
	a.Free(RootElementID)
	assert.True(t, a.IsAlive(RootElementID))
	assert.Equal(t, 1, a.Count())
}

func TestIDAllocatorFreeDeadIsNoop(t *testing.T) {
	a := NewIDAllocator()
	id := a.Alloc()
	a.Free(id)
	countAfterFirstFree := a.Count()
	a.Free(id)
	assert.Equal(t, countAfterFirstFree, a.Count())
}

func TestIDAllocatorAliveSetMatchesSpec(t *testing.T) {
	// The set of alive IDs is exactly {0} ∪ {ids ever allocated} \ {ids
	// ever freed and not realloc'd}.
	a := NewIDAllocator()
	ids := make([]uint32, 5)
	for i := range ids {
		ids[i] = a.Alloc()
	}
	a.Free(ids[1])
	a.Free(ids[3])

	for i, id := range ids {
		want := i != 1 && i != 3
		assert.Equal(t, want, a.IsAlive(id), "id %d alive state", id)
	}
	assert.True(t, a.IsAlive(RootElementID))
}
