package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalCreateReadWrite(t *testing.T) {
	s := NewSignalStore()
	key := Create(s, int32(7))

	require.Equal(t, int32(7), Read[int32](s, key))
	require.Equal(t, uint64(0), s.Version(key))

	subs := Write(s, key, int32(9))
	assert.Empty(t, subs)
	assert.Equal(t, int32(9), Read[int32](s, key))
	assert.Equal(t, uint64(1), s.Version(key))
}

// For all signals s and all writes w to s, after w: read(s) == w.value and
// version(s) == pre_version + 1 (spec.md §8).
func TestSignalWriteBumpsVersionExactlyOnce(t *testing.T) {
	s := NewSignalStore()
	key := Create(s, 0)
	for i := 1; i <= 5; i++ {
		pre := s.Version(key)
		Write(s, key, i)
		assert.Equal(t, pre+1, s.Version(key))
		assert.Equal(t, i, Read[int](s, key))
	}
}

func TestSignalPeekDoesNotDifferFromRead(t *testing.T) {
	s := NewSignalStore()
	key := Create(s, "hi")
	assert.Equal(t, Read[string](s, key), Peek[string](s, key))
}

// Subscribe is idempotent: subscribing the same context any number of
// times beyond the first leaves the subscriber set unchanged.
func TestSubscribeIdempotent(t *testing.T) {
	s := NewSignalStore()
	key := Create(s, 0)
	s.Subscribe(key, 42)
	s.Subscribe(key, 42)
	s.Subscribe(key, 42)
	assert.Len(t, s.GetSubscribers(key), 1)
}

func TestUnsubscribeSwapRemove(t *testing.T) {
	s := NewSignalStore()
	key := Create(s, 0)
	s.Subscribe(key, 1)
	s.Subscribe(key, 2)
	s.Subscribe(key, 3)

	s.Unsubscribe(key, 1)
	subs := s.GetSubscribers(key)
	assert.Len(t, subs, 2)
	assert.NotContains(t, subs, uint32(1))
	assert.Contains(t, subs, uint32(2))
	assert.Contains(t, subs, uint32(3))
}

func TestUnsubscribeAllClearsAcrossStore(t *testing.T) {
	s := NewSignalStore()
	a := Create(s, 0)
	b := Create(s, 0)
	c := Create(s, 0)
	s.Subscribe(a, 99)
	s.Subscribe(b, 99)
	s.Subscribe(c, 1)

	s.UnsubscribeAll(99)

	assert.Empty(t, s.GetSubscribers(a))
	assert.Empty(t, s.GetSubscribers(b))
	assert.Equal(t, []uint32{1}, s.GetSubscribers(c))
}

func TestSignalDestroyThenReadWriteIsNoop(t *testing.T) {
	s := NewSignalStore()
	key := Create(s, 5)
	s.Destroy(key)

	assert.Equal(t, 0, Read[int](s, key))
	assert.Nil(t, Write(s, key, 10))
	assert.Equal(t, uint64(0), s.Version(key))
}

func TestSignalFreeListReuse(t *testing.T) {
	s := NewSignalStore()
	k1 := Create(s, 1)
	s.Destroy(k1)
	k2 := Create(s, 2)
	assert.Equal(t, k1, k2, "freed slot should be reused before growing the slab")
}

func TestSignalReadUnknownKeyReturnsZero(t *testing.T) {
	s := NewSignalStore()
	assert.Equal(t, 0, Read[int](s, SignalKey(999)))
}

func TestStringStoreReadWrite(t *testing.T) {
	s := NewStringStore()
	k := s.Create("hello")
	assert.Equal(t, "hello", s.Read(k))

	s.Write(k, "world")
	assert.Equal(t, "world", s.Read(k))
	assert.Equal(t, 1, s.Live())

	s.Destroy(k)
	assert.Equal(t, "", s.Read(k))
	assert.Equal(t, 0, s.Live())
}
