package reactive

// SignalKey indexes a single cell in a SignalStore.
type SignalKey uint32

type signalSlot struct {
	alive   bool
	value   any
	subs    []uint32 // subscriber context ids, swap-removed on unsubscribe
	version uint64
}

// SignalStore is a type-erased, slab-allocated store of writable cells.
// Each cell remembers its own subscriber set and a monotonic version
// counter; it does not know how to schedule anything itself — write
// returns the subscriber set and lets the caller (the Runtime) decide what
// "notify" means.
//
// The store never records a type tag for a cell: Create[T] stashes the
// value behind an `any`, and Read[T]/Write[T] type-assert it back. This
// mirrors the teacher's copy-on-read signalBase while sidestepping a raw
// byte-slab + unsafe.Pointer rendering of "size + bytes" storage, which
// would buy nothing in a garbage-collected, single-threaded runtime.
// Reading with the wrong T returns T's zero value: it neither panics nor
// reinterprets memory. The caller must still read and write a given key
// with a consistent T.
type SignalStore struct {
	slots    []signalSlot
	freeList []SignalKey
	live     int
}

// NewSignalStore returns an empty store.
func NewSignalStore() *SignalStore {
	return &SignalStore{}
}

// Create allocates a new cell initialized to v and returns its key.
func Create[T any](s *SignalStore, v T) SignalKey {
	if n := len(s.freeList); n > 0 {
		k := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		s.slots[k] = signalSlot{alive: true, value: v}
		s.live++
		return k
	}
	k := SignalKey(len(s.slots))
	s.slots = append(s.slots, signalSlot{alive: true, value: v})
	s.live++
	return k
}

// Read copies the current value of key out as T. Reading a dead or
// unknown key returns the zero value of T.
func Read[T any](s *SignalStore, key SignalKey) T {
	var zero T
	slot := s.slot(key)
	if slot == nil {
		return zero
	}
	if v, ok := slot.value.(T); ok {
		return v
	}
	return zero
}

// Peek is an alias for Read — the store never tracks reads itself, that is
// the Runtime's job (see runtime.go), so Read and Peek are identical here.
// The distinction is kept as a named entry point so call sites document
// their intent.
func Peek[T any](s *SignalStore, key SignalKey) T {
	return Read[T](s, key)
}

// Write overwrites the cell's value and bumps its version. It returns a
// copy of the subscriber set so the caller can fan out notifications
// without holding a reference into the slab. Writing a dead or unknown key
// is a silent no-op returning nil.
func Write[T any](s *SignalStore, key SignalKey, v T) []uint32 {
	slot := s.slot(key)
	if slot == nil {
		return nil
	}
	slot.value = v
	slot.version++
	return append([]uint32(nil), slot.subs...)
}

func (s *SignalStore) slot(key SignalKey) *signalSlot {
	if int(key) >= len(s.slots) || !s.slots[key].alive {
		return nil
	}
	return &s.slots[key]
}

// Version returns the current version counter of key, or 0 if dead/unknown.
func (s *SignalStore) Version(key SignalKey) uint64 {
	slot := s.slot(key)
	if slot == nil {
		return 0
	}
	return slot.version
}

// GetSubscribers returns a copy of key's current subscriber set.
func (s *SignalStore) GetSubscribers(key SignalKey) []uint32 {
	slot := s.slot(key)
	if slot == nil {
		return nil
	}
	return append([]uint32(nil), slot.subs...)
}

// Subscribe adds ctx to key's subscriber set. Idempotent: subscribing the
// same context twice leaves the set unchanged.
func (s *SignalStore) Subscribe(key SignalKey, ctx uint32) {
	slot := s.slot(key)
	if slot == nil {
		return
	}
	for _, existing := range slot.subs {
		if existing == ctx {
			return
		}
	}
	slot.subs = append(slot.subs, ctx)
}

// Unsubscribe removes ctx from key's subscriber set via swap-remove
// (subscriber order carries no meaning).
func (s *SignalStore) Unsubscribe(key SignalKey, ctx uint32) {
	slot := s.slot(key)
	if slot == nil {
		return
	}
	for i, existing := range slot.subs {
		if existing == ctx {
			last := len(slot.subs) - 1
			slot.subs[i] = slot.subs[last]
			slot.subs = slot.subs[:last]
			return
		}
	}
}

// UnsubscribeAll clears every subscription for ctx across the whole store.
// This is a full O(live signals) scan, used by memo/effect recomputation to
// clear prior dependencies before re-tracking — see spec.md §9's open
// question: adequate for small graphs, not asymptotically optimal.
func (s *SignalStore) UnsubscribeAll(ctx uint32) {
	for i := range s.slots {
		if !s.slots[i].alive {
			continue
		}
		subs := s.slots[i].subs
		for j, existing := range subs {
			if existing == ctx {
				last := len(subs) - 1
				subs[j] = subs[last]
				s.slots[i].subs = subs[:last]
				break
			}
		}
	}
}

// Destroy frees key's storage. Destroying a dead or unknown key is a
// no-op.
func (s *SignalStore) Destroy(key SignalKey) {
	slot := s.slot(key)
	if slot == nil {
		return
	}
	*slot = signalSlot{}
	s.freeList = append(s.freeList, key)
	s.live--
}

// Live returns the number of currently allocated cells.
func (s *SignalStore) Live() int {
	return s.live
}
