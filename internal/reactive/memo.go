package reactive

// MemoKey indexes a memo in a MemoStore.
type MemoKey uint32

type memoSlot struct {
	alive bool

	// contextSignal is a throwaway int32 signal. Its SignalKey, reinterpreted
	// as a uint32, doubles as the memo's reactive context id — the id that
	// dependency signals subscribe when read during compute. Between
	// BeginCompute and EndCompute, its value slot is reused as a one-deep
	// stack frame holding the context that was active before compute began.
	contextSignal SignalKey

	output SignalKey // cached output value
	owner  int32      // owning scope
	dirty  bool
	computing bool
}

// contextID returns the reactive context id for this memo: the
// contextSignal's key, reinterpreted as a uint32. This is the value
// installed as Runtime.currentContext during compute, and the key other
// signals subscribe under.
func (m *memoSlot) contextID() uint32 { return uint32(m.contextSignal) }

// MemoStore holds derived computations, each owning a reactive context
// that dependency signals subscribe to during BeginCompute/EndCompute.
type MemoStore struct {
	rt       *Runtime
	slots    []memoSlot
	freeList []MemoKey
}

func newMemoStore(rt *Runtime) *MemoStore {
	return &MemoStore{rt: rt}
}

func (s *MemoStore) slot(key MemoKey) *memoSlot {
	if int(key) >= len(s.slots) || !s.slots[key].alive {
		return nil
	}
	return &s.slots[key]
}

// create allocates a fresh context signal and output signal for a memo
// owned by scope, and registers the context→memo side table entry.
func (s *MemoStore) create(scope int32, initial int32) MemoKey {
	ctxSig := Create(s.rt.Signals, int32(0))
	output := Create(s.rt.Signals, initial)

	var key MemoKey
	if n := len(s.freeList); n > 0 {
		key = s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
	} else {
		key = MemoKey(len(s.slots))
		s.slots = append(s.slots, memoSlot{})
	}
	s.slots[key] = memoSlot{
		alive:         true,
		contextSignal: ctxSig,
		output:        output,
		owner:         scope,
		dirty:         true, // needs an initial compute
	}
	s.rt.memoOf[uint32(ctxSig)] = key
	return key
}

// BeginCompute saves the currently active context into the memo's context
// signal (reused as a one-deep stack frame), clears the memo's prior
// dependency subscriptions with a full scan (see SignalStore.UnsubscribeAll),
// and installs the memo's own context id as current so that subsequent
// signal reads subscribe this memo.
func (s *MemoStore) BeginCompute(key MemoKey) {
	m := s.slot(key)
	if m == nil {
		return
	}
	Write(s.rt.Signals, m.contextSignal, s.rt.currentContext)
	s.rt.Signals.UnsubscribeAll(m.contextID())
	s.rt.currentContext = int32(m.contextID())
	m.computing = true
}

// EndCompute writes value directly into the memo's output cache (bypassing
// the normal write-and-notify path: propagation to the memo's own
// subscribers already happened synchronously when the upstream signal was
// written, see Runtime.notify), clears the dirty flag, and restores the
// context that was active before BeginCompute.
func (s *MemoStore) EndCompute(key MemoKey, value int32) {
	m := s.slot(key)
	if m == nil {
		return
	}
	// Direct write: bump version without collecting/propagating subscribers
	// a second time.
	Write(s.rt.Signals, m.output, value)
	m.dirty = false
	m.computing = false
	prev := Read[int32](s.rt.Signals, m.contextSignal)
	s.rt.currentContext = prev
}

// Read returns the memo's cached output, subscribing the caller's current
// context to the output signal. It never triggers recomputation — callers
// should check IsDirty and call BeginCompute/EndCompute first if needed.
func (s *MemoStore) Read(key MemoKey) int32 {
	m := s.slot(key)
	if m == nil {
		return 0
	}
	if s.rt.currentContext != NoScope {
		s.rt.Signals.Subscribe(m.output, uint32(s.rt.currentContext))
	}
	return Read[int32](s.rt.Signals, m.output)
}

// IsDirty reports whether key needs recomputation.
func (s *MemoStore) IsDirty(key MemoKey) bool {
	m := s.slot(key)
	return m != nil && m.dirty
}

// OwnerScope returns the scope that owns key.
func (s *MemoStore) OwnerScope(key MemoKey) int32 {
	m := s.slot(key)
	if m == nil {
		return NoScope
	}
	return m.owner
}

// markDirty flags key as needing recomputation. Called by Runtime.notify
// when a dependency signal is written.
func (s *MemoStore) markDirty(key MemoKey) {
	if m := s.slot(key); m != nil {
		m.dirty = true
	}
}

// outputSubscribers returns a copy of key's output signal's subscriber set,
// used by Runtime.notify to fan out the second propagation level.
func (s *MemoStore) outputSubscribers(key MemoKey) []uint32 {
	m := s.slot(key)
	if m == nil {
		return nil
	}
	return s.rt.Signals.GetSubscribers(m.output)
}
