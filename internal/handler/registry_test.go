package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/internal/reactive"
)

func newTestRegistry() (*Registry, *reactive.Runtime) {
	rt := reactive.NewRuntime()
	return NewRegistry(rt, nil), rt
}

func TestRegisterRemoveGet(t *testing.T) {
	r, _ := newTestRegistry()
	id := r.Register(Entry{Action: ActionNone, Scope: 3})

	e, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, int32(3), e.Scope)

	r.Remove(id)
	_, ok = r.Get(id)
	assert.False(t, ok)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	r, _ := newTestRegistry()
	r.Remove(999)
}

func TestRegisterReusesFreedSlot(t *testing.T) {
	r, _ := newTestRegistry()
	id1 := r.Register(Entry{Action: ActionNone})
	r.Remove(id1)
	id2 := r.Register(Entry{Action: ActionCustom})
	assert.Equal(t, id1, id2)
}

func TestDispatchUnknownHandlerReturnsFalse(t *testing.T) {
	r, _ := newTestRegistry()
	assert.False(t, r.Dispatch(42, EventClick))
}

func TestDispatchNoneMarksScopeDirtyReturnsFalse(t *testing.T) {
	r, rt := newTestRegistry()
	scope := rt.Scopes.Create(0, reactive.NoScope)
	id := r.Register(Entry{Action: ActionNone, Scope: scope})

	fired := r.Dispatch(id, EventClick)
	assert.False(t, fired)
	assert.Equal(t, []uint32{uint32(scope)}, rt.DrainDirty())
}

func TestDispatchCustomMarksScopeDirtyReturnsFalse(t *testing.T) {
	r, rt := newTestRegistry()
	scope := rt.Scopes.Create(0, reactive.NoScope)
	id := r.Register(Entry{Action: ActionCustom, Scope: scope})

	fired := r.Dispatch(id, EventCustom)
	assert.False(t, fired)
	assert.Equal(t, []uint32{uint32(scope)}, rt.DrainDirty())
}

func TestDispatchSignalSetI32(t *testing.T) {
	r, rt := newTestRegistry()
	sig := reactive.Create(rt.Signals, int32(0))
	id := r.Register(Entry{Action: ActionSignalSetI32, SignalKey: uint32(sig), Operand: 7})

	assert.True(t, r.Dispatch(id, EventClick))
	assert.Equal(t, int32(7), reactive.Read[int32](rt.Signals, sig))
}

func TestDispatchSignalAddAndSubI32(t *testing.T) {
	r, rt := newTestRegistry()
	sig := reactive.Create(rt.Signals, int32(10))
	add := r.Register(Entry{Action: ActionSignalAddI32, SignalKey: uint32(sig), Operand: 3})
	sub := r.Register(Entry{Action: ActionSignalSubI32, SignalKey: uint32(sig), Operand: 4})

	require.True(t, r.Dispatch(add, EventClick))
	assert.Equal(t, int32(13), reactive.Read[int32](rt.Signals, sig))

	require.True(t, r.Dispatch(sub, EventClick))
	assert.Equal(t, int32(9), reactive.Read[int32](rt.Signals, sig))
}

func TestDispatchSignalToggle(t *testing.T) {
	r, rt := newTestRegistry()
	sig := reactive.Create(rt.Signals, false)
	id := r.Register(Entry{Action: ActionSignalToggle, SignalKey: uint32(sig)})

	require.True(t, r.Dispatch(id, EventClick))
	assert.True(t, reactive.Read[bool](rt.Signals, sig))

	require.True(t, r.Dispatch(id, EventClick))
	assert.False(t, reactive.Read[bool](rt.Signals, sig))
}

func TestDispatchSignalSetInputNeedsI32Payload(t *testing.T) {
	r, rt := newTestRegistry()
	sig := reactive.Create(rt.Signals, int32(0))
	id := r.Register(Entry{Action: ActionSignalSetInput, SignalKey: uint32(sig)})

	// Plain Dispatch carries no payload: falls through to the default
	// branch and reports no action fired.
	assert.False(t, r.Dispatch(id, EventInput))

	assert.True(t, r.DispatchWithI32(id, EventInput, 42))
	assert.Equal(t, int32(42), reactive.Read[int32](rt.Signals, sig))
}

func TestDispatchWithI32FallsBackForOtherActions(t *testing.T) {
	r, rt := newTestRegistry()
	sig := reactive.Create(rt.Signals, int32(1))
	id := r.Register(Entry{Action: ActionSignalSetI32, SignalKey: uint32(sig), Operand: 9})

	assert.True(t, r.DispatchWithI32(id, EventClick, 999))
	assert.Equal(t, int32(9), reactive.Read[int32](rt.Signals, sig))
}

func TestDispatchSignalSetStringWritesBodyAndBumpsVersion(t *testing.T) {
	r, rt := newTestRegistry()
	str, ver := reactive.UseSignalString(rt, rt.Scopes.Create(0, reactive.NoScope), "")
	id := r.Register(Entry{Action: ActionSignalSetString, SignalKey: uint32(str), Operand: int32(ver)})

	require.True(t, r.DispatchWithString(id, EventInput, "hello"))
	assert.Equal(t, "hello", rt.Strings.Read(str))
	assert.Equal(t, uint64(1), rt.Signals.Version(ver))
}

func TestDispatchKeyEnterCustomOnlyFiresOnEnter(t *testing.T) {
	r, rt := newTestRegistry()
	scope := rt.Scopes.Create(0, reactive.NoScope)
	id := r.Register(Entry{Action: ActionKeyEnterCustom, Scope: scope})

	assert.False(t, r.DispatchWithString(id, EventKeyUp, "a"))
	assert.Empty(t, rt.DrainDirty())

	assert.True(t, r.DispatchWithString(id, EventKeyUp, "Enter"))
	assert.Equal(t, []uint32{uint32(scope)}, rt.DrainDirty())
}

func TestDispatchWithStringFallsBackForOtherActions(t *testing.T) {
	r, rt := newTestRegistry()
	sig := reactive.Create(rt.Signals, false)
	id := r.Register(Entry{Action: ActionSignalToggle, SignalKey: uint32(sig)})

	assert.True(t, r.DispatchWithString(id, EventClick, "ignored"))
	assert.True(t, reactive.Read[bool](rt.Signals, sig))
}
