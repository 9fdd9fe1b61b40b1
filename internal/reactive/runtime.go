package reactive

import (
	"context"

	"github.com/corewasm/corewasm/internal/corerr"
	"github.com/corewasm/corewasm/internal/telemetry"
)

// Runtime composes the signal store, string store, and scope arena, and
// tracks which reactive context is "current" so that signal reads can
// auto-subscribe whoever is rendering or recomputing. It also owns the
// deduplicated dirty-scope queue and the context-id→memo / context-id→
// effect side tables that let write_signal route a write to the right
// propagation path.
type Runtime struct {
	Signals *SignalStore
	Strings *StringStore
	Scopes  *ScopeArena
	Memos   *MemoStore
	Effects *EffectStore

	currentContext int32 // NoScope sentinel when nothing is tracking
	currentScope   int32

	dirtyQueue []uint32
	dirtySet   map[uint32]bool

	memoOf   map[uint32]MemoKey   // context id -> owning memo
	effectOf map[uint32]EffectKey // context id -> owning effect

	tracer *telemetry.Tracer

	// DebugMode enables hook-order-violation detection: EndScopeRender
	// panics with a corerr E001 if the finishing scope's render consumed a
	// different number of hooks than its first render recorded. Off by
	// default since the check costs a comparison on every render.
	DebugMode bool
}

// SetTracer wires an OpenTelemetry tracer into the runtime's write_signal
// fan-out. Call before any WriteSignal call whose fan-out should be traced;
// a nil tracer (the default) disables tracing.
func (rt *Runtime) SetTracer(t *telemetry.Tracer) { rt.tracer = t }

// NewRuntime returns a freshly composed runtime with empty stores.
func NewRuntime() *Runtime {
	rt := &Runtime{
		Signals:        NewSignalStore(),
		Strings:        NewStringStore(),
		Scopes:         NewScopeArena(),
		currentContext: NoScope,
		currentScope:   NoScope,
		dirtySet:       make(map[uint32]bool),
		memoOf:         make(map[uint32]MemoKey),
		effectOf:       make(map[uint32]EffectKey),
	}
	rt.Memos = newMemoStore(rt)
	rt.Effects = newEffectStore(rt)
	return rt
}

// CurrentContext returns the reactive context id currently installed, or
// NoScope if nothing is tracking.
func (rt *Runtime) CurrentContext() int32 { return rt.currentContext }

// CurrentScope returns the scope id currently rendering, or NoScope.
func (rt *Runtime) CurrentScope() int32 { return rt.currentScope }

// BeginScopeRender saves the previous scope/context, resets the hook
// cursor, and installs scope as both the current scope and the current
// reactive context (so signal reads during render subscribe the scope).
// It returns the previous scope id, to be passed to EndScopeRender.
func (rt *Runtime) BeginScopeRender(scope int32) int32 {
	prev := rt.currentScope
	rt.Scopes.BeginRender(scope)
	rt.currentScope = scope
	rt.currentContext = scope
	return prev
}

// EndScopeRender restores the previously active scope/context. In debug
// mode, it first validates that the finishing scope's render consumed
// exactly the hooks its first render recorded.
func (rt *Runtime) EndScopeRender(prevScope int32) {
	if rt.DebugMode {
		rt.checkHookOrder(rt.currentScope)
	}
	rt.currentScope = prevScope
	rt.currentContext = prevScope
}

// checkHookOrder panics with a corerr E001 if scope is past its first
// render and its hook cursor doesn't sit exactly at the end of its recorded
// hooks — a scope calling fewer use_signal/use_memo/use_effect hooks than
// it did on first render, or more (NextHook advances the cursor past the
// end).
func (rt *Runtime) checkHookOrder(scope int32) {
	s := rt.Scopes.Get(scope)
	if s == nil || s.IsFirstRender() {
		return
	}
	if s.hookCursor != len(s.hooks) {
		panic(corerr.New("E001").WithDetail(
			"scope consumed a different number of hooks than its first render recorded"))
	}
}

// MarkScopeDirty appends scope directly to the dirty queue, deduplicated.
// Used by the handler registry's NONE/CUSTOM action tags, which mark a
// scope dirty without going through a signal write.
func (rt *Runtime) MarkScopeDirty(scope uint32) {
	rt.enqueueDirty(scope)
}

// enqueueDirty appends scope to the dirty queue, deduplicated.
func (rt *Runtime) enqueueDirty(scope uint32) {
	if rt.dirtySet[scope] {
		return
	}
	rt.dirtySet[scope] = true
	rt.dirtyQueue = append(rt.dirtyQueue, scope)
}

// WriteSignal writes v to key and fans the write out to subscribers,
// routing through the memo/effect side tables as described in spec.md
// §4.E. It does not itself schedule a re-render of anything other than
// appending to the internal dirty queue — draining that queue is the
// scheduler's job (see internal/scheduler).
func WriteSignal[T any](rt *Runtime, key SignalKey, v T) {
	subs := Write(rt.Signals, key, v)
	end := rt.tracer.StartWriteSignal(context.Background(), len(subs))
	defer end()
	rt.notify(subs)
}

func (rt *Runtime) notify(subs []uint32) {
	for _, ctx := range subs {
		if memoKey, ok := rt.memoOf[ctx]; ok {
			rt.Memos.markDirty(memoKey)
			outSubs := rt.Memos.outputSubscribers(memoKey)
			for _, outCtx := range outSubs {
				if effKey, ok := rt.effectOf[outCtx]; ok {
					rt.Effects.markPending(effKey)
					continue
				}
				rt.enqueueDirty(outCtx)
			}
			continue
		}
		if effKey, ok := rt.effectOf[ctx]; ok {
			rt.Effects.markPending(effKey)
			continue
		}
		rt.enqueueDirty(ctx)
	}
}

// ReadSignal reads key's current value, subscribing the runtime's current
// reactive context (render, memo compute, or effect run — whichever is
// active) to key. A read outside any of those (currentContext == NoScope)
// is equivalent to Peek.
func ReadSignal[T any](rt *Runtime, key SignalKey) T {
	if rt.currentContext != NoScope {
		rt.Signals.Subscribe(key, uint32(rt.currentContext))
	}
	return Read[T](rt.Signals, key)
}

// DrainDirty atomically swaps the dirty queue out, returning everything
// queued since the last drain.
func (rt *Runtime) DrainDirty() []uint32 {
	out := rt.dirtyQueue
	rt.dirtyQueue = nil
	rt.dirtySet = make(map[uint32]bool)
	return out
}

// --- Hooks -----------------------------------------------------------------
//
// Each hook follows the same shape: on first render, create the backing
// resource and push its id onto the scope's hook list; on re-render,
// next_hook returns the stored id and the "initial" argument is ignored.

// UseSignal is the generic hook underlying use_signal_i32 / use_signal_bool
// / use_signal_string: it returns the SignalKey stable across renders of
// scope.
func UseSignal[T any](rt *Runtime, scope int32, initial T) SignalKey {
	if rt.Scopes.Get(scope) != nil && !rt.Scopes.Get(scope).IsFirstRender() {
		return SignalKey(rt.Scopes.NextHook(scope))
	}
	key := Create(rt.Signals, initial)
	rt.Scopes.PushHook(scope, HookSignal, uint32(key))
	return key
}

// UseSignalString allocates a companion (StringKey, SignalKey) pair: the
// string body lives in rt.Strings, while the SignalKey (storing an
// always-zero placeholder int32) carries the subscriber set and version.
func UseSignalString(rt *Runtime, scope int32, initial string) (StringKey, SignalKey) {
	if rt.Scopes.Get(scope) != nil && !rt.Scopes.Get(scope).IsFirstRender() {
		strKey := StringKey(rt.Scopes.NextHook(scope))
		verKey := SignalKey(rt.Scopes.NextHook(scope))
		return strKey, verKey
	}
	strKey := rt.Strings.Create(initial)
	verKey := Create(rt.Signals, int32(0))
	rt.Scopes.PushHook(scope, HookSignal, uint32(strKey))
	rt.Scopes.PushHook(scope, HookSignal, uint32(verKey))
	return strKey, verKey
}

// WriteSignalString writes v into str and bumps the companion version
// signal, notifying its subscribers.
func WriteSignalString(rt *Runtime, str StringKey, ver SignalKey) func(v string) {
	return func(v string) {
		rt.Strings.Write(str, v)
		WriteSignal(rt, ver, int32(0))
	}
}

// UseMemoI32 returns the MemoKey stable across renders of scope, creating
// the memo (and its context/output signals) on first render.
func UseMemoI32(rt *Runtime, scope int32, initial int32) MemoKey {
	if rt.Scopes.Get(scope) != nil && !rt.Scopes.Get(scope).IsFirstRender() {
		return MemoKey(rt.Scopes.NextHook(scope))
	}
	key := rt.Memos.create(scope, initial)
	rt.Scopes.PushHook(scope, HookMemo, uint32(key))
	return key
}

// UseEffect returns the EffectKey stable across renders of scope, creating
// the effect on first render.
func UseEffect(rt *Runtime, scope int32) EffectKey {
	if rt.Scopes.Get(scope) != nil && !rt.Scopes.Get(scope).IsFirstRender() {
		return EffectKey(rt.Scopes.NextHook(scope))
	}
	key := rt.Effects.create(scope)
	rt.Scopes.PushHook(scope, HookEffect, uint32(key))
	return key
}
