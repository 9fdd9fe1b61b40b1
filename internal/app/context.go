package app

import "github.com/corewasm/corewasm/internal/reactive"

// Context is the Dioxus-style component context layered over the
// reactive runtime: it is installed as the current scope during render and
// exposes use_signal / use_memo / use_effect against that scope.
type Context struct {
	app   *App
	Scope int32
}

// UseSignalI32 returns a SignalKey stable across renders of ctx's scope.
func (c *Context) UseSignalI32(initial int32) reactive.SignalKey {
	return reactive.UseSignal(c.app.RT, c.Scope, initial)
}

// UseSignalBool returns a SignalKey stable across renders of ctx's scope.
func (c *Context) UseSignalBool(initial bool) reactive.SignalKey {
	return reactive.UseSignal(c.app.RT, c.Scope, initial)
}

// UseSignalString allocates the (StringKey, SignalKey) pair backing a
// string signal, stable across renders of ctx's scope.
func (c *Context) UseSignalString(initial string) (reactive.StringKey, reactive.SignalKey) {
	return reactive.UseSignalString(c.app.RT, c.Scope, initial)
}

// ReadI32 reads an int32 signal, subscribing ctx's current reactive
// context (render, memo, or effect — whichever is active).
func (c *Context) ReadI32(key reactive.SignalKey) int32 {
	return reactive.ReadSignal[int32](c.app.RT, key)
}

// ReadBool reads a bool signal, subscribing the current reactive context.
func (c *Context) ReadBool(key reactive.SignalKey) bool {
	return reactive.ReadSignal[bool](c.app.RT, key)
}

// ReadString reads a string signal's body. The read itself is untracked —
// subscribe via the companion version signal with ReadI32 if a render
// needs to react to it.
func (c *Context) ReadString(key reactive.StringKey) string {
	return c.app.RT.Strings.Read(key)
}

// WriteI32 writes an int32 signal and fans the write out to subscribers.
func (c *Context) WriteI32(key reactive.SignalKey, v int32) {
	reactive.WriteSignal(c.app.RT, key, v)
}

// WriteBool writes a bool signal and fans the write out to subscribers.
func (c *Context) WriteBool(key reactive.SignalKey, v bool) {
	reactive.WriteSignal(c.app.RT, key, v)
}

// WriteString writes a string signal's body and bumps its companion
// version signal.
func (c *Context) WriteString(str reactive.StringKey, ver reactive.SignalKey, v string) {
	reactive.WriteSignalString(c.app.RT, str, ver)(v)
}

// UseMemoI32 returns a MemoKey stable across renders of ctx's scope,
// recomputing compute() whenever the memo is dirty.
func (c *Context) UseMemoI32(initial int32, compute func() int32) reactive.MemoKey {
	key := reactive.UseMemoI32(c.app.RT, c.Scope, initial)
	if c.app.RT.Memos.IsDirty(key) {
		c.app.RT.Memos.BeginCompute(key)
		v := compute()
		c.app.RT.Memos.EndCompute(key, v)
	}
	return key
}

// ReadMemo reads a memo's cached output, subscribing the current context.
func (c *Context) ReadMemo(key reactive.MemoKey) int32 {
	return c.app.RT.Memos.Read(key)
}

// UseEffect returns an EffectKey stable across renders of ctx's scope and
// records run as the body to execute the next time the effect is pending.
// Per spec.md §5, effects are pending-flagged but never run during
// rendering — run is captured for App.DrainEffects to invoke after a
// render/flush completes, not invoked inline here.
func (c *Context) UseEffect(run func()) reactive.EffectKey {
	key := reactive.UseEffect(c.app.RT, c.Scope)
	c.app.registerEffectBody(key, run)
	return key
}
