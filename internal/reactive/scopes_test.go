package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeArenaCreateHeight(t *testing.T) {
	a := NewScopeArena()
	root := a.Create(0, NoScope)
	child := a.CreateChild(root)

	rs := a.Get(root)
	cs := a.Get(child)
	require.NotNil(t, rs)
	require.NotNil(t, cs)
	assert.Equal(t, int32(0), rs.Height)
	assert.Equal(t, int32(1), cs.Height)
	assert.Equal(t, root, cs.Parent)
}

func TestScopeDestroyDetachesFromParent(t *testing.T) {
	a := NewScopeArena()
	root := a.Create(0, NoScope)
	child := a.CreateChild(root)

	a.Destroy(child)
	assert.Nil(t, a.Get(child))
	assert.Empty(t, a.Get(root).children)
	assert.False(t, a.HasPendingDescendant(root))
}

// For all scopes s and for all renderings, the multiset of hook ids emitted
// by next_hook over the render equals the multiset pushed during first
// render, in identical order (spec.md §8).
func TestHookOrderStableAcrossRerenders(t *testing.T) {
	a := NewScopeArena()
	scope := a.Create(0, NoScope)

	a.BeginRender(scope)
	require.True(t, a.Get(scope).IsFirstRender())
	a.PushHook(scope, HookSignal, 10)
	a.PushHook(scope, HookMemo, 20)
	a.PushHook(scope, HookEffect, 30)

	for renders := 0; renders < 3; renders++ {
		a.BeginRender(scope)
		assert.False(t, a.Get(scope).IsFirstRender())
		assert.Equal(t, uint32(10), a.NextHook(scope))
		assert.Equal(t, uint32(20), a.NextHook(scope))
		assert.Equal(t, uint32(30), a.NextHook(scope))
	}
}

func TestNextHookPastEndReturnsZero(t *testing.T) {
	a := NewScopeArena()
	scope := a.Create(0, NoScope)
	a.BeginRender(scope)
	a.PushHook(scope, HookSignal, 1)
	a.BeginRender(scope)
	assert.Equal(t, uint32(1), a.NextHook(scope))
	assert.Equal(t, uint32(0), a.NextHook(scope))
}

func TestContextProvideConsumeWalksAncestors(t *testing.T) {
	a := NewScopeArena()
	root := a.Create(0, NoScope)
	mid := a.CreateChild(root)
	leaf := a.CreateChild(mid)

	a.ProvideContext(root, 7, 100)

	v, ok := a.ConsumeContext(leaf, 7)
	assert.True(t, ok)
	assert.Equal(t, int32(100), v)

	_, ok = a.ConsumeContext(leaf, 999)
	assert.False(t, ok)
}

func TestErrorBoundaryPropagation(t *testing.T) {
	a := NewScopeArena()
	root := a.Create(0, NoScope)
	boundary := a.CreateChild(root)
	leaf := a.CreateChild(boundary)
	a.SetErrorBoundary(boundary)

	hit := a.PropagateError(leaf, "boom")
	assert.Equal(t, boundary, hit)

	msg, ok := a.HasError(boundary)
	assert.True(t, ok)
	assert.Equal(t, "boom", msg)

	_, ok = a.HasError(leaf)
	assert.False(t, ok)

	assert.Equal(t, boundary, a.FindBoundary(leaf))
}

func TestPropagateErrorNoBoundaryReturnsNoScope(t *testing.T) {
	a := NewScopeArena()
	root := a.Create(0, NoScope)
	leaf := a.CreateChild(root)
	assert.Equal(t, NoScope, a.PropagateError(leaf, "boom"))
}

func TestSuspenseBoundaryPendingDescendant(t *testing.T) {
	a := NewScopeArena()
	root := a.Create(0, NoScope)
	mid := a.CreateChild(root)
	leaf := a.CreateChild(mid)

	a.SetSuspenseBoundary(root)
	assert.False(t, a.HasPendingDescendant(root))

	a.SetPending(leaf)
	assert.True(t, a.HasPendingDescendant(root))

	a.ResolvePending(leaf)
	assert.False(t, a.HasPendingDescendant(root))
}
