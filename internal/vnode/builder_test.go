package vnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/internal/reactive"
)

func TestBuilderChainsDynNodeSlots(t *testing.T) {
	s := NewStore()
	key := s.PushTemplateRef(0)
	b := NewBuilder(s, key)

	b.AddDynText("hello").AddDynPlaceholder()

	n := s.Get(key)
	require.Len(t, n.DynamicNodes, 2)
	assert.Equal(t, NodeVariantText, n.DynamicNodes[0].Variant)
	assert.Equal(t, "hello", n.DynamicNodes[0].Text)
	assert.Equal(t, NodeVariantPlaceholder, n.DynamicNodes[1].Variant)
}

func TestBuilderDynTextSlot(t *testing.T) {
	s := NewStore()
	key := s.PushTemplateRef(0)
	NewBuilder(s, key).AddDynTextSlot("count: 3")

	assert.Equal(t, []string{"count: 3"}, s.Get(key).DynamicTexts)
}

func TestBuilderAttrVariants(t *testing.T) {
	s := NewStore()
	key := s.PushTemplateRef(0)
	NewBuilder(s, key).
		AddDynEvent("click", 12).
		AddDynTextAttr("class", "active").
		AddDynIntAttr("tabindex", 3).
		AddDynBoolAttr("disabled", true).
		AddDynNoneAttr("title")

	attrs := s.Get(key).DynamicAttrs
	require.Len(t, attrs, 5)
	assert.Equal(t, AttrValueEvent, attrs[0].ValueKind)
	assert.Equal(t, uint32(12), attrs[0].HandlerID)
	assert.Equal(t, AttrValueText, attrs[1].ValueKind)
	assert.Equal(t, AttrValueInt, attrs[2].ValueKind)
	assert.Equal(t, int32(3), attrs[2].Int)
	assert.Equal(t, AttrValueBool, attrs[3].ValueKind)
	assert.True(t, attrs[3].Bool)
	assert.Equal(t, AttrValueNone, attrs[4].ValueKind)
}

func TestBuilderAddDynTextSignalReadsCurrentValue(t *testing.T) {
	strings := reactive.NewStringStore()
	sk := strings.Create("bound")

	s := NewStore()
	key := s.PushTemplateRef(0)
	NewBuilder(s, key).AddDynTextSignal("value", strings, sk)

	attrs := s.Get(key).DynamicAttrs
	require.Len(t, attrs, 1)
	assert.Equal(t, "bound", attrs[0].Text)

	// The read is a snapshot at build time, not a live subscription.
	strings.Write(sk, "changed")
	assert.Equal(t, "bound", attrs[0].Text)
}

func TestBuilderKeyAccessor(t *testing.T) {
	s := NewStore()
	key := s.PushTemplateRef(0)
	b := NewBuilder(s, key)
	assert.Equal(t, key, b.Key())
}
