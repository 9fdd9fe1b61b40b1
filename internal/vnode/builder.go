package vnode

import "github.com/corewasm/corewasm/internal/reactive"

// Builder is a one-shot helper wrapping an existing TEMPLATE_REF VNode,
// exposing typed push operations for the slots in the template's declared
// order. Each Add* call appends exactly one dynamic-node, dynamic-text or
// dynamic-attr payload; callers must call them in the same order the template declares
// its slots.
type Builder struct {
	store *Store
	key   Key
}

// NewBuilder wraps key, which must already be a TEMPLATE_REF VNode
// (constructed via Store.PushTemplateRef/PushTemplateRefKeyed).
func NewBuilder(store *Store, key Key) Builder {
	return Builder{store: store, key: key}
}

// Key returns the wrapped VNode's key.
func (b Builder) Key() Key { return b.key }

// AddDynText appends a TEXT dynamic-node payload.
func (b Builder) AddDynText(value string) Builder {
	b.store.PushDynamicNode(b.key, DynamicNode{Variant: NodeVariantText, Text: value})
	return b
}

// AddDynTextSlot appends a dynamic-TEXT slot payload — the simpler sibling
// of AddDynText, corresponding to a template.NodeDynamicText slot rather
// than a NodeDynamic one (it can only ever be text, never a placeholder).
func (b Builder) AddDynTextSlot(value string) Builder {
	b.store.PushDynamicText(b.key, value)
	return b
}

// AddDynPlaceholder appends a PLACEHOLDER dynamic-node payload.
func (b Builder) AddDynPlaceholder() Builder {
	b.store.PushDynamicNode(b.key, DynamicNode{Variant: NodeVariantPlaceholder})
	return b
}

// AddDynEvent appends an EVENT dynamic-attr payload.
func (b Builder) AddDynEvent(eventName string, handlerID uint32) Builder {
	b.store.PushDynamicAttr(b.key, DynamicAttr{Name: eventName, ValueKind: AttrValueEvent, HandlerID: handlerID})
	return b
}

// AddDynTextAttr appends a TEXT dynamic-attr payload.
func (b Builder) AddDynTextAttr(name, value string) Builder {
	b.store.PushDynamicAttr(b.key, DynamicAttr{Name: name, ValueKind: AttrValueText, Text: value})
	return b
}

// AddDynIntAttr appends an INTEGER dynamic-attr payload.
func (b Builder) AddDynIntAttr(name string, value int32) Builder {
	b.store.PushDynamicAttr(b.key, DynamicAttr{Name: name, ValueKind: AttrValueInt, Int: value})
	return b
}

// AddDynBoolAttr appends a BOOL dynamic-attr payload.
func (b Builder) AddDynBoolAttr(name string, value bool) Builder {
	b.store.PushDynamicAttr(b.key, DynamicAttr{Name: name, ValueKind: AttrValueBool, Bool: value})
	return b
}

// AddDynNoneAttr appends a NONE dynamic-attr payload, denoting attribute
// removal.
func (b Builder) AddDynNoneAttr(name string) Builder {
	b.store.PushDynamicAttr(b.key, DynamicAttr{Name: name, ValueKind: AttrValueNone})
	return b
}

// AddDynTextSignal reads the string signal at build time and appends it as
// a TEXT dynamic-attr payload — used for value bindings (BIND_VALUE),
// where the bound attribute is re-read fresh on every render rather than
// subscribed to directly.
func (b Builder) AddDynTextSignal(name string, strings *reactive.StringStore, key reactive.StringKey) Builder {
	return b.AddDynTextAttr(name, strings.Read(key))
}
