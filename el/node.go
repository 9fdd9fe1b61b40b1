package el

import "github.com/corewasm/corewasm/internal/handler"

// AutoSlot is the sentinel dynamic-slot index meaning "assign me a slot
// index during the first compiler pass, in tree-walk order".
const AutoSlot = -1

// Kind discriminates the eight Node shapes the DSL can build.
type Kind uint8

const (
	KindText Kind = iota
	KindElement
	KindDynText
	KindDynNode
	KindStaticAttr
	KindDynAttr
	KindEvent
	KindBindValue
)

// IsAttr reports whether a Kind occupies an attribute slot on its parent
// ELEMENT's Items list, as opposed to a child slot.
func (k Kind) IsAttr() bool {
	switch k {
	case KindStaticAttr, KindDynAttr, KindEvent, KindBindValue:
		return true
	default:
		return false
	}
}

// Node is a tagged union: every DSL value-builder function returns a
// *Node, and ToTemplate walks the tree twice to produce an immutable
// template.Template.
type Node struct {
	Kind Kind

	// KindText
	Text string

	// KindElement
	Tag   string
	Items []*Node // mixes children and attrs; see AttrCount

	// KindDynText / KindDynNode / KindDynAttr
	Slot int // AutoSlot until the compiler assigns it

	// KindStaticAttr
	AttrName  string
	AttrValue string

	// KindEvent
	EventName string
	Action    handler.ActionTag
	SignalKey uint32
	Operand   int32

	// KindBindValue
	BindAttrName string
	StringKey    uint32
	VersionKey   uint32
}

// AttrCount returns the number of attr-kinded items directly on an
// ELEMENT node.
func (n *Node) AttrCount() int {
	count := 0
	for _, it := range n.Items {
		if it.Kind.IsAttr() {
			count++
		}
	}
	return count
}

// Text builds a TEXT node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// El builds an ELEMENT node with the given HTML tag and mixed
// children/attrs.
func El(tag string, items ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Items: items}
}

// DynText builds a DYN_TEXT node with an auto-numbered slot.
func DynText() *Node {
	return &Node{Kind: KindDynText, Slot: AutoSlot}
}

// DynNode builds a DYN_NODE node with an auto-numbered slot.
func DynNode() *Node {
	return &Node{Kind: KindDynNode, Slot: AutoSlot}
}

// StaticAttr builds a STATIC_ATTR item.
func StaticAttr(name, value string) *Node {
	return &Node{Kind: KindStaticAttr, AttrName: name, AttrValue: value}
}

// DynAttr builds a bare DYN_ATTR item with an auto-numbered slot — used
// directly for attributes whose value is computed outside the
// event/bind-value conveniences below.
func DynAttr() *Node {
	return &Node{Kind: KindDynAttr, Slot: AutoSlot}
}

// On builds an EVENT item: an inline handler registration that the
// compiler rewrites into a NODE_DYN_ATTR slot plus a side-channel event
// binding (see compiler.go).
func On(eventName string, action handler.ActionTag, signalKey uint32, operand int32) *Node {
	return &Node{Kind: KindEvent, EventName: eventName, Action: action, SignalKey: signalKey, Operand: operand}
}

// Bind builds a BIND_VALUE item: a two-way value binding that the compiler
// rewrites into a NODE_DYN_ATTR slot plus a side-channel value binding.
func Bind(attrName string, stringKey, versionKey uint32) *Node {
	return &Node{Kind: KindBindValue, BindAttrName: attrName, StringKey: stringKey, VersionKey: versionKey}
}
