package el

import "github.com/corewasm/corewasm/internal/template"

// EventBinding records an inline EVENT node's (slot, handler) pairing,
// collected during ToTemplate's first pass so that render_builder
// (component O) can replay it without the app author wiring events by
// hand on every render.
type EventBinding struct {
	SlotIndex int
	EventName string
	Action    uint8 // handler.ActionTag, stored as its raw byte value
	SignalKey uint32
	Operand   int32
}

// ValueBinding records an inline BIND_VALUE node's (slot, string signal)
// pairing, collected alongside EventBinding.
type ValueBinding struct {
	SlotIndex  int
	AttrName   string
	StringKey  uint32
	VersionKey uint32
}

// Compiled is the output of ToTemplate: the immutable template plus the
// auto-collected event/value bindings render_builder needs to replay.
type Compiled struct {
	Template template.Template
	Events   []EventBinding
	Values   []ValueBinding
}

// compileState threads the three independent slot counters (dynamic
// nodes, dynamic texts, dynamic attrs) and the output node slab across
// both passes.
type compileState struct {
	nodeCounter int
	textCounter int
	attrCounter int

	nodes  []template.Node
	events []EventBinding
	values []ValueBinding
}

// ToTemplate traverses each root Node tree twice: first assigning
// auto-numbered slot indices (and rewriting inline EVENT/BIND_VALUE items
// into NODE_DYN_ATTR slots, recording their bindings in the side channel),
// then emitting the final template.Template in tree-walk order.
func ToTemplate(name string, roots ...*Node) Compiled {
	cs := &compileState{}
	for _, r := range roots {
		assignSlots(cs, r)
	}

	var rootIdx []int
	for _, r := range roots {
		rootIdx = append(rootIdx, emitNode(cs, r))
	}

	t := template.Template{
		Name:             name,
		Nodes:            cs.nodes,
		Roots:            rootIdx,
		DynamicNodeCount: cs.nodeCounter,
		DynamicTextCount: cs.textCounter,
		DynamicAttrCount: cs.attrCounter,
	}
	for i := range cs.nodes {
		for _, a := range cs.nodes[i].Attrs {
			if a.Kind == template.AttrStatic {
				t.StaticAttrCount++
			}
		}
	}
	return Compiled{Template: t, Events: cs.events, Values: cs.values}
}

// assignSlots is pass 1: tree-walk order slot assignment, plus rewriting
// EVENT/BIND_VALUE into KindDynAttr once their binding has been recorded.
func assignSlots(cs *compileState, n *Node) {
	switch n.Kind {
	case KindText:
		return
	case KindDynText:
		if n.Slot == AutoSlot {
			n.Slot = cs.textCounter
			cs.textCounter++
		}
		return
	case KindDynNode:
		if n.Slot == AutoSlot {
			n.Slot = cs.nodeCounter
			cs.nodeCounter++
		}
		return
	case KindElement:
		for _, it := range n.Items {
			switch it.Kind {
			case KindEvent:
				slot := cs.attrCounter
				cs.attrCounter++
				cs.events = append(cs.events, EventBinding{
					SlotIndex: slot,
					EventName: it.EventName,
					Action:    uint8(it.Action),
					SignalKey: it.SignalKey,
					Operand:   it.Operand,
				})
				it.Kind = KindDynAttr
				it.AttrName = it.EventName
				it.Slot = slot
			case KindBindValue:
				slot := cs.attrCounter
				cs.attrCounter++
				cs.values = append(cs.values, ValueBinding{
					SlotIndex:  slot,
					AttrName:   it.BindAttrName,
					StringKey:  it.StringKey,
					VersionKey: it.VersionKey,
				})
				it.Kind = KindDynAttr
				it.AttrName = it.BindAttrName
				it.Slot = slot
			case KindDynAttr:
				if it.Slot == AutoSlot {
					it.Slot = cs.attrCounter
					cs.attrCounter++
				}
			case KindStaticAttr:
				// no slot needed
			default:
				// child node
				assignSlots(cs, it)
			}
		}
	}
}

// emitNode is pass 2: append n (and its element children) to cs.nodes in
// tree-walk order, returning n's own index.
func emitNode(cs *compileState, n *Node) int {
	switch n.Kind {
	case KindText:
		idx := len(cs.nodes)
		cs.nodes = append(cs.nodes, template.Node{Kind: template.NodeText, Literal: n.Text})
		return idx

	case KindDynText:
		idx := len(cs.nodes)
		cs.nodes = append(cs.nodes, template.Node{Kind: template.NodeDynamicText, Slot: n.Slot})
		return idx

	case KindDynNode:
		idx := len(cs.nodes)
		cs.nodes = append(cs.nodes, template.Node{Kind: template.NodeDynamic, Slot: n.Slot})
		return idx

	case KindElement:
		idx := len(cs.nodes)
		cs.nodes = append(cs.nodes, template.Node{}) // reserve slot to fix up after children
		var children []int
		var attrs []template.Attr
		for _, it := range n.Items {
			switch it.Kind {
			case KindStaticAttr:
				attrs = append(attrs, template.Attr{Kind: template.AttrStatic, Name: it.AttrName, Value: it.AttrValue})
			case KindDynAttr:
				attrs = append(attrs, template.Attr{Kind: template.AttrDynamic, Name: it.AttrName, Slot: it.Slot})
			default:
				children = append(children, emitNode(cs, it))
			}
		}
		cs.nodes[idx] = template.Node{Kind: template.NodeElement, Tag: n.Tag, Children: children, Attrs: attrs}
		return idx

	default:
		// KindStaticAttr/KindDynAttr/KindEvent/KindBindValue only ever
		// appear inside an ELEMENT's Items and are consumed there.
		idx := len(cs.nodes)
		cs.nodes = append(cs.nodes, template.Node{Kind: template.NodeText})
		return idx
	}
}
