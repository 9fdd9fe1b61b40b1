package engine

import (
	"strconv"

	"github.com/corewasm/corewasm/internal/protocol"
	"github.com/corewasm/corewasm/internal/vnode"
)

// Diff compares oldKey (already mounted) against newKey (fresh, no mount
// state) and emits the minimal opcode sequence that brings the DOM from
// old to new. On return newKey carries a valid mount state suitable for a
// subsequent Diff call against it. oldKey's slot is freed; its element ids
// are transferred to newKey where the structure matches, and recycled into
// IDs only for subtrees that are replaced or removed.
func (e *Engine) Diff(w *protocol.Writer, oldKey, newKey vnode.Key) {
	old := e.VNodes.Get(oldKey)
	nw := e.VNodes.Get(newKey)
	if old == nil || nw == nil {
		return
	}

	if old.Kind != nw.Kind || (old.Kind == vnode.KindTemplateRef && old.TemplateID != nw.TemplateID) {
		e.replace(w, oldKey, newKey)
		return
	}

	switch old.Kind {
	case vnode.KindText:
		nw.RootIDs = old.RootIDs
		if old.Text != nw.Text {
			w.EmitSetText(nw.RootIDs[0], nw.Text)
		}
		nw.IsMounted = true

	case vnode.KindPlaceholder:
		nw.ElementID = old.ElementID
		nw.RootIDs = old.RootIDs
		nw.IsMounted = true

	case vnode.KindTemplateRef:
		e.diffTemplateRef(w, old, nw)

	case vnode.KindFragment:
		e.diffFragment(w, old, nw)
	}

	e.VNodes.Free(oldKey)
}

// replace handles a kind or template-id mismatch: create the new subtree,
// replace the old subtree's roots with it, and recycle the old ids.
func (e *Engine) replace(w *protocol.Writer, oldKey, newKey vnode.Key) {
	old := e.VNodes.Get(oldKey)
	n := e.Create(w, newKey)
	w.EmitReplaceWith(old.RootIDs[0], uint32(n))
	e.recycle(old)
	e.VNodes.Free(oldKey)
}

// recycle frees every element id the (now-discarded) vnode's mount state
// was holding.
func (e *Engine) recycle(n *vnode.VNode) {
	for _, id := range n.RootIDs {
		e.IDs.Free(id)
	}
	for _, id := range n.DynamicNodeIDs {
		e.IDs.Free(id)
	}
	for _, id := range n.DynamicTextIDs {
		e.IDs.Free(id)
	}
	for _, id := range n.DynamicAttrTargetIDs {
		e.IDs.Free(id)
	}
	for _, child := range n.FragmentChildren {
		if c := e.VNodes.Get(child); c != nil {
			e.recycle(c)
		}
	}
}

func (e *Engine) diffTemplateRef(w *protocol.Writer, old, nw *vnode.VNode) {
	nw.RootIDs = old.RootIDs

	nw.DynamicNodeIDs = make([]uint32, len(nw.DynamicNodes))
	for slot := range nw.DynamicNodes {
		oldDN := old.DynamicNodes[slot]
		newDN := nw.DynamicNodes[slot]
		if oldDN.Variant == newDN.Variant && oldDN == newDN {
			nw.DynamicNodeIDs[slot] = old.DynamicNodeIDs[slot]
			continue
		}
		id := e.IDs.Alloc()
		switch newDN.Variant {
		case vnode.NodeVariantText:
			w.EmitCreateTextNode(id, newDN.Text)
		case vnode.NodeVariantPlaceholder:
			w.EmitCreatePlaceholder(id)
		}
		w.EmitReplaceWith(old.DynamicNodeIDs[slot], 1)
		e.IDs.Free(old.DynamicNodeIDs[slot])
		nw.DynamicNodeIDs[slot] = id
	}

	nw.DynamicTextIDs = make([]uint32, len(nw.DynamicTexts))
	for slot, text := range nw.DynamicTexts {
		id := old.DynamicTextIDs[slot]
		nw.DynamicTextIDs[slot] = id
		if old.DynamicTexts[slot] != text {
			w.EmitSetText(id, text)
		}
	}

	nw.DynamicAttrTargetIDs = make([]uint32, len(nw.DynamicAttrs))
	for slot, newAttr := range nw.DynamicAttrs {
		id := old.DynamicAttrTargetIDs[slot]
		nw.DynamicAttrTargetIDs[slot] = id
		oldAttr := old.DynamicAttrs[slot]
		diffAttr(w, id, oldAttr, newAttr)
	}

	nw.IsMounted = true
}

func diffAttr(w *protocol.Writer, id uint32, oldAttr, newAttr vnode.DynamicAttr) {
	if oldAttr.ValueKind != newAttr.ValueKind {
		switch newAttr.ValueKind {
		case vnode.AttrValueEvent:
			if oldAttr.ValueKind == vnode.AttrValueEvent {
				w.EmitRemoveEventListener(id, oldAttr.Name)
			}
			w.EmitNewEventListener(id, newAttr.Name)
		case vnode.AttrValueNone:
			w.EmitSetAttribute(id, 0, oldAttr.Name, "")
		default:
			if oldAttr.ValueKind == vnode.AttrValueEvent {
				w.EmitRemoveEventListener(id, oldAttr.Name)
			}
			w.EmitSetAttribute(id, 0, newAttr.Name, attrText(newAttr))
		}
		return
	}

	switch newAttr.ValueKind {
	case vnode.AttrValueText:
		if oldAttr.Text != newAttr.Text {
			w.EmitSetAttribute(id, 0, newAttr.Name, newAttr.Text)
		}
	case vnode.AttrValueInt:
		if oldAttr.Int != newAttr.Int {
			w.EmitSetAttribute(id, 0, newAttr.Name, attrText(newAttr))
		}
	case vnode.AttrValueBool:
		if oldAttr.Bool != newAttr.Bool {
			w.EmitSetAttribute(id, 0, newAttr.Name, attrText(newAttr))
		}
	case vnode.AttrValueEvent:
		if oldAttr.HandlerID != newAttr.HandlerID {
			w.EmitRemoveEventListener(id, oldAttr.Name)
			w.EmitNewEventListener(id, newAttr.Name)
		}
	case vnode.AttrValueNone:
		// already NONE on both sides, nothing to do
	}
}

func attrText(a vnode.DynamicAttr) string {
	switch a.ValueKind {
	case vnode.AttrValueText:
		return a.Text
	case vnode.AttrValueInt:
		return strconv.FormatInt(int64(a.Int), 10)
	case vnode.AttrValueBool:
		if a.Bool {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// diffFragment implements keyed reconciliation per spec.md §4.M.5, falling
// back to position-wise diffing when neither side uses keys. Matched
// children whose relative order changed are physically moved with
// PushRoot + InsertAfter rather than recreated: PushRoot re-pushes an
// already-live element onto the host's mutation stack so InsertAfter can
// relocate it without a Create/Remove pair.
func (e *Engine) diffFragment(w *protocol.Writer, old, nw *vnode.VNode) {
	oldByKey := map[string]int{} // key -> index in old.FragmentChildren
	oldUsed := make([]bool, len(old.FragmentChildren))
	anyKeyed := false
	for i, ck := range old.FragmentChildren {
		if c := e.VNodes.Get(ck); c != nil && c.HasKey {
			oldByKey[c.Key] = i
			anyKeyed = true
		}
	}

	anchor := uint32(0)
	if len(old.RootIDs) > 0 {
		anchor = old.RootIDs[0]
	}

	nextUnkeyedOld := 0
	lastPlacedOldIndex := -1

	for _, newChildKey := range nw.FragmentChildren {
		newChild := e.VNodes.Get(newChildKey)
		if newChild == nil {
			continue
		}

		matchedOldIdx := -1
		if anyKeyed && newChild.HasKey {
			if idx, present := oldByKey[newChild.Key]; present && !oldUsed[idx] {
				matchedOldIdx = idx
			}
		} else {
			for nextUnkeyedOld < len(old.FragmentChildren) && oldUsed[nextUnkeyedOld] {
				nextUnkeyedOld++
			}
			if nextUnkeyedOld < len(old.FragmentChildren) {
				matchedOldIdx = nextUnkeyedOld
			}
		}

		if matchedOldIdx >= 0 {
			oldUsed[matchedOldIdx] = true
			matchedOldKey := old.FragmentChildren[matchedOldIdx]
			oldChild := e.VNodes.Get(matchedOldKey)
			if matchedOldIdx < lastPlacedOldIndex {
				for _, id := range oldChild.RootIDs {
					w.EmitPushRoot(id)
				}
				w.EmitInsertAfter(anchor, uint32(len(oldChild.RootIDs)))
			} else {
				lastPlacedOldIndex = matchedOldIdx
			}
			e.Diff(w, matchedOldKey, newChildKey)
		} else {
			n := e.Create(w, newChildKey)
			w.EmitInsertAfter(anchor, uint32(n))
		}
		if len(newChild.RootIDs) > 0 {
			anchor = newChild.RootIDs[len(newChild.RootIDs)-1]
		}
	}

	for i, ck := range old.FragmentChildren {
		if oldUsed[i] {
			continue
		}
		if c := e.VNodes.Get(ck); c != nil {
			for _, id := range c.RootIDs {
				w.EmitRemove(id)
			}
			e.recycle(c)
		}
	}

	nw.RootIDs = old.RootIDs
	nw.IsMounted = true
}
