package engine

import (
	"strconv"

	"github.com/corewasm/corewasm/internal/protocol"
	"github.com/corewasm/corewasm/internal/reactive"
	"github.com/corewasm/corewasm/internal/template"
	"github.com/corewasm/corewasm/internal/vnode"
)

// Engine is the create/diff engine (components L and M): it walks VNodes
// and emits the opcode sequence that builds or patches them in the DOM.
type Engine struct {
	IDs       *reactive.IDAllocator
	Templates *template.Registry
	VNodes    *vnode.Store

	infoCache map[uint32]*templateInfo
}

// New returns an engine over the given id allocator, template registry and
// vnode store.
func New(ids *reactive.IDAllocator, templates *template.Registry, vnodes *vnode.Store) *Engine {
	return &Engine{
		IDs:       ids,
		Templates: templates,
		VNodes:    vnodes,
		infoCache: map[uint32]*templateInfo{},
	}
}

func (e *Engine) infoFor(tmplID uint32) *templateInfo {
	if info, ok := e.infoCache[tmplID]; ok {
		return info
	}
	t, ok := e.Templates.Get(tmplID)
	if !ok {
		return &templateInfo{}
	}
	info := buildTemplateInfo(t)
	e.infoCache[tmplID] = info
	return info
}

// Create walks the VNode at key and emits the opcodes to construct it,
// populating its mount state. It returns the number of top-level roots
// left pushed on the host interpreter's stack — the caller (component O's
// mount, or this file's replacement path) is responsible for consuming
// them with AppendChildren/ReplaceWith/InsertAfter/InsertBefore.
func (e *Engine) Create(w *protocol.Writer, key vnode.Key) int {
	n := e.VNodes.Get(key)
	if n == nil {
		return 0
	}
	switch n.Kind {
	case vnode.KindText:
		id := e.IDs.Alloc()
		w.EmitCreateTextNode(id, n.Text)
		n.RootIDs = []uint32{id}
		n.IsMounted = true
		return 1

	case vnode.KindPlaceholder:
		id := e.IDs.Alloc()
		w.EmitCreatePlaceholder(id)
		n.ElementID = id
		n.RootIDs = []uint32{id}
		n.IsMounted = true
		return 1

	case vnode.KindTemplateRef:
		return e.createTemplateRef(w, n)

	case vnode.KindFragment:
		total := 0
		for _, child := range n.FragmentChildren {
			total += e.Create(w, child)
		}
		n.IsMounted = true
		return total

	default:
		return 0
	}
}

func (e *Engine) createTemplateRef(w *protocol.Writer, n *vnode.VNode) int {
	t, ok := e.Templates.Get(n.TemplateID)
	if !ok {
		return 0
	}
	info := e.infoFor(n.TemplateID)

	n.RootIDs = make([]uint32, len(t.Roots))
	for i := range t.Roots {
		id := e.IDs.Alloc()
		w.EmitLoadTemplate(n.TemplateID, uint32(i), id)
		n.RootIDs[i] = id
	}

	n.DynamicNodeIDs = make([]uint32, len(n.DynamicNodes))
	for slot, dn := range n.DynamicNodes {
		id := e.IDs.Alloc()
		switch dn.Variant {
		case vnode.NodeVariantText:
			w.EmitCreateTextNode(id, dn.Text)
		case vnode.NodeVariantPlaceholder:
			w.EmitCreatePlaceholder(id)
		}
		path := info.pathOf[info.dynNodeNode[slot]]
		w.EmitReplacePlaceholder(path, 1)
		n.DynamicNodeIDs[slot] = id
	}

	n.DynamicTextIDs = make([]uint32, len(n.DynamicTexts))
	for slot, text := range n.DynamicTexts {
		id := e.IDs.Alloc()
		path := info.pathOf[info.dynTextNode[slot]]
		w.EmitAssignId(path, id)
		if text != "" {
			w.EmitSetText(id, text)
		}
		n.DynamicTextIDs[slot] = id
	}

	n.DynamicAttrTargetIDs = make([]uint32, len(n.DynamicAttrs))
	for slot, da := range n.DynamicAttrs {
		id := e.IDs.Alloc()
		path := info.pathOf[info.dynAttrNode[slot]]
		w.EmitAssignId(path, id)
		emitAttr(w, id, da)
		n.DynamicAttrTargetIDs[slot] = id
	}

	n.IsMounted = true
	return len(t.Roots)
}

// emitAttr writes the opcode(s) a single dynamic-attr value requires.
// AttrValueNone is deliberately skipped on create — there is nothing to
// remove on a brand-new element — see the diff engine for the update path.
func emitAttr(w *protocol.Writer, id uint32, da vnode.DynamicAttr) {
	switch da.ValueKind {
	case vnode.AttrValueText:
		w.EmitSetAttribute(id, 0, da.Name, da.Text)
	case vnode.AttrValueInt:
		w.EmitSetAttribute(id, 0, da.Name, strconv.FormatInt(int64(da.Int), 10))
	case vnode.AttrValueBool:
		if da.Bool {
			w.EmitSetAttribute(id, 0, da.Name, "true")
		} else {
			w.EmitSetAttribute(id, 0, da.Name, "")
		}
	case vnode.AttrValueEvent:
		w.EmitNewEventListener(id, da.Name)
	case vnode.AttrValueNone:
		// nothing to do on create
	}
}
