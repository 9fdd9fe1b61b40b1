package engine

import "github.com/corewasm/corewasm/internal/template"

// templateInfo precomputes, once per template, the static path from its
// nearest root to every dynamic slot. Path computation is the expensive
// half of create/diff (it is a tree walk over the static template), so
// every vnode mounted against the same template after the first reuses it.
type templateInfo struct {
	pathOf      map[int][]byte // template node index -> path from its root
	dynNodeNode map[int]int    // dynamic-node slot -> owning node index
	dynTextNode map[int]int    // dynamic-text slot -> owning node index
	dynAttrNode map[int]int    // dynamic-attr slot -> owning (element) node index
}

func buildTemplateInfo(t *template.Template) *templateInfo {
	info := &templateInfo{
		pathOf:      map[int][]byte{},
		dynNodeNode: map[int]int{},
		dynTextNode: map[int]int{},
		dynAttrNode: map[int]int{},
	}
	var walk func(idx int, path []byte)
	walk = func(idx int, path []byte) {
		info.pathOf[idx] = path
		n := &t.Nodes[idx]
		switch n.Kind {
		case template.NodeDynamic:
			info.dynNodeNode[n.Slot] = idx
		case template.NodeDynamicText:
			info.dynTextNode[n.Slot] = idx
		case template.NodeElement:
			for _, a := range n.Attrs {
				if a.Kind == template.AttrDynamic {
					info.dynAttrNode[a.Slot] = idx
				}
			}
			for i, c := range n.Children {
				childPath := make([]byte, len(path)+1)
				copy(childPath, path)
				childPath[len(path)] = byte(i)
				walk(c, childPath)
			}
		}
	}
	for _, r := range t.Roots {
		walk(r, []byte{})
	}
	return info
}
