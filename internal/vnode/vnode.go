// Package vnode implements the VNode store (component I): virtual nodes
// that parameterize a template's dynamic slots with concrete values, plus
// the mount-state bookkeeping the create/diff engines populate.
package vnode

// Kind discriminates the four VNode shapes.
type Kind uint8

const (
	KindTemplateRef Kind = iota
	KindText
	KindPlaceholder
	KindFragment
)

// NodeVariant discriminates the two payload shapes a dynamic-node slot can
// hold.
type NodeVariant uint8

const (
	NodeVariantText NodeVariant = iota
	NodeVariantPlaceholder
)

// DynamicNode is the payload for one dynamic-node slot in a TEMPLATE_REF.
type DynamicNode struct {
	Variant NodeVariant
	Text    string // meaningful only when Variant == NodeVariantText
}

// AttrValueKind discriminates the five shapes a dynamic attribute's value
// can take.
type AttrValueKind uint8

const (
	AttrValueText AttrValueKind = iota
	AttrValueInt
	AttrValueBool
	AttrValueEvent
	AttrValueNone // denotes attribute removal
)

// DynamicAttr is the payload for one dynamic-attr slot in a TEMPLATE_REF.
type DynamicAttr struct {
	Name      string
	ValueKind AttrValueKind
	Text      string
	Int       int32
	Bool      bool
	HandlerID uint32 // meaningful only when ValueKind == AttrValueEvent
}

// VNode is a value with kind TEMPLATE_REF/TEXT/PLACEHOLDER/FRAGMENT.
type VNode struct {
	Kind Kind

	// TEMPLATE_REF
	TemplateID    uint32
	Key           string
	HasKey        bool
	DynamicNodes  []DynamicNode
	DynamicTexts  []string // one per dynamic-text slot, parallel to the template's NodeDynamicText slots
	DynamicAttrs  []DynamicAttr

	// TEXT
	Text string

	// PLACEHOLDER (standalone, top-level kind — distinct from a
	// dynamic-node slot's NodeVariantPlaceholder payload)
	ElementID uint32

	// FRAGMENT
	FragmentChildren []Key

	// Mount state, populated by the create engine and transferred/updated
	// by the diff engine. Meaningless until IsMounted is true.
	RootIDs              []uint32
	DynamicNodeIDs       []uint32 // one per DynamicNodes slot
	DynamicTextIDs       []uint32 // one per DynamicTexts slot
	DynamicAttrTargetIDs []uint32 // one per DynamicAttrs slot
	IsMounted            bool
}

// Key indexes a VNode in a Store.
type Key uint32

type slot struct {
	alive bool
	node  VNode
}

// Store is a slab of VNodes addressed by a stable Key.
type Store struct {
	slots    []slot
	freeList []Key
}

// NewStore returns an empty VNode store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) alloc(v VNode) Key {
	if n := len(s.freeList); n > 0 {
		k := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		s.slots[k] = slot{alive: true, node: v}
		return k
	}
	k := Key(len(s.slots))
	s.slots = append(s.slots, slot{alive: true, node: v})
	return k
}

// PushTemplateRef constructs an unkeyed TEMPLATE_REF VNode.
func (s *Store) PushTemplateRef(templateID uint32) Key {
	return s.alloc(VNode{Kind: KindTemplateRef, TemplateID: templateID})
}

// PushTemplateRefKeyed constructs a keyed TEMPLATE_REF VNode, used for
// keyed reconciliation of fragment children.
func (s *Store) PushTemplateRefKeyed(templateID uint32, key string) Key {
	return s.alloc(VNode{Kind: KindTemplateRef, TemplateID: templateID, Key: key, HasKey: true})
}

// PushText constructs a TEXT VNode.
func (s *Store) PushText(text string) Key {
	return s.alloc(VNode{Kind: KindText, Text: text})
}

// PushPlaceholder constructs an unmounted PLACEHOLDER VNode. The create
// engine allocates its element id and emits CreatePlaceholder on first
// mount; this store never allocates ids itself.
func (s *Store) PushPlaceholder() Key {
	return s.alloc(VNode{Kind: KindPlaceholder})
}

// PushFragment constructs an empty FRAGMENT VNode.
func (s *Store) PushFragment() Key {
	return s.alloc(VNode{Kind: KindFragment})
}

// Get returns a pointer into the slab for key, or nil if dead/unknown. The
// pointer is valid until the next allocation.
func (s *Store) Get(key Key) *VNode {
	if int(key) >= len(s.slots) || !s.slots[key].alive {
		return nil
	}
	return &s.slots[key].node
}

// Free releases key back to the free list, recycling its slot.
func (s *Store) Free(key Key) {
	if int(key) >= len(s.slots) || !s.slots[key].alive {
		return
	}
	s.slots[key] = slot{}
	s.freeList = append(s.freeList, key)
}

// PushDynamicNode appends a dynamic-node slot payload to a TEMPLATE_REF
// VNode, in template-declared order.
func (s *Store) PushDynamicNode(key Key, variant DynamicNode) {
	if n := s.Get(key); n != nil {
		n.DynamicNodes = append(n.DynamicNodes, variant)
	}
}

// PushDynamicText appends a dynamic-text slot payload to a TEMPLATE_REF
// VNode, in template-declared order.
func (s *Store) PushDynamicText(key Key, text string) {
	if n := s.Get(key); n != nil {
		n.DynamicTexts = append(n.DynamicTexts, text)
	}
}

// PushDynamicAttr appends a dynamic-attr slot payload, in template-declared
// order.
func (s *Store) PushDynamicAttr(key Key, attr DynamicAttr) {
	if n := s.Get(key); n != nil {
		n.DynamicAttrs = append(n.DynamicAttrs, attr)
	}
}

// PushFragmentChild appends childKey to a FRAGMENT VNode's children.
func (s *Store) PushFragmentChild(key Key, child Key) {
	if n := s.Get(key); n != nil {
		n.FragmentChildren = append(n.FragmentChildren, child)
	}
}
