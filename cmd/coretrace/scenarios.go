package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/corewasm/corewasm/el"
	"github.com/corewasm/corewasm/internal/app"
	"github.com/corewasm/corewasm/internal/engine"
	"github.com/corewasm/corewasm/internal/handler"
	"github.com/corewasm/corewasm/internal/protocol"
	"github.com/corewasm/corewasm/internal/reactive"
	"github.com/corewasm/corewasm/internal/scheduler"
	"github.com/corewasm/corewasm/internal/telemetry"
	"github.com/corewasm/corewasm/internal/template"
	"github.com/corewasm/corewasm/internal/vnode"
)

// scenario runs one fixture end to end and returns the formatted trace it
// produced.
type scenario struct {
	name        string
	description string
	run         func() string
}

// scenarios mirrors the six end-to-end walkthroughs: one drives the full
// app shell (component O) through its public lifecycle, two drive the
// reactive runtime and scheduler directly, and three drive the create/diff
// engine (components L and M) directly against hand-built vnodes, the way
// a host-side integration test would.
var scenarios = []scenario{
	{"counter-mount", "mounts a <div>{count}</div> counter and clicks its increment button", counterMountScenario},
	{"memo-propagation", "writes a signal that feeds a derived memo consumed by an effect", memoPropagationScenario},
	{"keyed-permutation", "diffs a keyed list reordered in place into PushRoot/InsertAfter moves", keyedPermutationScenario},
	{"keyed-removal", "diffs a keyed list with one entry dropped into a single Remove", keyedRemovalScenario},
	{"attr-to-none", "diffs a dynamic attribute transitioning to NONE into an empty SetAttribute", attrToNoneScenario},
	{"scheduler-order", "dirties three scopes out of height order and drains them ascending", schedulerOrderScenario},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func decode(buf []byte) []protocol.Mutation {
	muts, err := protocol.NewReader(buf).ReadAll()
	if err != nil {
		panic(err)
	}
	return muts
}

func formatMutations(label string, muts []protocol.Mutation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d ops):\n", label, len(muts))
	for _, m := range muts {
		fmt.Fprintf(&b, "  %s\n", formatMutation(m))
	}
	return b.String()
}

func formatMutation(m protocol.Mutation) string {
	switch m.Op {
	case protocol.OpLoadTemplate:
		return fmt.Sprintf("LoadTemplate(template=%d, rootIndex=%d, id=%d)", m.TemplateID, m.RootIndex, m.ID)
	case protocol.OpAssignId:
		return fmt.Sprintf("AssignId(path=%v, id=%d)", m.Path, m.ID)
	case protocol.OpSetText:
		return fmt.Sprintf("SetText(id=%d, text=%q)", m.ID, m.Text)
	case protocol.OpCreateTextNode:
		return fmt.Sprintf("CreateTextNode(id=%d, text=%q)", m.ID, m.Text)
	case protocol.OpCreatePlaceholder:
		return fmt.Sprintf("CreatePlaceholder(id=%d)", m.ID)
	case protocol.OpReplacePlaceholder:
		return fmt.Sprintf("ReplacePlaceholder(path=%v, pop=%d)", m.Path, m.M)
	case protocol.OpReplaceWith:
		return fmt.Sprintf("ReplaceWith(id=%d, pop=%d)", m.ID, m.M)
	case protocol.OpAppendChildren:
		return fmt.Sprintf("AppendChildren(id=%d, count=%d)", m.ID, m.M)
	case protocol.OpInsertAfter:
		return fmt.Sprintf("InsertAfter(ref=%d, pop=%d)", m.RefID, m.M)
	case protocol.OpInsertBefore:
		return fmt.Sprintf("InsertBefore(ref=%d, pop=%d)", m.RefID, m.M)
	case protocol.OpSetAttribute:
		return fmt.Sprintf("SetAttribute(id=%d, ns=%d, name=%q, value=%q)", m.ID, m.NS, m.Name, m.Value)
	case protocol.OpNewEventListener:
		return fmt.Sprintf("NewEventListener(id=%d, name=%q)", m.ID, m.Name)
	case protocol.OpRemoveEventListener:
		return fmt.Sprintf("RemoveEventListener(id=%d, name=%q)", m.ID, m.Name)
	case protocol.OpRemove:
		return fmt.Sprintf("Remove(id=%d)", m.ID)
	case protocol.OpPushRoot:
		return fmt.Sprintf("PushRoot(id=%d)", m.ID)
	default:
		return "End"
	}
}

// counterMountScenario builds the app shell's canonical counter component —
// one dynamic-text slot fed by a signal, one click handler that increments
// it — and traces Init followed by one dispatch-and-flush cycle.
func counterMountScenario() string {
	var sig reactive.SignalKey
	shape := func(ctx *app.Context) *el.Node {
		sig = ctx.UseSignalI32(0)
		return el.Div(
			el.DynText(),
			el.Button(el.On("click", handler.ActionSignalAddI32, uint32(sig), 1)),
		)
	}
	view := func(ctx *app.Context, b vnode.Builder) vnode.Key {
		return b.AddDynTextSlot(strconv.Itoa(int(ctx.ReadI32(sig)))).Key()
	}

	m := telemetry.NewMetrics()
	a := app.New("counter", shape, view, discardLogger(), app.WithMetrics(m))

	buf := make([]byte, 32*1024)
	n := a.Init(buf)
	out := formatMutations("init", decode(buf[:n]))

	a.HandleEvent(0, handler.EventClick)
	n = a.Flush(buf)
	out += formatMutations("flush after click", decode(buf[:n]))
	return out
}

// memoPropagationScenario wires a base signal A, a memo M = A*2 owned by
// scope S1, and an effect E (owned by scope S2) that reads M — then writes
// A and shows the write marking M dirty and fanning out to E (marking it
// pending) without landing anything, M's own id included, in the dirty
// queue (spec.md's two-level propagation
// chain, driven directly against the runtime rather than through the app
// shell's once-per-mount Shape/View split).
func memoPropagationScenario() string {
	rt := reactive.NewRuntime()
	memoOwner := rt.Scopes.Create(0, reactive.NoScope)
	effectOwner := rt.Scopes.Create(0, reactive.NoScope)

	a := reactive.Create(rt.Signals, int32(1))
	m := reactive.UseMemoI32(rt, memoOwner, 0)

	recompute := func() {
		rt.Memos.BeginCompute(m)
		v := reactive.ReadSignal[int32](rt, a)
		rt.Memos.EndCompute(m, v*2)
	}
	recompute()

	eff := reactive.UseEffect(rt, effectOwner)
	runEffect := func() {
		rt.Effects.BeginRun(eff)
		_ = rt.Memos.Read(m)
		rt.Effects.EndRun(eff)
	}
	runEffect() // effects run at least once, per spec.md semantics

	var b strings.Builder
	fmt.Fprintf(&b, "after setup: memo=%d effect pending=%t\n", rt.Memos.Read(m), rt.Effects.IsPending(eff))

	reactive.WriteSignal(rt, a, int32(5))
	fmt.Fprintf(&b, "after WriteSignal(a, 5): memo dirty=%t effect pending=%t dirty queue=%v\n",
		rt.Memos.IsDirty(m), rt.Effects.IsPending(eff), rt.DrainDirty())

	recompute()
	runEffect()
	fmt.Fprintf(&b, "after recompute+run: memo=%d effect pending=%t\n", rt.Memos.Read(m), rt.Effects.IsPending(eff))
	return b.String()
}

func keyedPermutationScenario() string {
	e, templates, vnodes := newEngineFixture()
	tmplID := registerLeaf(templates, "item")

	oldFrag := vnodes.PushFragment()
	ka := vnodes.PushTemplateRefKeyed(tmplID, "a")
	kb := vnodes.PushTemplateRefKeyed(tmplID, "b")
	kc := vnodes.PushTemplateRefKeyed(tmplID, "c")
	vnodes.PushFragmentChild(oldFrag, ka)
	vnodes.PushFragmentChild(oldFrag, kb)
	vnodes.PushFragmentChild(oldFrag, kc)

	cw := protocol.NewWriter(make([]byte, 1024))
	e.Create(cw, oldFrag)

	newFrag := vnodes.PushFragment()
	kc2 := vnodes.PushTemplateRefKeyed(tmplID, "c")
	ka2 := vnodes.PushTemplateRefKeyed(tmplID, "a")
	kb2 := vnodes.PushTemplateRefKeyed(tmplID, "b")
	vnodes.PushFragmentChild(newFrag, kc2)
	vnodes.PushFragmentChild(newFrag, ka2)
	vnodes.PushFragmentChild(newFrag, kb2)

	buf := make([]byte, 1024)
	w := protocol.NewWriter(buf)
	e.Diff(w, oldFrag, newFrag)
	return formatMutations("diff old=[a,b,c] new=[c,a,b]", decode(buf[:w.Finalize()]))
}

func keyedRemovalScenario() string {
	e, templates, vnodes := newEngineFixture()
	tmplID := registerLeaf(templates, "item")

	oldFrag := vnodes.PushFragment()
	ka := vnodes.PushTemplateRefKeyed(tmplID, "a")
	kb := vnodes.PushTemplateRefKeyed(tmplID, "b")
	kc := vnodes.PushTemplateRefKeyed(tmplID, "c")
	vnodes.PushFragmentChild(oldFrag, ka)
	vnodes.PushFragmentChild(oldFrag, kb)
	vnodes.PushFragmentChild(oldFrag, kc)

	cw := protocol.NewWriter(make([]byte, 1024))
	e.Create(cw, oldFrag)

	newFrag := vnodes.PushFragment()
	ka2 := vnodes.PushTemplateRefKeyed(tmplID, "a")
	kc2 := vnodes.PushTemplateRefKeyed(tmplID, "c")
	vnodes.PushFragmentChild(newFrag, ka2)
	vnodes.PushFragmentChild(newFrag, kc2)

	buf := make([]byte, 1024)
	w := protocol.NewWriter(buf)
	e.Diff(w, oldFrag, newFrag)
	return formatMutations("diff old=[a,b,c] new=[a,c]", decode(buf[:w.Finalize()]))
}

func attrToNoneScenario() string {
	e, templates, vnodes := newEngineFixture()
	tmplID := templates.Register(template.Template{
		Name: "input",
		Nodes: []template.Node{{
			Kind: template.NodeElement, Tag: "input",
			Attrs: []template.Attr{{Kind: template.AttrDynamic, Name: "placeholder", Slot: 0}},
		}},
		Roots: []int{0},
	})

	oldKey := vnodes.PushTemplateRef(tmplID)
	vnode.NewBuilder(vnodes, oldKey).AddDynTextAttr("placeholder", "hi")
	cw := protocol.NewWriter(make([]byte, 512))
	e.Create(cw, oldKey)

	newKey := vnodes.PushTemplateRef(tmplID)
	vnode.NewBuilder(vnodes, newKey).AddDynNoneAttr("placeholder")

	buf := make([]byte, 512)
	w := protocol.NewWriter(buf)
	e.Diff(w, oldKey, newKey)
	return formatMutations("diff placeholder=\"hi\" -> NONE", decode(buf[:w.Finalize()]))
}

// schedulerOrderScenario creates three sibling scopes of heights 3, 1, 2 (in
// that arrival order), marks them all dirty directly against the runtime,
// and drains the scheduler — demonstrating it reorders to ascending height
// rather than preserving arrival order.
func schedulerOrderScenario() string {
	rt := reactive.NewRuntime()
	root := rt.Scopes.Create(0, reactive.NoScope)

	for _, h := range []int32{3, 1, 2} {
		s := rt.Scopes.Create(h, root)
		rt.MarkScopeDirty(uint32(s))
	}

	sched := scheduler.New()
	sched.Collect(rt)

	var b strings.Builder
	b.WriteString("dirtied in arrival order: height=3, height=1, height=2\n")
	b.WriteString("drained in ascending-height order:\n")
	for {
		scopeID, ok := sched.Next()
		if !ok {
			break
		}
		sc := rt.Scopes.Get(int32(scopeID))
		fmt.Fprintf(&b, "  scope=%d height=%d\n", scopeID, sc.Height)
	}
	return b.String()
}

func newEngineFixture() (*engine.Engine, *template.Registry, *vnode.Store) {
	ids := reactive.NewIDAllocator()
	templates := template.NewRegistry()
	vnodes := vnode.NewStore()
	return engine.New(ids, templates, vnodes), templates, vnodes
}

func registerLeaf(templates *template.Registry, name string) uint32 {
	return templates.Register(template.Template{
		Name:  name,
		Nodes: []template.Node{{Kind: template.NodeElement, Tag: "li"}},
		Roots: []int{0},
	})
}
