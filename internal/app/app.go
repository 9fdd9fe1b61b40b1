package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/corewasm/corewasm/el"
	"github.com/corewasm/corewasm/internal/engine"
	"github.com/corewasm/corewasm/internal/handler"
	"github.com/corewasm/corewasm/internal/protocol"
	"github.com/corewasm/corewasm/internal/reactive"
	"github.com/corewasm/corewasm/internal/scheduler"
	"github.com/corewasm/corewasm/internal/telemetry"
	"github.com/corewasm/corewasm/internal/template"
	"github.com/corewasm/corewasm/internal/vnode"
)

// ShapeFunc builds the static Node tree once, at setup, so it can be
// compiled into a template. Dynamic slots appear as placeholders (DynText,
// DynNode, On, Bind) with no per-render value attached — only their shape
// and auto-bindings matter here.
type ShapeFunc func(ctx *Context) *el.Node

// RenderFunc fills a fresh template-ref's dynamic text/node slots with the
// current signal values, in template-declared order, via the pre-bound
// builder render_builder() hands it. Dynamic *attributes* are already
// filled in by render_builder from the bindings setup_view collected —
// callers only ever push text/node content here.
type RenderFunc func(ctx *Context, b vnode.Builder) vnode.Key

const bindKindEvent = 0
const bindKindValue = 1

type resolvedEventBinding struct {
	HandlerID uint32
	EventName string
}

type attrBinding struct {
	slot  int
	kind  int
	event resolvedEventBinding
	value el.ValueBinding
}

// App is the app shell (component O): it owns the runtime, VNode store,
// element-ID allocator, template/handler registries, scheduler, and
// create/diff engine, and glues them into mount/rebuild/event/flush
// lifecycle operations.
type App struct {
	RT        *reactive.Runtime
	IDs       *reactive.IDAllocator
	Templates *template.Registry
	Handlers  *handler.Registry
	VNodes    *vnode.Store
	Scheduler *scheduler.Scheduler
	Engine    *engine.Engine

	log *slog.Logger

	name  string
	shape ShapeFunc
	view  RenderFunc

	rootScope    int32
	ctx          *Context
	templateID   uint32
	attrBindings []attrBinding

	currentVNode vnode.Key
	hasVNode     bool

	effectBodies map[reactive.EffectKey]func()

	destroyed bool

	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer

	mutationBufferSize int
}

// defaultMutationBufferSize is used by NewMutationBuffer when
// WithMutationBufferSize isn't given.
const defaultMutationBufferSize = 32 * 1024

// Option configures an App at construction time. Both telemetry collectors
// are optional; an App with neither wired records nothing.
type Option func(*App)

// WithMetrics wires a Prometheus collector into the app shell's lifecycle
// calls.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithTracer wires an OpenTelemetry tracer into the app shell's lifecycle
// calls.
func WithTracer(t *telemetry.Tracer) Option {
	return func(a *App) { a.tracer = t }
}

// WithDebugMode enables the reactive runtime's hook-order-violation
// detection (see reactive.Runtime.DebugMode). Off by default.
func WithDebugMode(debug bool) Option {
	return func(a *App) { a.RT.DebugMode = debug }
}

// WithMutationBufferSize sets the buffer size NewMutationBuffer allocates.
// It has no effect on Init/Rebuild/Flush, which always write into
// whatever buffer the caller passes them.
func WithMutationBufferSize(n int) Option {
	return func(a *App) { a.mutationBufferSize = n }
}

// New wires a fresh app shell around shape/view, logging through log (which
// may be nil to disable logging).
func New(name string, shape ShapeFunc, view RenderFunc, log *slog.Logger, opts ...Option) *App {
	rt := reactive.NewRuntime()
	ids := reactive.NewIDAllocator()
	templates := template.NewRegistry()
	vnodes := vnode.NewStore()
	handlers := handler.NewRegistry(rt, log)

	a := &App{
		RT:                 rt,
		IDs:                ids,
		Templates:          templates,
		Handlers:           handlers,
		VNodes:             vnodes,
		Scheduler:          scheduler.New(),
		Engine:             engine.New(ids, templates, vnodes),
		log:                log,
		name:               name,
		shape:              shape,
		view:               view,
		effectBodies:       make(map[reactive.EffectKey]func()),
		mutationBufferSize: defaultMutationBufferSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	rt.SetTracer(a.tracer)
	return a
}

// NewMutationBuffer allocates a buffer sized per WithMutationBufferSize (or
// defaultMutationBufferSize), suitable for passing to Init/Rebuild/Flush.
func (a *App) NewMutationBuffer() []byte {
	return make([]byte, a.mutationBufferSize)
}

func (a *App) debugf(msg string, args ...any) {
	if a.log != nil {
		a.log.Debug(msg, args...)
	}
}

func (a *App) registerEffectBody(key reactive.EffectKey, run func()) {
	a.effectBodies[key] = run
}

// DrainEffects runs every pending effect's most recently registered body,
// per spec.md §5: effects run after rendering, never during it.
func (a *App) DrainEffects() {
	ran := 0
	for key, run := range a.effectBodies {
		if a.RT.Effects.IsPending(key) {
			a.RT.Effects.BeginRun(key)
			run()
			a.RT.Effects.EndRun(key)
			ran++
		}
	}
	a.metrics.ObserveEffectsRun(ran)
}

// setupView implements spec.md §4.O's setup_view: it compiles shape into a
// template, registering a handler for every inline EVENT node and
// collecting every inline BIND_VALUE node's binding, so render_builder can
// replay both without the render callback wiring them by hand.
func (a *App) setupView(shape *el.Node) {
	compiled := el.ToTemplate(a.name, shape)

	var bindings []attrBinding
	for _, eb := range compiled.Events {
		id := a.Handlers.Register(handler.Entry{
			Scope:     a.rootScope,
			Action:    handler.ActionTag(eb.Action),
			SignalKey: eb.SignalKey,
			Operand:   eb.Operand,
			EventName: eb.EventName,
		})
		bindings = append(bindings, attrBinding{
			slot:  eb.SlotIndex,
			kind:  bindKindEvent,
			event: resolvedEventBinding{HandlerID: id, EventName: eb.EventName},
		})
	}
	for _, vb := range compiled.Values {
		bindings = append(bindings, attrBinding{slot: vb.SlotIndex, kind: bindKindValue, value: vb})
	}
	insertionSortBySlot(bindings)

	a.attrBindings = bindings
	a.templateID = a.Templates.Register(compiled.Template)
}

func insertionSortBySlot(b []attrBinding) {
	for i := 1; i < len(b); i++ {
		cur := b[i]
		j := i - 1
		for j >= 0 && b[j].slot > cur.slot {
			b[j+1] = b[j]
			j--
		}
		b[j+1] = cur
	}
}

// RenderBuilder returns a builder over a fresh TEMPLATE_REF VNode, with
// every dynamic-attr slot already filled from the bindings setup_view
// collected. The caller only needs to push dynamic text/node contents.
func (a *App) RenderBuilder() vnode.Builder {
	key := a.VNodes.PushTemplateRef(a.templateID)
	b := vnode.NewBuilder(a.VNodes, key)
	for _, bind := range a.attrBindings {
		switch bind.kind {
		case bindKindEvent:
			b = b.AddDynEvent(bind.event.EventName, bind.event.HandlerID)
		case bindKindValue:
			b = b.AddDynTextSignal(bind.value.AttrName, a.RT.Strings, reactive.StringKey(bind.value.StringKey))
		}
	}
	return b
}

// Mount runs the create engine over key and appends its roots under the
// host-reserved root element (id 0).
func (a *App) Mount(w *protocol.Writer, key vnode.Key) {
	n := a.Engine.Create(w, key)
	w.EmitAppendChildren(reactive.RootElementID, uint32(n))
}

// DiffInto runs the diff engine, transferring mount state from oldKey to
// newKey and emitting the minimal patch to bring the DOM up to date.
func (a *App) DiffInto(w *protocol.Writer, oldKey, newKey vnode.Key) {
	a.Engine.Diff(w, oldKey, newKey)
}

func (a *App) renderRootInto(w *protocol.Writer) {
	prev := a.RT.BeginScopeRender(a.rootScope)
	b := a.RenderBuilder()
	key := a.view(a.ctx, b)
	a.RT.EndScopeRender(prev)

	if a.hasVNode {
		a.DiffInto(w, a.currentVNode, key)
	} else {
		a.Mount(w, key)
		a.hasVNode = true
	}
	a.currentVNode = key
}

// Init opens the root scope, runs Shape once to compile and register the
// template, then performs the first render/mount into buf. Returns the
// number of bytes written (the wire contract's "len").
func (a *App) Init(buf []byte) int {
	start := time.Now()
	_, span := a.tracer.StartFrame(context.Background(), "init")

	a.rootScope = a.RT.Scopes.Create(0, reactive.NoScope)
	a.ctx = &Context{app: a, Scope: a.rootScope}

	prev := a.RT.BeginScopeRender(a.rootScope)
	shape := a.shape(a.ctx)
	a.RT.EndScopeRender(prev)
	a.setupView(shape)

	w := protocol.NewWriter(buf)
	a.renderRootInto(w)
	n := w.Finalize()

	a.metrics.ObserveFrame("init", time.Since(start).Seconds(), n)
	span.End(n, nil)
	return n
}

// Rebuild forces a fresh full render/diff into buf, independent of the
// scheduler's dirty queue — used by the host to force a resync.
func (a *App) Rebuild(buf []byte) int {
	start := time.Now()
	_, span := a.tracer.StartFrame(context.Background(), "rebuild")

	w := protocol.NewWriter(buf)
	a.renderRootInto(w)
	n := w.Finalize()

	a.metrics.ObserveFrame("rebuild", time.Since(start).Seconds(), n)
	span.End(n, nil)
	return n
}

// HandleEvent dispatches handlerID for eventType and returns whether an
// action actually fired. It does not itself render — the host calls Flush
// separately to pick up whatever the dispatch marked dirty.
func (a *App) HandleEvent(handlerID uint32, eventType handler.EventType) bool {
	a.debugf("handle_event", "handler_id", handlerID, "event_type", eventType)
	fired := a.Handlers.Dispatch(handlerID, eventType)
	a.metrics.ObserveEvent(fired)
	return fired
}

// DispatchString is HandleEvent plus a string payload, for SIGNAL_SET_STRING
// and KEY_ENTER_CUSTOM handlers.
func (a *App) DispatchString(handlerID uint32, eventType handler.EventType, value string) bool {
	a.debugf("dispatch_string", "handler_id", handlerID)
	fired := a.Handlers.DispatchWithString(handlerID, eventType, value)
	a.metrics.ObserveEvent(fired)
	return fired
}

// Flush drains the scheduler and re-renders every dirty scope in
// height-first order, writing the combined patch into buf. Returns 0 if
// nothing was dirty.
func (a *App) Flush(buf []byte) int {
	start := time.Now()
	_, span := a.tracer.StartFrame(context.Background(), "flush")

	a.Scheduler.Collect(a.RT)
	a.metrics.ObserveDirtyScopes(a.Scheduler.Count())
	if a.Scheduler.IsEmpty() {
		span.End(0, nil)
		return 0
	}
	w := protocol.NewWriter(buf)
	for {
		scopeID, ok := a.Scheduler.Next()
		if !ok {
			break
		}
		if scopeID != uint32(a.rootScope) {
			// Only the root scope is rendered in this single-component app
			// shell; nested component scopes are a future extension.
			continue
		}
		a.renderRootInto(w)
	}
	n := w.Finalize()

	a.metrics.ObserveFrame("flush", time.Since(start).Seconds(), n)
	span.End(n, nil)
	return n
}

// Destroy tears down the app's root scope. Further calls against the app
// after Destroy are undefined.
func (a *App) Destroy() {
	if a.destroyed {
		return
	}
	a.RT.Scopes.Destroy(a.rootScope)
	a.destroyed = true
}
