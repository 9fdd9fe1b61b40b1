package app_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corewasm/corewasm/el"
	"github.com/corewasm/corewasm/internal/app"
	"github.com/corewasm/corewasm/internal/coretest"
	"github.com/corewasm/corewasm/internal/handler"
	"github.com/corewasm/corewasm/internal/protocol"
	"github.com/corewasm/corewasm/internal/reactive"
	"github.com/corewasm/corewasm/internal/vnode"
)

// newCounterFixture wires a minimal shape/view pair — one dynamic-text slot
// driven by an i32 signal, one click handler that increments it — just
// enough surface to drive the app shell's full lifecycle end to end.
func newCounterFixture() (app.ShapeFunc, app.RenderFunc) {
	var sig reactive.SignalKey
	shape := func(ctx *app.Context) *el.Node {
		sig = ctx.UseSignalI32(0)
		return el.El("div",
			el.DynText(),
			el.El("button", el.On("click", handler.ActionSignalAddI32, uint32(sig), 1)),
		)
	}
	view := func(ctx *app.Context, b vnode.Builder) vnode.Key {
		b = b.AddDynTextSlot(strconv.Itoa(int(ctx.ReadI32(sig))))
		return b.Key()
	}
	return shape, view
}

func TestLifecycleInitMountsTemplate(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)

	trace := coretest.MustInit(t, a)
	trace.ExpectEndsClean(t)
	trace.ExpectOp(t, protocol.OpLoadTemplate)
	trace.ExpectText(t, "0")
	trace.ExpectEventListener(t, "click")
	assert.Equal(t, 1, trace.Count(protocol.OpAppendChildren))
}

// Dispatching the button's handler marks the root scope dirty (through the
// read-subscribe path Context.ReadI32 installs during render) and a
// subsequent Flush re-renders with a minimal SetText — not a full reload.
func TestLifecycleHandleEventThenFlushUpdatesText(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)
	coretest.MustInit(t, a)

	const handlerID = uint32(0) // the button's only DYN_ATTR slot, registered first
	trace := coretest.MustDispatch(t, a, handlerID, handler.EventClick)
	trace.ExpectEndsClean(t)
	trace.ExpectOp(t, protocol.OpSetText)
	trace.ExpectText(t, "1")
	trace.ExpectNoOp(t, protocol.OpLoadTemplate)
}

func TestLifecycleRepeatedDispatchAccumulates(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)
	coretest.MustInit(t, a)

	const handlerID = uint32(0)
	coretest.MustDispatch(t, a, handlerID, handler.EventClick)
	coretest.MustDispatch(t, a, handlerID, handler.EventClick)
	trace := coretest.MustDispatch(t, a, handlerID, handler.EventClick)
	trace.ExpectText(t, "3")
}

func TestLifecycleFlushWithNothingDirtyReturnsEmptyTrace(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)
	coretest.MustInit(t, a)

	trace := coretest.MustFlush(t, a)
	assert.Empty(t, trace.Mutations)
}

func TestLifecycleRebuildForcesFreshRenderIndependentOfScheduler(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)
	coretest.MustInit(t, a)

	trace := coretest.MustRebuild(t, a)
	trace.ExpectEndsClean(t)
}

func TestLifecycleDestroyIsIdempotent(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)
	coretest.MustInit(t, a)

	a.Destroy()
	a.Destroy()
}

// NewMutationBuffer defaults to a fixed size and honors WithMutationBufferSize.
func TestNewMutationBufferHonorsOption(t *testing.T) {
	shape, view := newCounterFixture()

	def := app.New("default-size", shape, view, nil)
	assert.Len(t, def.NewMutationBuffer(), 32*1024)

	sized := app.New("custom-size", shape, view, nil, app.WithMutationBufferSize(256))
	assert.Len(t, sized.NewMutationBuffer(), 256)
}

// WithDebugMode flips the underlying reactive runtime's hook-order-violation
// detection on; without it, a scope rendering fewer hooks than it recorded
// on first render does not panic.
func TestWithDebugModeEnablesHookOrderDetection(t *testing.T) {
	shape, view := newCounterFixture()
	a := coretest.NewApp(shape, view)
	coretest.MustInit(t, a)
	assert.False(t, a.RT.DebugMode)

	debugApp := app.New("debug", shape, view, nil, app.WithDebugMode(true))
	assert.True(t, debugApp.RT.DebugMode)
}
