package coretest

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/internal/app"
	"github.com/corewasm/corewasm/internal/handler"
)

// defaultBufSize is large enough for every scenario in spec.md §8; tests
// needing more should build an *app.App directly instead of via NewApp.
const defaultBufSize = 64 * 1024

// NewApp wires a fresh app.App around shape/view with logging discarded,
// the test-default ambient config.
//
// Example:
//
//	a := coretest.NewApp(counterShape, counterView)
func NewApp(shape app.ShapeFunc, view app.RenderFunc) *app.App {
	return app.New("test", shape, view, slog.New(slog.DiscardHandler))
}

// MustInit runs a.Init into a fresh buffer and decodes the result into a
// Trace, failing the test on any protocol error.
//
// Example:
//
//	trace := coretest.MustInit(t, a)
func MustInit(t *testing.T, a *app.App) *Trace {
	t.Helper()
	buf := make([]byte, defaultBufSize)
	n := a.Init(buf)
	return decodeTrace(t, buf[:n])
}

// MustRebuild is MustInit's Rebuild counterpart.
func MustRebuild(t *testing.T, a *app.App) *Trace {
	t.Helper()
	buf := make([]byte, defaultBufSize)
	n := a.Rebuild(buf)
	return decodeTrace(t, buf[:n])
}

// MustFlush drains a's scheduler and decodes the resulting patch. Returns
// an empty Trace (no mutations) if nothing was dirty.
func MustFlush(t *testing.T, a *app.App) *Trace {
	t.Helper()
	buf := make([]byte, defaultBufSize)
	n := a.Flush(buf)
	if n == 0 {
		return &Trace{}
	}
	return decodeTrace(t, buf[:n])
}

// MustDispatch fires a.HandleEvent then drains the scheduler, returning the
// resulting patch trace. Fails the test if the handler didn't fire.
//
// Example:
//
//	trace := coretest.MustDispatch(t, a, incrementID, handler.EventClick)
func MustDispatch(t *testing.T, a *app.App, handlerID uint32, eventType handler.EventType) *Trace {
	t.Helper()
	fired := a.HandleEvent(handlerID, eventType)
	require.True(t, fired, "handler %d did not fire for event %v", handlerID, eventType)
	return MustFlush(t, a)
}

// MustDispatchString is MustDispatch plus a string payload, for
// SIGNAL_SET_STRING and KEY_ENTER_CUSTOM handlers.
func MustDispatchString(t *testing.T, a *app.App, handlerID uint32, eventType handler.EventType, value string) *Trace {
	t.Helper()
	fired := a.DispatchString(handlerID, eventType, value)
	require.True(t, fired, "handler %d did not fire for event %v with value %q", handlerID, eventType, value)
	return MustFlush(t, a)
}
