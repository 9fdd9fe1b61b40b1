// Package coretest provides testing helpers for the runtime: fluent app
// builders and mutation-trace assertions, modeled on the teacher's vtest
// package but retargeted from rendered-HTML assertions to decoded binary
// mutation traces, since this runtime has no HTML renderer of its own.
//
// # Quick Start
//
//	a := coretest.NewApp(shape, view)
//	trace := coretest.MustInit(t, a)
//	trace.ExpectOp(t, protocol.OpLoadTemplate)
//	trace.ExpectText(t, "0")
//
// # Driving Events
//
//	trace = coretest.MustDispatch(t, a, handlerID, handler.EventClick)
//	trace.ExpectText(t, "1")
package coretest
