// Package telemetry provides optional Prometheus metrics and OpenTelemetry
// tracing for the runtime's render/dispatch lifecycle, modeled on the
// teacher's middleware.Prometheus/middleware.OpenTelemetry pair but
// retargeted from an HTTP event-handler chain to the app shell's
// init/rebuild/flush/dispatch operations.
//
// Both collectors are nil-safe: a *Metrics or Tracer left unset by the
// host simply does nothing, so instrumentation never becomes a hard
// dependency for embedding the runtime.
package telemetry
