package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the tracer name used when the host doesn't override
// it via WithTracerName.
const defaultTracerName = "corewasm"

// TracerConfig configures Tracer.
type TracerConfig struct {
	// TracerName names the OpenTelemetry tracer (default: "corewasm").
	TracerName string
}

// TracerOption configures a TracerConfig.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) { c.TracerName = name }
}

// Tracer wraps an OpenTelemetry tracer around the app shell's lifecycle
// ops. A nil *Tracer is valid: StartFrame returns the context unchanged
// and an empty span handle whose End does nothing.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer resolves a tracer from the global OpenTelemetry provider,
// configured by opts. Configure the provider itself (via
// otel.SetTracerProvider) in the host's main before frames start flowing.
//
// Example:
//
//	tr := telemetry.NewTracer(telemetry.WithTracerName("myapp"))
func NewTracer(opts ...TracerOption) *Tracer {
	cfg := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tracer{tracer: otel.Tracer(cfg.TracerName)}
}

// frameSpan is the handle StartFrame returns; End reports the frame's
// outcome and closes the span.
type frameSpan struct {
	span trace.Span
}

// StartFrame opens a span named "corewasm.<op>" for one init/rebuild/flush
// call. Safe to call on a nil *Tracer — returns a span handle whose End is
// a no-op.
func (t *Tracer) StartFrame(ctx context.Context, op string) (context.Context, *frameSpan) {
	if t == nil {
		return ctx, &frameSpan{}
	}
	spanCtx, span := t.tracer.Start(ctx, "corewasm."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("corewasm.op", op)),
	)
	return spanCtx, &frameSpan{span: span}
}

// StartWriteSignal opens a span named "reactive.write_signal" covering one
// WriteSignal fan-out, tagged with the number of reactive contexts the
// write notified. Safe to call on a nil *Tracer — returns a no-op end
// func. Callers defer the returned func to close the span.
func (t *Tracer) StartWriteSignal(ctx context.Context, subscriberCount int) func() {
	if t == nil {
		return func() {}
	}
	_, span := t.tracer.Start(ctx, "reactive.write_signal",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("subscriber_count", subscriberCount)),
	)
	return span.End
}

// End closes the span, recording bytesWritten and err (if any).
func (s *frameSpan) End(bytesWritten int, err error) {
	if s == nil || s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.Int("corewasm.patch_bytes", bytesWritten))
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
