package tracing

// Package tracing is a small OpenTelemetry facade for the server. The
// processor opens one span per inbound message and child spans nest under
// it through the context. Until Init installs a provider every span is a
// no-op.

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// scopeName identifies this module as the instrumentation scope.
const scopeName = "github.com/viant/meshgopher"

var (
	setupOnce sync.Once
	setupErr  error
)

// Init installs a tracer provider exporting human-readable spans to
// outputFile, or to os.Stdout when outputFile is empty. Only the first
// successful call has an effect; later calls return the first outcome.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w = f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	return InitWithExporter(serviceName, serviceVersion, exporter)
}

// InitWithExporter installs a tracer provider around any SpanExporter the
// OpenTelemetry SDK supports (e.g. OTLP, Jaeger, Zipkin). Spans export
// synchronously as they end. Only the first successful call has effect;
// a nil exporter leaves tracing disabled.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	setupOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("service.version", serviceVersion),
			),
		)
		if err != nil {
			setupErr = err
			return
		}
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		))
	})
	return setupErr
}

// spanKinds maps the role names used at call sites onto OpenTelemetry span
// kinds; anything unrecognised counts as internal.
var spanKinds = map[string]trace.SpanKind{
	"SERVER":   trace.SpanKindServer,
	"CLIENT":   trace.SpanKindClient,
	"PRODUCER": trace.SpanKindProducer,
	"CONSUMER": trace.SpanKindConsumer,
}

// Span shields callers from importing the OpenTelemetry API directly.
type Span struct {
	inner trace.Span
}

// StartSpan opens a named child span of whatever span ctx already carries.
func StartSpan(ctx context.Context, name, kind string) (context.Context, *Span) {
	spanKind, ok := spanKinds[kind]
	if !ok {
		spanKind = trace.SpanKindInternal
	}
	parent := trace.SpanFromContext(ctx).SpanContext()
	ctx, span := otel.Tracer(scopeName).Start(ctx, name, trace.WithSpanKind(spanKind))
	// Record the parent identifiers so a span read in isolation still
	// shows its lineage.
	if parent.IsValid() {
		span.SetAttributes(
			attribute.String("parent.trace_id", parent.TraceID().String()),
			attribute.String("parent.span_id", parent.SpanID().String()),
		)
	}
	return ctx, &Span{inner: span}
}

// WithAttributes tags the span with string attributes; nil-safe.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String(k, v))
	}
	s.inner.SetAttributes(kvs...)
	return s
}

// EndSpan closes the span, recording err (when non-nil) as the span error
// status. Nil spans are tolerated so callers need no guards.
func EndSpan(s *Span, err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.inner.RecordError(err)
		s.inner.SetStatus(codes.Error, err.Error())
	} else {
		s.inner.SetStatus(codes.Ok, "")
	}
	s.inner.End()
}
