package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the scope gateway spans are reported under when no
// tracer is injected.
const InstrumentationName = "paaa/gateway"

// OTelTracer reports gateway spans through OpenTelemetry. Exporters are
// configured on the global provider.
type OTelTracer struct {
	tracer trace.Tracer
}

type OTelOption func(*OTelTracer)

// WithOTelTracer replaces the global-provider tracer, mainly for tests.
func WithOTelTracer(t trace.Tracer) OTelOption {
	return func(o *OTelTracer) {
		o.tracer = t
	}
}

func NewOTel(opts ...OTelOption) *OTelTracer {
	t := &OTelTracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(InstrumentationName)
	}
	return t
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(otelAttributes(attrs)...))
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

// End marks the span failed when err is set.
func (s otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(otelAttributes(attrs)...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(otelAttributes(attrs)...))
}

// otelAttributes converts gateway attributes; values of other types are skipped.
func otelAttributes(attrs []Attribute) []attribute.KeyValue {
	var out []attribute.KeyValue
	for _, a := range attrs {
		if kv, ok := otelAttribute(a); ok {
			out = append(out, kv)
		}
	}
	return out
}

func otelAttribute(a Attribute) (attribute.KeyValue, bool) {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v), true
	case bool:
		return attribute.Bool(a.Key, v), true
	case int:
		return attribute.Int(a.Key, v), true
	case int64:
		return attribute.Int64(a.Key, v), true
	case float64:
		return attribute.Float64(a.Key, v), true
	default:
		return attribute.KeyValue{}, false
	}
}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Span   = otelSpan{}
)
