package otel

import (
	"context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ClientOptions - every span here wraps outbound resolution work, never a served request
var ClientOptions = trace.WithSpanKind(trace.SpanKindClient)

const InstrumentationName = "github.com/GlintPay/gkcc"

func GetTracer(ctx context.Context) trace.Tracer {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return newTracer(span.TracerProvider())
	}
	return newTracer(otel.GetTracerProvider())
}

func newTracer(tp trace.TracerProvider) trace.Tracer {
	return tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion("semver:1.0"))
}
