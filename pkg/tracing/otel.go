// Package tracing sets up OpenTelemetry spans around the generation paths:
// one span per request, child spans for the cascade, the LLM fallback and
// the sampler.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config holds tracing configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	JaegerEndpoint string
	Environment    string
}

// Tracer wraps the OpenTelemetry tracer with domain-shaped span helpers.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// NewTracer installs a Jaeger-exporting tracer provider globally and returns
// the wrapper.
func NewTracer(config Config) (*Tracer, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(config.JaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{
		tracer:   otel.Tracer(config.ServiceName),
		provider: tp,
	}, nil
}

// NewNopTracer returns a tracer that records nothing. Used when no Jaeger
// endpoint is configured.
func NewNopTracer() *Tracer {
	return &Tracer{tracer: trace.NewNoopTracerProvider().Tracer("nlcmd")}
}

// StartSpan starts a plain span.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// StartDetectionSpan wraps one cascade pass.
func (t *Tracer) StartDetectionSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "nlcmd.detect")
}

// StartGenerateSpan wraps one hybrid generation call.
func (t *Tracer) StartGenerateSpan(ctx context.Context, forceLLM bool) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "nlcmd.generate", trace.WithAttributes(
		attribute.Bool("generate.force_llm", forceLLM),
	))
}

// StartLLMSpan wraps one outbound LLM call.
func (t *Tracer) StartLLMSpan(ctx context.Context, model string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "nlcmd.llm_fallback", trace.WithAttributes(
		attribute.String("llm.model", model),
	))
}

// StartSamplerSpan wraps one Langevin run.
func (t *Tracer) StartSamplerSpan(ctx context.Context, problemType string, chains int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "nlcmd.sampler", trace.WithAttributes(
		attribute.String("sampler.problem_type", problemType),
		attribute.Int("sampler.chains", chains),
	))
}

// RecordDetection annotates a span with the cascade outcome.
func RecordDetection(span trace.Span, stage, domain, intent string, confidence float64) {
	span.SetAttributes(
		attribute.String("detect.stage", stage),
		attribute.String("detect.domain", domain),
		attribute.String("detect.intent", intent),
		attribute.Float64("detect.confidence", confidence),
	)
}

// RecordSamplerOutcome annotates a span with the winning chain.
func RecordSamplerOutcome(span trace.Span, bestEnergy float64, converged bool, steps int) {
	span.SetAttributes(
		attribute.Float64("sampler.best_energy", bestEnergy),
		attribute.Bool("sampler.converged", converged),
		attribute.Int("sampler.total_steps", steps),
	)
}

// RecordError marks a span failed.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks a span successful.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// TraceID extracts the trace ID from a context, empty when unset.
func TraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
