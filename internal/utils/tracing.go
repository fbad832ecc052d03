package utils

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amaumene/cinesync"

// SetupTracing installs a global tracer provider whose finished spans are
// written to logger. When disabled, spans are never sampled but context
// propagation keeps working.
func SetupTracing(enabled bool, logger *logrus.Logger) func(context.Context) error {
	sampler := sdktrace.NeverSample()
	if enabled {
		sampler = sdktrace.AlwaysSample()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithSpanProcessor(NewLogSpanProcessor(logger)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown
}

// LogSpanProcessor exports every finished span as one logrus entry
type LogSpanProcessor struct {
	logger *logrus.Logger
}

// NewLogSpanProcessor creates a span processor that logs to logger
func NewLogSpanProcessor(logger *logrus.Logger) *LogSpanProcessor {
	return &LogSpanProcessor{logger: logger}
}

func (p *LogSpanProcessor) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {}

// OnEnd logs the span with its attributes, duration and status
func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	fields := logrus.Fields{
		"trace_id":    s.SpanContext().TraceID().String(),
		"span_id":     s.SpanContext().SpanID().String(),
		"span":        s.Name(),
		"duration_ms": s.EndTime().Sub(s.StartTime()).Milliseconds(),
	}
	if parent := s.Parent(); parent.IsValid() {
		fields["parent_span_id"] = parent.SpanID().String()
	}
	for _, kv := range s.Attributes() {
		fields[string(kv.Key)] = kv.Value.AsInterface()
	}

	entry := p.logger.WithFields(fields)
	if s.Status().Code == codes.Error {
		entry.WithField("error", s.Status().Description).Warn("Span failed")
		return
	}
	entry.Debug("Span finished")
}

func (p *LogSpanProcessor) Shutdown(ctx context.Context) error { return nil }

func (p *LogSpanProcessor) ForceFlush(ctx context.Context) error { return nil }

// StartSpan starts a span on the global tracer
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err (if any) and ends the span
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
