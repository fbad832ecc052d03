package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestLogSpanProcessorLogsFinishedSpans(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewLogSpanProcessor(logger)))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "parent")
	_, child := tracer.Start(ctx, "store.find", trace.WithAttributes(attribute.Int("tmdb_id", 42)))
	EndSpan(child, errors.New("boom"))
	EndSpan(parent, nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)

	failed := entries[0]
	assert.Equal(t, logrus.WarnLevel, failed.Level)
	assert.Equal(t, "store.find", failed.Data["span"])
	assert.Equal(t, int64(42), failed.Data["tmdb_id"])
	assert.Equal(t, "boom", failed.Data["error"])
	assert.Equal(t, parent.SpanContext().SpanID().String(), failed.Data["parent_span_id"])

	assert.Equal(t, logrus.DebugLevel, entries[1].Level)
	assert.Equal(t, "parent", entries[1].Data["span"])
}

func TestSetupTracingDisabledLogsNothing(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	shutdown := SetupTracing(false, logger)
	t.Cleanup(func() { shutdown(context.Background()) })

	_, span := StartSpan(context.Background(), "unsampled")
	EndSpan(span, nil)

	assert.Empty(t, hook.AllEntries())
}
