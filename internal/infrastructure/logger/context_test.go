package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextRoundTrip(t *testing.T) {
	log := zap.NewExample()

	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestFromContextFallsBackToNop(t *testing.T) {
	// Background goroutines must always get a usable logger
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-5")

	assert.Equal(t, "req-5", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("resolving active card")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-5", logs.All()[0].ContextMap()["request_id"])
}

func TestWithTenantID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	ctx, enriched := WithTenantID(context.Background(), zap.New(core), "tenant-a")

	assert.Equal(t, "tenant-a", GetTenantID(ctx))

	enriched.Info("invalidating tenant cache")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tenant-a", logs.All()[0].ContextMap()["tenant_id"])
}

func TestGetRequestIDMissing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetTenantID(context.Background()))
}

func TestWithTraceContext(t *testing.T) {
	t.Run("no span leaves the logger unchanged", func(t *testing.T) {
		log := zap.NewExample()
		assert.Same(t, log, WithTraceContext(context.Background(), log))
	})

	t.Run("valid span adds trace fields", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
			SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

		enriched := WithTraceContext(ctx, zap.New(core))
		enriched.Info("quote computed")

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, spanCtx.TraceID().String(), fields["trace_id"])
		assert.Equal(t, spanCtx.SpanID().String(), fields["span_id"])
	})
}
