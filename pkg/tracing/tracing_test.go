package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	t.Cleanup(func() { SetTracer(nil) })

	t.Run("without a tracer spans are no-ops", func(t *testing.T) {
		SetTracer(nil)
		ctx, span := StartSpan(context.Background(), "matching.Engine.Rank")
		defer span.End()

		assert.Empty(t, GetTraceID(ctx))
		assert.Empty(t, GetSpanID(ctx))
	})

	t.Run("with a tracer the span is recorded", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		SetTracer(provider.Tracer("test"))

		ctx, span := StartSpan(context.Background(), "matching.Engine.Rank")
		assert.Len(t, GetTraceID(ctx), 32)
		assert.Len(t, GetSpanID(ctx), 16)
		span.End()

		ended := recorder.Ended()
		if assert.Len(t, ended, 1) {
			assert.Equal(t, "matching.Engine.Rank", ended[0].Name())
		}
	})
}
