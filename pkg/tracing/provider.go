package tracing

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Oikion/mvp-sub017/pkg/tracing/exporters"
)

// Config selects the span exporter. An empty Endpoint logs spans instead of exporting them.
type Config struct {
	ServiceName string
	Endpoint    string
	Protocol    string
	Insecure    bool
	SampleRatio float64
}

// Setup installs a tracer provider and the W3C propagators, and sets the package tracer.
// The returned function flushes and stops the provider.
func Setup(ctx context.Context, cfg Config, logger ectologger.Logger) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	if cfg.Endpoint != "" {
		otlpCfg := exporters.DefaultOTLPConfig()
		otlpCfg.Endpoint = cfg.Endpoint
		otlpCfg.Insecure = cfg.Insecure
		if cfg.Protocol != "" {
			otlpCfg.Protocol = cfg.Protocol
		}

		otlp, err := exporters.NewOTLPExporter(ctx, otlpCfg)
		if err != nil {
			return nil, eris.Wrap(err, "tracing: create otlp exporter")
		}
		exporter = otlp
	} else {
		exporter = exporters.NewLogExporter(logger)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	SetTracer(provider.Tracer(cfg.ServiceName))

	logger.WithFields(map[string]any{
		"endpoint": cfg.Endpoint,
		"protocol": cfg.Protocol,
	}).Info("Tracing configured")

	return provider.Shutdown, nil
}
