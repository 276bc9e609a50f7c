package telemetry

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
	Environment      string
	OTLPEndpoint     string
	TracesSampler    string
	SamplerRatio     float64
	MetricsInterval  time.Duration
	Disabled         bool
}

// LoadConfig loads OpenTelemetry configuration from environment variables
func LoadConfig() Config {
	metricsInterval := 30 * time.Second
	if raw := os.Getenv("OTEL_METRICS_EXPORT_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			metricsInterval = d
		} else {
			log.Printf("[WARN] Ignoring invalid OTEL_METRICS_EXPORT_INTERVAL %q", raw)
		}
	}

	samplerRatio := 0.1
	if raw := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil {
			samplerRatio = r
		}
	}

	return Config{
		ServiceName:      envOr("OTEL_SERVICE_NAME", "medgpt-portal"),
		ServiceNamespace: envOr("OTEL_SERVICE_NAMESPACE", "medgpt"),
		ServiceVersion:   envOr("OTEL_SERVICE_VERSION", "1.0.0"),
		Environment:      envOr("ENVIRONMENT", "development"),
		OTLPEndpoint:     envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracesSampler:    envOr("OTEL_TRACES_SAMPLER", "always_on"),
		SamplerRatio:     samplerRatio,
		MetricsInterval:  metricsInterval,
		Disabled:         os.Getenv("OTEL_SDK_DISABLED") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// samplerFor maps the OTEL_TRACES_SAMPLER names to SDK samplers
func samplerFor(name string, ratio float64) trace.Sampler {
	switch name {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(ratio)
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	}
	return trace.AlwaysSample()
}

// Provider owns the SDK providers installed as OpenTelemetry globals. Either
// provider may be nil when its exporter could not be created.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	config         Config
}

// exportTimeout bounds exporter creation and every export call
const exportTimeout = 5 * time.Second

// InitProvider installs tracing and metrics export for the portal. A missing
// collector degrades to local-only telemetry instead of failing startup.
func InitProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Disabled {
		log.Println("OpenTelemetry disabled; traces and metrics stay local")
		return &Provider{config: cfg}, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceNamespace(cfg.ServiceNamespace),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	log.Printf("Exporting telemetry to %s", cfg.OTLPEndpoint)
	p := &Provider{config: cfg}

	if tp, err := newTracerProvider(ctx, cfg, res); err != nil {
		log.Printf("[WARN] Tracing disabled, exporter unavailable: %v", err)
	} else {
		p.TracerProvider = tp
		otel.SetTracerProvider(tp)
		log.Println("✓ Tracer provider ready")
	}

	if mp, err := newMeterProvider(ctx, cfg, res); err != nil {
		log.Printf("[WARN] Metrics export disabled, exporter unavailable: %v", err)
	} else {
		p.MeterProvider = mp
		otel.SetMeterProvider(mp)
		log.Println("✓ Meter provider ready")
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

func insecureDial() grpc.DialOption {
	return grpc.WithTransportCredentials(insecure.NewCredentials())
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithDialOption(insecureDial()),
		otlptracegrpc.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(samplerFor(cfg.TracesSampler, cfg.SamplerRatio)),
		trace.WithBatcher(exporter, trace.WithBatchTimeout(exportTimeout)),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithDialOption(insecureDial()),
		otlpmetricgrpc.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp metric exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(cfg.MetricsInterval))),
	), nil
}

// Shutdown flushes and stops both providers, returning the first error
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if len(errs) > 0 {
		log.Printf("[ERROR] Telemetry shutdown: %v", errs)
		return errs[0]
	}
	log.Println("✓ Telemetry flushed")
	return nil
}
