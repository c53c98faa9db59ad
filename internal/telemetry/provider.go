// Package telemetry provides OpenTelemetry initialization for wrapping a
// throttle benchmark run in spans.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Options configures a Provider. Unlike the teacher's config-driven
// TracingConfig, this is sourced directly from benchconfig.Config's single
// Tracing flag plus the standard OTEL_EXPORTER_OTLP_* environment
// variables, since a throttle benchmark has no per-endpoint tracing
// settings to carry.
type Options struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	Protocol    string // "grpc" (default) or "http"
	Insecure    bool
	SampleRate  float64 // fraction of traces sampled, up to 1; 0 selects the default of 1
}

// Provider wraps an OTel TracerProvider. The zero Provider is a valid no-op.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// Init creates a Provider from opt. It returns a no-op Provider when
// tracing is disabled or no OTLP endpoint can be resolved.
func Init(ctx context.Context, opt Options) (*Provider, error) {
	if !opt.Enabled {
		return &Provider{}, nil
	}

	serviceName := opt.ServiceName
	if serviceName == "" {
		if envName := os.Getenv("OTEL_SERVICE_NAME"); envName != "" {
			serviceName = envName
		} else {
			serviceName = "throttlebench"
		}
	}

	endpoint := opt.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return &Provider{}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	exporter, err := newExporter(ctx, opt, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry exporter: %w", err)
	}

	rate := opt.SampleRate
	if rate == 0 {
		rate = 1
	}
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("telemetry sample rate must be between 0.0 and 1.0, got %g", rate)
	}

	sampler := sdktrace.AlwaysSample()
	if rate < 1.0 {
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		tp:     tp,
		tracer: tp.Tracer("throttlebench"),
	}, nil
}

// Tracer returns the configured tracer, or a no-op tracer if p is nil or
// tracing was never enabled.
func (p *Provider) Tracer() trace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer("throttlebench")
	}
	return p.tracer
}

// Shutdown flushes pending spans and shuts down the underlying provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

func newExporter(ctx context.Context, opt Options, endpoint string) (sdktrace.SpanExporter, error) {
	protocol := strings.ToLower(opt.Protocol)
	if protocol == "" {
		protocol = "grpc"
	}

	switch protocol {
	case "grpc":
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(endpoint),
		}
		if opt.Insecure {
			opts = append(opts, otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)

	case "http":
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(endpoint),
		}
		if opt.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q: use \"grpc\" or \"http\"", protocol)
	}
}
