package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "pinsvc"

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	Enabled           bool
	ChainID           string
	Version           string
	OTLPEndpoint      string
	PrometheusEnabled bool
	SampleRate        float64
}

// Telemetry manages OpenTelemetry tracing and metrics
type Telemetry struct {
	tracer       *tracesdk.TracerProvider
	meter        metric.Meter
	config       TelemetryConfig
	shutdownFunc func(context.Context) error
}

// InitTelemetry installs global OpenTelemetry providers. A disabled config
// leaves the no-op globals in place.
func InitTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{config: cfg}, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.Version),
			attribute.String("chain.id", cfg.ChainID),
		),
	)
	if err != nil {
		return nil, err
	}

	tel := &Telemetry{config: cfg}
	if cfg.OTLPEndpoint != "" {
		if err := tel.initTracing(res); err != nil {
			return nil, err
		}
	}
	if err := tel.initMetrics(res); err != nil {
		return nil, err
	}
	return tel, nil
}

// initTracing sets up OTLP/HTTP tracing
func (t *Telemetry) initTracing(res *resource.Resource) error {
	if _, err := url.Parse(t.config.OTLPEndpoint); err != nil {
		return err
	}

	endpoint := strings.TrimPrefix(t.config.OTLPEndpoint, "http://")
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(
			tracesdk.TraceIDRatioBased(t.config.SampleRate),
		)),
	)

	otel.SetTracerProvider(tp)
	t.tracer = tp
	t.shutdownFunc = tp.Shutdown
	return nil
}

// initMetrics exposes OpenTelemetry instruments through the Prometheus registry
func (t *Telemetry) initMetrics(res *resource.Resource) error {
	if !t.config.PrometheusEnabled {
		return nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return err
	}

	provider := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)
	t.meter = provider.Meter(serviceName)
	return nil
}

// Shutdown flushes and stops the trace provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.shutdownFunc != nil {
		return t.shutdownFunc(ctx)
	}
	return nil
}

// TelemetryMiddleware records OpenTelemetry metrics and spans for delivered operations.
type TelemetryMiddleware struct {
	opCounter   metric.Int64Counter
	opDuration  metric.Float64Histogram
	blockHeight metric.Int64Gauge
}

// NewTelemetryMiddleware creates the instruments on meter
func NewTelemetryMiddleware(meter metric.Meter) (*TelemetryMiddleware, error) {
	opCounter, err := meter.Int64Counter(
		"pinsvc.operation.total",
		metric.WithDescription("Total number of delivered operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	opDuration, err := meter.Float64Histogram(
		"pinsvc.operation.processing_time",
		metric.WithDescription("Operation processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	blockHeight, err := meter.Int64Gauge(
		"pinsvc.block.height",
		metric.WithDescription("Last committed block height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	return &TelemetryMiddleware{
		opCounter:   opCounter,
		opDuration:  opDuration,
		blockHeight: blockHeight,
	}, nil
}

// RecordOperation records the outcome and latency of one operation
func (tm *TelemetryMiddleware) RecordOperation(ctx context.Context, op string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("status", status),
	)
	tm.opCounter.Add(ctx, 1, attrs)
	tm.opDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordBlockHeight records the last committed height
func (tm *TelemetryMiddleware) RecordBlockHeight(ctx context.Context, height int64) {
	tm.blockHeight.Record(ctx, height)
}

// TraceOperation starts a span for one delivered operation
func TraceOperation(ctx context.Context, op string, height int64) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(serviceName).Start(ctx, "pinservice."+op)
	span.SetAttributes(
		attribute.String("operation", op),
		attribute.Int64("block.height", height),
	)
	return ctx, span
}

// endSpan marks span failed when err is set and ends it
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
