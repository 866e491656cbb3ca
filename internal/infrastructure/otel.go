package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/burevuh-next/logistics-analyzer/internal/config"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts"
)

const (
	ServiceName = "logistics-analyzer"
	MeterName   = "github.com/burevuh-next/logistics-analyzer"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// OTelConfigFromTelemetry maps the application telemetry settings
func OTelConfigFromTelemetry(cfg config.TelemetryConfig) *OTelConfig {
	otelCfg := DefaultOTelConfig()
	if cfg.Environment != "" {
		otelCfg.Environment = cfg.Environment
	}
	if cfg.TraceExporter != "" {
		otelCfg.TraceExporter = cfg.TraceExporter
	}
	if cfg.MetricExporter != "" {
		otelCfg.MetricExporter = cfg.MetricExporter
	}
	return otelCfg
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    "development",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes tracing and metrics providers. With both
// exporters set to "none" the returned Tracer and Meter are no-ops.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{
		Tracer: otel.Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	providers.Logger.DebugContext(ctx, "tracing initialized", slog.String("exporter", cfg.TraceExporter))
	return nil
}

func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		providers.PrometheusHTTP = promhttp.Handler()

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetMeterProvider(mp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.DebugContext(ctx, "metrics initialized", slog.String("exporter", cfg.MetricExporter))
	return nil
}

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Generation metrics
	ShipmentsGenerated metric.Int64Counter
	GenerationDuration metric.Float64Histogram

	// Analysis metrics
	RecordsLoaded    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	UndefinedRatios  metric.Int64Counter

	Errors metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m    BusinessMetrics
		err  error
		errs []error
	)

	m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	errs = append(errs, err)

	m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.ShipmentsGenerated, err = meter.Int64Counter("shipments_generated_total",
		metric.WithDescription("Total number of synthetic shipment records generated"))
	errs = append(errs, err)

	m.GenerationDuration, err = meter.Float64Histogram("dataset_generation_duration_seconds",
		metric.WithDescription("Dataset generation duration in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.RecordsLoaded, err = meter.Int64Counter("shipment_records_loaded_total",
		metric.WithDescription("Total number of shipment records loaded from tables"))
	errs = append(errs, err)

	m.AnalysisDuration, err = meter.Float64Histogram("analysis_duration_seconds",
		metric.WithDescription("Aggregation engine run duration in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.UndefinedRatios, err = meter.Int64Counter("undefined_ratios_total",
		metric.WithDescription("Per-group ratios left undefined by a zero denominator"))
	errs = append(errs, err)

	m.Errors, err = meter.Int64Counter("errors_total",
		metric.WithDescription("Total number of failed operations"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// NoopBusinessMetrics returns metrics that record nothing
func NoopBusinessMetrics() *BusinessMetrics {
	m, _ := CreateBusinessMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordOperation records the duration and outcome of a generate or analyze run
func RecordOperation(ctx context.Context, hist metric.Float64Histogram, errs metric.Int64Counter, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	hist.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	if err != nil {
		errs.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error.type", fmt.Sprintf("%T", err)),
		))
	}
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
