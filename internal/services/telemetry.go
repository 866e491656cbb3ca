package services

import (
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/burevuh-next/logistics-analyzer/internal/infrastructure"
)

// Telemetry bundles the tracer and metric instruments a service reports to
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *infrastructure.BusinessMetrics
}

// NoopTelemetry returns telemetry that records nothing
func NoopTelemetry() Telemetry {
	return Telemetry{
		Tracer:  tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName),
		Metrics: infrastructure.NoopBusinessMetrics(),
	}
}

// NewTelemetry builds Telemetry from initialized providers
func NewTelemetry(providers *infrastructure.OTelProviders) (Telemetry, error) {
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return Telemetry{}, err
	}
	return Telemetry{Tracer: providers.Tracer, Metrics: metrics}, nil
}

func (t Telemetry) orNoop() Telemetry {
	noop := NoopTelemetry()
	if t.Tracer == nil {
		t.Tracer = noop.Tracer
	}
	if t.Metrics == nil {
		t.Metrics = noop.Metrics
	}
	return t
}
