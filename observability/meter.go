package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/reducekit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(cfg)),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		logger.FieldService, cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the reduction instruments.
type Metrics struct {
	steps    metric.Int64Counter
	stops    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	steps, err := meter.Int64Counter("reduction.steps",
		metric.WithDescription("Elements stepped through a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reduction.steps counter: %w", err)
	}

	stops, err := meter.Int64Counter("reduction.stops",
		metric.WithDescription("Reductions terminated early by a Stop signal"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reduction.stops counter: %w", err)
	}

	errs, err := meter.Int64Counter("reduction.errors",
		metric.WithDescription("Reductions abandoned because of a step or finish error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reduction.errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram("reduction.duration",
		metric.WithDescription("Duration of reductions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reduction.duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter("reduction.active",
		metric.WithDescription("Number of reductions in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reduction.active gauge: %w", err)
	}

	return &Metrics{
		steps:    steps,
		stops:    stops,
		errors:   errs,
		duration: duration,
		active:   active,
	}, nil
}

func stageAttr(stage string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("stage", stage))
}

// RecordStart increments the active reduction count.
func (m *Metrics) RecordStart(ctx context.Context, stage string) {
	m.active.Add(ctx, 1, stageAttr(stage))
}

// RecordStep counts one element passing through stage.
func (m *Metrics) RecordStep(ctx context.Context, stage string) {
	m.steps.Add(ctx, 1, stageAttr(stage))
}

// RecordStop counts an early termination observed at stage.
func (m *Metrics) RecordStop(ctx context.Context, stage string) {
	m.stops.Add(ctx, 1, stageAttr(stage))
}

// RecordError counts a failed reduction by stage and error code.
func (m *Metrics) RecordError(ctx context.Context, stage, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("code", code),
	))
}

// RecordEnd decrements active reductions and records the reduction duration.
func (m *Metrics) RecordEnd(ctx context.Context, stage, status string, duration time.Duration) {
	m.active.Add(ctx, -1, stageAttr(stage))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}
