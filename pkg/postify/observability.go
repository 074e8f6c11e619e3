package postify

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/madhvi-n/postify"
	meterName  = "github.com/madhvi-n/postify"
)

// Metrics holds the OpenTelemetry instruments recorded per service operation
type Metrics struct {
	Operations metric.Int64Counter
	Errors     metric.Int64Counter
	Duration   metric.Float64Histogram
}

func initMetrics(meter metric.Meter) (*Metrics, error) {
	operations, err := meter.Int64Counter("postify.operations",
		metric.WithDescription("Total number of service operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("postify.operation.errors",
		metric.WithDescription("Total number of failed service operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("postify.operation.duration",
		metric.WithDescription("Service operation duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Operations: operations,
		Errors:     errs,
		Duration:   duration,
	}, nil
}

// WithTracer sets the OpenTelemetry tracer for the service
func WithTracer(tracer trace.Tracer) Option {
	return func(s *service) {
		s.tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer
func WithDefaultTracer() Option {
	return func(s *service) {
		s.tracer = otel.Tracer(tracerName)
	}
}

// WithMeter sets the OpenTelemetry meter for the service. New fails if the
// meter cannot create the service's instruments.
func WithMeter(meter metric.Meter) Option {
	return func(s *service) {
		s.meter = meter
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter
func WithDefaultMeter() Option {
	return func(s *service) {
		s.meter = otel.Meter(meterName)
	}
}

// observe opens a span for op and returns the callback that closes it and
// records metrics. Both are no-ops when tracing or metrics are disabled.
func (s *service) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "postify."+op)
	}

	return ctx, func(err error) {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}
		if s.metrics == nil {
			return
		}
		attrs := metric.WithAttributes(attribute.String("operation", op))
		s.metrics.Operations.Add(ctx, 1, attrs)
		s.metrics.Duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
		if err != nil {
			s.metrics.Errors.Add(ctx, 1, attrs)
		}
	}
}
