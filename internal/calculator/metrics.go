package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	calcCounter   metric.Int64Counter
	stepCounter   metric.Int64Counter
	carryCounter  metric.Int64Counter
	errorCounter  metric.Int64Counter
	opsHistogram  metric.Float64Histogram
	operandsGauge metric.Int64Gauge
	sessionsGauge metric.Int64Gauge
)

// InitMetrics registers the OTel instruments of the column-addition service.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	calcCounter, err = meter.Int64Counter("calculator.calculations.total",
		metric.WithDescription("Total number of column additions started"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculations counter: %w", err)
	}

	stepCounter, err = meter.Int64Counter("calculator.steps.total",
		metric.WithDescription("Total number of column steps produced"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return fmt.Errorf("creating steps counter: %w", err)
	}

	carryCounter, err = meter.Int64Counter("calculator.carries.total",
		metric.WithDescription("Total number of columns that carried into the next column"),
		metric.WithUnit("{carry}"),
	)
	if err != nil {
		return fmt.Errorf("creating carries counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	operandsGauge, err = meter.Int64Gauge("calculator.last_operand_count",
		metric.WithDescription("Number of operands in the last calculation"),
		metric.WithUnit("{operand}"),
	)
	if err != nil {
		return fmt.Errorf("creating operands gauge: %w", err)
	}

	sessionsGauge, err = meter.Int64Gauge("calculator.sessions",
		metric.WithDescription("Number of live tutoring sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("creating sessions gauge: %w", err)
	}

	return nil
}
