package account

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}

const meterName = "bankledger/internal/services/account"

// OTelMetricsCollector records ledger metrics through an OpenTelemetry meter.
type OTelMetricsCollector struct {
	duration    metric.Float64Histogram
	results     metric.Int64Counter
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// NewOTelMetricsCollector creates the ledger instruments on provider, or on
// the global provider when provider is nil.
func NewOTelMetricsCollector(provider metric.MeterProvider) (*OTelMetricsCollector, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)

	var (
		c   OTelMetricsCollector
		err error
	)

	c.duration, err = meter.Float64Histogram(
		"ledger.operation.duration",
		metric.WithDescription("Time taken by a ledger operation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ledger.operation.duration histogram: %w", err)
	}

	c.results, err = meter.Int64Counter(
		"ledger.operation.results",
		metric.WithDescription("Ledger operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ledger.operation.results counter: %w", err)
	}

	c.cacheHits, err = meter.Int64Counter(
		"ledger.cache.hits",
		metric.WithDescription("Balance lookups served from the cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ledger.cache.hits counter: %w", err)
	}

	c.cacheMisses, err = meter.Int64Counter(
		"ledger.cache.misses",
		metric.WithDescription("Balance lookups that went to the store"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ledger.cache.misses counter: %w", err)
	}

	return &c, nil
}

func (c *OTelMetricsCollector) RecordOperationDuration(operation string, duration time.Duration) {
	c.duration.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)))
}

func (c *OTelMetricsCollector) RecordOperationResult(operation, result string) {
	c.results.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("operation", operation), attribute.String("result", result)))
}

func (c *OTelMetricsCollector) RecordCacheHit(operation string) {
	c.cacheHits.Add(context.Background(), 1, metric.WithAttributes(attribute.String("operation", operation)))
}

func (c *OTelMetricsCollector) RecordCacheMiss(operation string) {
	c.cacheMisses.Add(context.Background(), 1, metric.WithAttributes(attribute.String("operation", operation)))
}
