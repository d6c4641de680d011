package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and
// an optional OTLP exporter. It returns a Recorder, the Prometheus HTTP
// handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "league-admin-service"
	}

	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	opts := []sdkmetric.Option{sdkmetric.WithReader(promExp)}

	if cfg.OtlpEndpoint != "" {
		otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OtlpEndpoint)}
		if cfg.OtlpInsecure {
			otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
		}
		otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)),
		))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := newOtelInstruments(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}
	return rec, promHandler, shutdown, nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	storeAttempts    metric.Int64Counter
	storeFailures    metric.Int64Counter
	storeLatencyMs   metric.Float64Histogram
	cacheLookups     metric.Int64Counter
	flushes          metric.Int64Counter
	flushItems       metric.Int64Counter
	reloadCycles     metric.Int64Counter
	reloadErrors     metric.Int64Counter
	reloadLatencyMs  metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("league-admin-service")

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	storeAttempts, err := meter.Int64Counter("store_attempts_total")
	if err != nil {
		return nil, err
	}
	storeFailures, err := meter.Int64Counter("store_failures_total")
	if err != nil {
		return nil, err
	}
	storeLatency, err := meter.Float64Histogram("store_duration_ms")
	if err != nil {
		return nil, err
	}
	cacheLookups, err := meter.Int64Counter("cache_lookups_total")
	if err != nil {
		return nil, err
	}
	flushes, err := meter.Int64Counter("flushes_total")
	if err != nil {
		return nil, err
	}
	flushItems, err := meter.Int64Counter("flush_items_total")
	if err != nil {
		return nil, err
	}
	reloadCycles, err := meter.Int64Counter("reload_cycles_total")
	if err != nil {
		return nil, err
	}
	reloadErrors, err := meter.Int64Counter("reload_errors_total")
	if err != nil {
		return nil, err
	}
	reloadLatency, err := meter.Float64Histogram("reload_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              context.Background(),
		requests:         requests,
		requestLatencyMs: requestLatency,
		storeAttempts:    storeAttempts,
		storeFailures:    storeFailures,
		storeLatencyMs:   storeLatency,
		cacheLookups:     cacheLookups,
		flushes:          flushes,
		flushItems:       flushItems,
		reloadCycles:     reloadCycles,
		reloadErrors:     reloadErrors,
		reloadLatencyMs:  reloadLatency,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordStoreAttempt(op string, success bool, elapsed time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrOp, op)}
	o.recordCounter(o.storeAttempts, 1, attrs...)
	o.recordHistogram(o.storeLatencyMs, float64(elapsed.Milliseconds()), attrs...)
	if !success {
		o.recordCounter(o.storeFailures, 1, attrs...)
	}
}

func (o *otelInstruments) recordCacheLookup(view string, hit bool) {
	if o == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	o.recordCounter(o.cacheLookups, 1,
		attribute.String(AttrView, view),
		attribute.String(AttrResult, result),
	)
}

func (o *otelInstruments) recordFlush(matches, results, failed int) {
	if o == nil {
		return
	}
	o.recordCounter(o.flushes, 1)
	o.recordCounter(o.flushItems, int64(matches), attribute.String("kind", "match"))
	o.recordCounter(o.flushItems, int64(results), attribute.String("kind", "result"))
	o.recordCounter(o.flushItems, int64(failed), attribute.String("kind", "failed"))
}

func (o *otelInstruments) recordReload(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.reloadCycles, 1)
	o.recordHistogram(o.reloadLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.reloadErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
