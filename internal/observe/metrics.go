// Package observe wires OpenTelemetry metrics and tracing for the assistant
// and provides the HTTP middleware that ties them to request logs.
//
// Metrics are exported through a Prometheus bridge (see InitProvider) and
// scraped at /metrics. Tests should build their own Metrics with NewMetrics
// and a ManualReader-backed provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "saathi"

// Metrics holds every instrument the assistant records.
type Metrics struct {
	STTDuration metric.Float64Histogram
	LLMDuration metric.Float64Histogram
	TTSDuration metric.Float64Histogram

	// TurnDuration covers one full utterance: transcription, reply and
	// synthesis.
	TurnDuration metric.Float64Histogram

	// ProviderErrors counts failed provider calls by pipeline stage and kind.
	ProviderErrors metric.Int64Counter

	// Expressions counts classified frames by label and source
	// ("upload", "stream" or "camera").
	Expressions metric.Int64Counter

	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.STTDuration, err = m.Float64Histogram("saathi.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMDuration, err = m.Float64Histogram("saathi.llm.duration",
		metric.WithDescription("Latency of reply generation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TTSDuration, err = m.Float64Histogram("saathi.tts.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TurnDuration, err = m.Float64Histogram("saathi.turn.duration",
		metric.WithDescription("End-to-end latency of one conversational turn."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.ProviderErrors, err = m.Int64Counter("saathi.provider.errors",
		metric.WithDescription("Total provider errors by stage and kind."),
	); err != nil {
		return nil, err
	}
	if met.Expressions, err = m.Int64Counter("saathi.expressions",
		metric.WithDescription("Classified frames by expression label and source."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("saathi.http.request.duration",
		metric.WithDescription("HTTP request processing time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns a Metrics bound to the global meter provider.
// Call InitProvider first or the instruments record into a no-op provider.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func (m *Metrics) RecordProviderError(ctx context.Context, stage, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("kind", kind),
		),
	)
}

func (m *Metrics) RecordExpression(ctx context.Context, label, source string) {
	m.Expressions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("label", label),
			attribute.String("source", source),
		),
	)
}
