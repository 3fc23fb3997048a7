// Package observe wires OpenTelemetry metrics for the digest pipeline and
// exposes them to Prometheus.
//
// Tests should build [Metrics] with [NewMetrics] over their own
// [metric.MeterProvider] rather than the global one.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/nguyentantai21042004/video-digest"

// Stage names used as the "stage" attribute.
const (
	StageDownload   = "download"
	StageWait       = "wait"
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StagePersist    = "persist"
)

// Run outcomes used as the "status" attribute.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the pipeline's instruments. Safe for concurrent use.
type Metrics struct {
	// StageDuration tracks wall time per pipeline stage. Attribute: stage.
	StageDuration metric.Float64Histogram

	// Runs counts finished runs. Attribute: status.
	Runs metric.Int64Counter

	// Chunks counts transcript chunks sent to the summarizer.
	Chunks metric.Int64Counter

	// ChunkFailures counts chunks whose summary was dropped.
	ChunkFailures metric.Int64Counter
}

// stageBuckets spans quick local steps up to long downloads and transcriptions.
var stageBuckets = []float64{
	0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("digest.stage.duration",
		metric.WithDescription("Duration of a pipeline stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Runs, err = m.Int64Counter("digest.runs",
		metric.WithDescription("Pipeline runs by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Chunks, err = m.Int64Counter("digest.chunks",
		metric.WithDescription("Transcript chunks submitted for summarization."),
	); err != nil {
		return nil, err
	}
	if met.ChunkFailures, err = m.Int64Counter("digest.chunk.failures",
		metric.WithDescription("Chunks whose summarization failed and were skipped."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// Noop returns Metrics that record nothing.
func Noop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordStage records how long stage took since start.
func (m *Metrics) RecordStage(ctx context.Context, stage string, start time.Time) {
	m.StageDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)),
	)
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(ctx context.Context, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordChunks counts submitted chunks and the ones that produced no summary.
func (m *Metrics) RecordChunks(ctx context.Context, total, failed int) {
	m.Chunks.Add(ctx, int64(total))
	if failed > 0 {
		m.ChunkFailures.Add(ctx, int64(failed))
	}
}
