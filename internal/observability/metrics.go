// Package observability exposes ingest metrics for long remint runs: OTel
// instruments collected through a Prometheus scrape endpoint.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricLinesTotal   = "remint.lines.total"
	metricRowsTotal    = "remint.rows.total"
	metricDroppedTotal = "remint.rows.dropped.total"
	metricRunDuration  = "remint.run.duration.seconds"

	attrCategory = "category"
	attrFile     = "file"
	attrStatus   = "status"
)

// durationBucketBoundaries covers 10ms to 600s: small single-sample dumps up
// to multi-hour monitoring archives.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// IngestMetrics holds the OTel instruments for one ingest pipeline.
type IngestMetrics struct {
	linesTotal   metric.Int64Counter
	rowsTotal    metric.Int64Counter
	droppedTotal metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// NewIngestMetrics creates the ingest instruments from the given meter.
func NewIngestMetrics(mt metric.Meter) (*IngestMetrics, error) {
	b := newMetricBuilder(mt)

	im := &IngestMetrics{
		linesTotal:   b.counter(metricLinesTotal, "Total input lines consumed", "{line}"),
		rowsTotal:    b.counter(metricRowsTotal, "Total rows emitted to the sink", "{row}"),
		droppedTotal: b.counter(metricDroppedTotal, "Rows dropped by category or time filtering", "{row}"),
		runDuration:  b.histogram(metricRunDuration, "Duration of one ingest run in seconds", "s", durationBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return im, nil
}

// AddLines records consumed input lines for one file.
func (im *IngestMetrics) AddLines(ctx context.Context, file string, n int64) {
	im.linesTotal.Add(ctx, n, metric.WithAttributes(attribute.String(attrFile, file)))
}

// AddRow records one row emitted for a category.
func (im *IngestMetrics) AddRow(ctx context.Context, category string) {
	im.rowsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCategory, category)))
}

// AddDropped records rows discarded before emission.
func (im *IngestMetrics) AddDropped(ctx context.Context, n int64) {
	im.droppedTotal.Add(ctx, n)
}

// RecordRun records a completed run with its status and duration.
func (im *IngestMetrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	im.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}
