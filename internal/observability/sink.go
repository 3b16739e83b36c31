package observability

import (
	"context"

	"github.com/remint-io/remint/internal/config"
	"github.com/remint-io/remint/internal/sink"
)

// instrumentedSink counts emitted rows on the way into the wrapped sink.
type instrumentedSink struct {
	ctx     context.Context
	inner   sink.Sink
	metrics *IngestMetrics
}

// instrumentedReporter additionally forwards the reporting capability of the
// wrapped sink.
type instrumentedReporter struct {
	instrumentedSink

	reporter sink.Reporter
}

// InstrumentSink wraps inner so every successful PutRow is counted. The
// wrapper mirrors the inner sink's reporting capability: it implements
// [sink.Reporter] exactly when inner does, so capability probes behave the
// same through the wrapper.
func InstrumentSink(ctx context.Context, inner sink.Sink, metrics *IngestMetrics) sink.Sink {
	base := instrumentedSink{ctx: ctx, inner: inner, metrics: metrics}

	if reporter, ok := inner.(sink.Reporter); ok {
		return &instrumentedReporter{instrumentedSink: base, reporter: reporter}
	}

	return &base
}

func (s *instrumentedSink) PutRow(category string, fields []string) error {
	if err := s.inner.PutRow(category, fields); err != nil {
		return err
	}

	s.metrics.AddRow(s.ctx, category)

	return nil
}

func (s *instrumentedSink) Finish() error {
	return s.inner.Finish()
}

func (s *instrumentedReporter) ApplyReport(category string, spec config.PivotSpec) error {
	return s.reporter.ApplyReport(category, spec)
}
