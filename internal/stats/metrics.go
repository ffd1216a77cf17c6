package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "ccviewer/stats"

// engineMetrics records scan volume and report latency on the global meter
// provider. Nothing is exported unless the host installs a provider.
type engineMetrics struct {
	filesScanned metric.Int64Counter
	filesFailed  metric.Int64Counter
	reportTime   metric.Float64Histogram
}

func newEngineMetrics() engineMetrics {
	meter := otel.Meter(meterName)
	m := engineMetrics{
		filesScanned: noop.Int64Counter{},
		filesFailed:  noop.Int64Counter{},
		reportTime:   noop.Float64Histogram{},
	}

	if c, err := meter.Int64Counter("ccviewer_files_scanned_total",
		metric.WithDescription("Session files parsed for a report"),
		metric.WithUnit("{file}"),
	); err == nil {
		m.filesScanned = c
	} else {
		log.Warn().Err(err).Msg("create files scanned counter")
	}

	if c, err := meter.Int64Counter("ccviewer_files_failed_total",
		metric.WithDescription("Session files skipped because they failed to parse"),
		metric.WithUnit("{file}"),
	); err == nil {
		m.filesFailed = c
	} else {
		log.Warn().Err(err).Msg("create files failed counter")
	}

	if h, err := meter.Float64Histogram("ccviewer_report_duration_seconds",
		metric.WithDescription("Time to build one statistics report"),
		metric.WithUnit("s"),
	); err == nil {
		m.reportTime = h
	} else {
		log.Warn().Err(err).Msg("create report duration histogram")
	}
	return m
}

func (m engineMetrics) scanned(ctx context.Context) {
	m.filesScanned.Add(ctx, 1)
}

func (m engineMetrics) failed(ctx context.Context) {
	m.filesFailed.Add(ctx, 1)
}

func (m engineMetrics) observe(ctx context.Context, scope string, started time.Time) {
	m.reportTime.Record(ctx, time.Since(started).Seconds(), metric.WithAttributes(attribute.String("scope", scope)))
}
