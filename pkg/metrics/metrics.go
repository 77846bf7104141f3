// Package metrics records conversion statistics with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for conversions
type Metrics struct {
	// File metrics
	filesTotal   *prometheus.CounterVec
	fileDuration *prometheus.HistogramVec
	bytesTotal   *prometheus.CounterVec

	// Batch metrics
	batchesTotal *prometheus.CounterVec
	workers      prometheus.Gauge
}

// New creates all conversion metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		filesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bncsv_files_total",
				Help: "Total number of file conversions",
			},
			[]string{"direction", "status"},
		),

		fileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bncsv_file_duration_seconds",
				Help:    "File conversion duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"direction"},
		),

		bytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bncsv_bytes_total",
				Help: "Total number of bytes read and written by conversions",
			},
			[]string{"direction", "stream"},
		),

		batchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bncsv_batches_total",
				Help: "Total number of batch runs",
			},
			[]string{"direction", "status"},
		),

		workers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bncsv_workers",
				Help: "Number of workers used by the last batch",
			},
		),
	}
}

// RecordFile records one file conversion. A nil receiver records nothing.
func (m *Metrics) RecordFile(direction string, success bool, in, out int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.filesTotal.WithLabelValues(direction, status(success)).Inc()
	m.fileDuration.WithLabelValues(direction).Observe(duration.Seconds())
	m.bytesTotal.WithLabelValues(direction, "in").Add(float64(in))
	m.bytesTotal.WithLabelValues(direction, "out").Add(float64(out))
}

// RecordBatch records the end of a batch run
func (m *Metrics) RecordBatch(direction string, success bool) {
	if m == nil {
		return
	}
	m.batchesTotal.WithLabelValues(direction, status(success)).Inc()
}

// SetWorkers records the worker count of the current batch
func (m *Metrics) SetWorkers(n int) {
	if m == nil {
		return
	}
	m.workers.Set(float64(n))
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
