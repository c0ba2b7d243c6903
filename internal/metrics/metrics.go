// Package metrics records model fetch totals for a node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/poruru-code/smvllm/internal/domain/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch holds the gauges of one fetch run on a private registry.
type Fetch struct {
	registry *prometheus.Registry

	FilesDownloaded prometheus.Gauge
	FilesSkipped    prometheus.Gauge
	Bytes           prometheus.Gauge
	Duration        prometheus.Gauge
	Success         prometheus.Gauge
	LastRun         prometheus.Gauge
}

// NewFetch registers the fetch gauges labelled with source ("hub" or "s3").
func NewFetch(source string) *Fetch {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"source": source}
	return &Fetch{
		registry: reg,
		FilesDownloaded: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "smvllm_fetch_files_downloaded",
			Help:        "Files copied into the local model directory",
			ConstLabels: labels,
		}),
		FilesSkipped: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "smvllm_fetch_files_skipped",
			Help:        "Files already present with the expected size",
			ConstLabels: labels,
		}),
		Bytes: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "smvllm_fetch_bytes",
			Help:        "Bytes transferred",
			ConstLabels: labels,
		}),
		Duration: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "smvllm_fetch_duration_seconds",
			Help:        "Wall time of the fetch",
			ConstLabels: labels,
		}),
		Success: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "smvllm_fetch_success",
			Help:        "1 when the last fetch completed",
			ConstLabels: labels,
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "smvllm_fetch_last_run_timestamp_seconds",
			Help:        "Unix time the last fetch finished",
			ConstLabels: labels,
		}),
	}
}

// Observe records the outcome of a run.
func (m *Fetch) Observe(stats snapshot.Stats, elapsed time.Duration, err error, finished time.Time) {
	m.FilesDownloaded.Set(float64(stats.Files))
	m.FilesSkipped.Set(float64(stats.Skipped))
	m.Bytes.Set(float64(stats.Bytes))
	m.Duration.Set(elapsed.Seconds())
	if err == nil {
		m.Success.Set(1)
	} else {
		m.Success.Set(0)
	}
	m.LastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path.
func (m *Fetch) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
