package prom

import (
	"github.com/prometheus/client_golang/prometheus"
)

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	s := e.status.snapshot()
	e.collectResult(ch, s)
	e.collectRuns(ch, s)
}

// collectResult reports the counts of the latest successful run.
func (e *Exporter) collectResult(ch chan<- prometheus.Metric, s snapshot) {
	ch <- prometheus.MustNewConstMetric(
		e.Transactions,
		prometheus.GaugeValue,
		float64(s.result.Transactions),
		s.path,
	)
	ch <- prometheus.MustNewConstMetric(
		e.Postings,
		prometheus.GaugeValue,
		float64(s.result.Postings),
		s.path,
	)
	ch <- prometheus.MustNewConstMetric(
		e.DuplicateGroups,
		prometheus.GaugeValue,
		float64(len(s.result.Groups)),
		s.path,
	)
	ch <- prometheus.MustNewConstMetric(
		e.DuplicatePostings,
		prometheus.GaugeValue,
		float64(s.result.DuplicatePostings()),
		s.path,
	)
}

// collectRuns reports program information (runs, errors, ...)
func (e *Exporter) collectRuns(ch chan<- prometheus.Metric, s snapshot) {
	var lastRun float64
	if !s.lastRun.IsZero() {
		lastRun = float64(s.lastRun.Unix())
	}
	ch <- prometheus.MustNewConstMetric(
		e.LastRunTime,
		prometheus.GaugeValue,
		lastRun,
		s.path,
	)
	success := 0.0
	if s.runs > 0 && s.lastErr == nil {
		success = 1
	}
	ch <- prometheus.MustNewConstMetric(
		e.LastRunSuccess,
		prometheus.GaugeValue,
		success,
		s.path,
	)
	ch <- prometheus.MustNewConstMetric(
		e.Runs,
		prometheus.CounterValue,
		s.runs,
		s.path,
	)
	ch <- prometheus.MustNewConstMetric(
		e.Errors,
		prometheus.CounterValue,
		s.errors,
		s.path,
	)
}

// NewRegistry returns a registry holding the exporter and extra collectors.
func NewRegistry(e *Exporter, extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(e)
	reg.MustRegister(extra...)
	return reg
}

// WriteTextfile writes the metrics of e in the text format read by the node exporter textfile collector.
func WriteTextfile(path string, e *Exporter) error {
	return prometheus.WriteToTextfile(path, NewRegistry(e))
}
