package prom

import (
	"sync"
	"time"

	"github.com/helpcomp/ledger-xml-lint/duplicate"
	"github.com/prometheus/client_golang/prometheus"
)

// Status holds the outcome of the latest lint run of a ledger.
type Status struct {
	mu      sync.RWMutex
	path    string
	result  duplicate.Result
	lastRun time.Time
	lastErr error
	runs    float64
	errors  float64
}

func NewStatus(path string) *Status {
	return &Status{path: path}
}

// Record stores the outcome of a run. On error the previous result is kept.
func (s *Status) Record(at time.Time, res duplicate.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = at
	s.lastErr = err
	if err != nil {
		s.errors++
		return
	}
	s.result = res
}

// Err returns the error of the latest run, if any.
func (s *Status) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

type snapshot struct {
	path    string
	result  duplicate.Result
	lastRun time.Time
	lastErr error
	runs    float64
	errors  float64
}

func (s *Status) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		path:    s.path,
		result:  s.result,
		lastRun: s.lastRun,
		lastErr: s.lastErr,
		runs:    s.runs,
		errors:  s.errors,
	}
}

type Exporter struct {
	Transactions      *prometheus.Desc
	Postings          *prometheus.Desc
	DuplicateGroups   *prometheus.Desc
	DuplicatePostings *prometheus.Desc
	LastRunTime       *prometheus.Desc
	LastRunSuccess    *prometheus.Desc
	Runs              *prometheus.Desc
	Errors            *prometheus.Desc
	status            *Status
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.Transactions
	ch <- e.Postings
	ch <- e.DuplicateGroups
	ch <- e.DuplicatePostings
	ch <- e.LastRunTime
	ch <- e.LastRunSuccess
	ch <- e.Runs
	ch <- e.Errors
}

func NewExporter(namespace string, status *Status) *Exporter {
	return &Exporter{
		Transactions: prometheusLedgerDesc(
			namespace,
			"transactions",
			"Number of transactions in the ledger",
		),
		Postings: prometheusLedgerDesc(
			namespace,
			"postings",
			"Number of postings checked for duplicates",
		),
		DuplicateGroups: prometheusLedgerDesc(
			namespace,
			"duplicate_groups",
			"Number of groups of potential duplicates",
		),
		DuplicatePostings: prometheusLedgerDesc(
			namespace,
			"duplicate_postings",
			"Number of postings that belong to a group of potential duplicates",
		),
		LastRunTime: prometheusLedgerDesc(
			namespace,
			"last_run_timestamp_seconds",
			"Time of the last lint run (Unix Time / Epoch)",
		),
		LastRunSuccess: prometheusLedgerDesc(
			namespace,
			"last_run_success",
			"Whether the last lint run succeeded",
		),
		Runs: prometheusLedgerDesc(
			namespace,
			"runs_total",
			"Count of lint runs",
		),
		Errors: prometheusLedgerDesc(
			namespace,
			"errors_total",
			"Count of failed lint runs",
		),
		status: status,
	}
}

func prometheusLedgerDesc(namespace string, metric string, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(
			namespace,
			"",
			metric,
		),
		help,
		[]string{"path"},
		nil,
	)
}
