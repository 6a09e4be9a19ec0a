package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for the posting engine, reports and
// background jobs. Every method is safe on a nil receiver so callers can run
// without instrumentation.
type Metrics struct {
	postings        *prometheus.CounterVec
	postingDuration *prometheus.HistogramVec
	reportDuration  *prometheus.HistogramVec
	warnings        *prometheus.CounterVec
	events          *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the ledger metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker measures a single operation.
type Tracker struct {
	end   func(status string, elapsed time.Duration)
	start time.Time
}

// End records the outcome and returns err untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.end == nil {
		return err
	}
	t.end(statusOf(err), time.Since(t.start))
	return err
}

// TrackPosting starts measuring a posting operation ("post" or "reverse").
func (m *Metrics) TrackPosting(operation string) *Tracker {
	if m == nil {
		return &Tracker{}
	}
	return &Tracker{start: time.Now(), end: func(status string, elapsed time.Duration) {
		m.postings.WithLabelValues(operation, status).Inc()
		m.postingDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}}
}

// TrackReport starts measuring a report build.
func (m *Metrics) TrackReport(report string) *Tracker {
	if m == nil {
		return &Tracker{}
	}
	return &Tracker{start: time.Now(), end: func(status string, elapsed time.Duration) {
		m.reportDuration.WithLabelValues(report, status).Observe(elapsed.Seconds())
	}}
}

// TrackJob starts measuring a background job run.
func (m *Metrics) TrackJob(job string) *Tracker {
	if m == nil {
		return &Tracker{}
	}
	return &Tracker{start: time.Now(), end: func(status string, elapsed time.Duration) {
		m.jobRuns.WithLabelValues(job, status).Inc()
		m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
	}}
}

// AddWarnings counts data integrity warnings by code.
func (m *Metrics) AddWarnings(code string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.warnings.WithLabelValues(code).Add(float64(count))
}

// IncEvent counts a published or consumed journal event.
func (m *Metrics) IncEvent(eventType, direction string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType, direction).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	postings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_postings_total",
		Help: "Posting operations partitioned by operation and status.",
	}, []string{"operation", "status"})
	postingDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_posting_duration_seconds",
		Help:    "Duration in seconds of post and reverse operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_report_duration_seconds",
		Help:    "Duration in seconds of report generation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report", "status"})
	warnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_integrity_warnings_total",
		Help: "Data integrity warnings attached to reports and integrity checks.",
	}, []string{"code"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_journal_events_total",
		Help: "Journal events partitioned by type and direction.",
	}, []string{"type", "direction"})
	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_jobs_total",
		Help: "Total job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	registerer.MustRegister(postings, postingDuration, reportDuration, warnings, events, jobRuns, jobDuration)
	return &Metrics{
		postings:        postings,
		postingDuration: postingDuration,
		reportDuration:  reportDuration,
		warnings:        warnings,
		events:          events,
		jobRuns:         jobRuns,
		jobDuration:     jobDuration,
	}
}
