package metrics

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

const MetricsPrefix = "submitfilter_"

type (
	Category string
	Outcome  string
)

const (
	CategoryCPU         Category = "cpu"
	CategoryAccelerator Category = "accelerator"
	// The partition could not be resolved or described.
	CategoryUnknown Category = "unknown"

	OutcomePassthrough Outcome = "passthrough"
	OutcomeDefaulted   Outcome = "defaulted"
	OutcomeRejected    Outcome = "rejected"
)

type Metrics struct {
	registry           *prometheus.Registry
	decisionsCounter   *prometheus.CounterVec
	rejectionsCounter  *prometheus.CounterVec
	queryDurationHist  prometheus.Histogram
	queryFailedCounter prometheus.Counter
}

// NewMetrics registers the filter's metrics on a fresh registry. The process is short-lived,
// so nothing is registered globally.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	decisionsCounterOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "decisions_total",
		Help: "Number of pre-submit decisions grouped by partition, partition category and outcome",
	}
	rejectionsCounterOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "rejections_total",
		Help: "Number of rejected submissions grouped by reason",
	}
	queryDurationHistOpts := prometheus.HistogramOpts{
		Name:    MetricsPrefix + "partition_query_seconds",
		Help:    "Time taken to query partition information",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}
	queryFailedCounterOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "partition_query_failures_total",
		Help: "Number of partition queries that could not be run or failed",
	}
	return &Metrics{
		registry:           registry,
		decisionsCounter:   factory.NewCounterVec(decisionsCounterOpts, []string{"partition", "category", "outcome"}),
		rejectionsCounter:  factory.NewCounterVec(rejectionsCounterOpts, []string{"kind"}),
		queryDurationHist:  factory.NewHistogram(queryDurationHistOpts),
		queryFailedCounter: factory.NewCounter(queryFailedCounterOpts),
	}
}

// Registry is the registry the metrics were registered on. Callers may add their own
// collectors, e.g. the log hook.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordDecision(partition string, category Category, outcome Outcome) {
	m.decisionsCounter.With(map[string]string{
		"partition": partition,
		"category":  string(category),
		"outcome":   string(outcome),
	}).Inc()
}

func (m *Metrics) RecordRejection(kind string) {
	m.rejectionsCounter.With(map[string]string{"kind": kind}).Inc()
}

func (m *Metrics) RecordPartitionQuery(duration time.Duration, ok bool) {
	m.queryDurationHist.Observe(duration.Seconds())
	if !ok {
		m.queryFailedCounter.Inc()
	}
}

// InstrumentSource wraps src so every query is timed.
func (m *Metrics) InstrumentSource(src partition.Source) partition.Source {
	return &instrumentedSource{source: src, metrics: m}
}

// WriteTextfile writes every metric in the registry, and those of extra, to path in the text
// exposition format, for collection by the node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string, extra ...prometheus.Gatherer) error {
	gatherers := append(prometheus.Gatherers{m.registry}, extra...)
	if err := prometheus.WriteToTextfile(path, gatherers); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}

type instrumentedSource struct {
	source  partition.Source
	metrics *Metrics
}

func (s *instrumentedSource) Query(ctx context.Context, name string) (string, bool) {
	start := time.Now()
	text, ok := s.source.Query(ctx, name)
	s.metrics.RecordPartitionQuery(time.Since(start), ok)
	return text, ok
}
