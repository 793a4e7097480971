package providers

import (
	"time"
	"vtlink/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncVerifications(level int, success bool)
	ObserveConfidence(confidence float64)
	IncStoreWrites(store string)
	IncStoreReads(store string)
	IncScannedCandidates(count int)
	ObserveSweepDuration(duration time.Duration)
}

// MappingCounter is the slice of the mapping service the gauges need.
// Declared here so providers does not import services.
type MappingCounter interface {
	MappingCount() int
	PendingTickets() int
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	verifications     *prometheus.CounterVec
	confidence        prometheus.Histogram
	storeWrites       *prometheus.CounterVec
	storeReads        *prometheus.CounterVec
	scannedCandidates prometheus.Counter
	sweepDuration     prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncVerifications(level int, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.verifications.WithLabelValues(levelLabel(level), outcome).Inc()
}

func (m *MetricsProvider) ObserveConfidence(confidence float64) {
	m.confidence.Observe(confidence)
}

func (m *MetricsProvider) IncStoreWrites(store string) {
	m.storeWrites.WithLabelValues(store).Inc()
}

func (m *MetricsProvider) IncStoreReads(store string) {
	m.storeReads.WithLabelValues(store).Inc()
}

func (m *MetricsProvider) IncScannedCandidates(count int) {
	m.scannedCandidates.Add(float64(count))
}

func (m *MetricsProvider) ObserveSweepDuration(duration time.Duration) {
	m.sweepDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func levelLabel(level int) string {
	switch level {
	case 1:
		return "1"
	case 2:
		return "2"
	case 3:
		return "3"
	default:
		return "4"
	}
}

func NewMetricsProvider(conf *structures.Config, counts MappingCounter) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vtlink_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vtlink_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vtlink_cache_hits_total",
			Help: "Total number of mapping cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vtlink_cache_misses_total",
			Help: "Total number of mapping cache misses",
		}),

		verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vtlink_verifications_total",
			Help: "Verification attempts by resulting level and outcome",
		}, []string{"level", "outcome"}),

		confidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vtlink_verification_confidence",
			Help:    "Confidence score distribution of verification attempts",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		storeWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vtlink_store_writes_total",
			Help: "Shard store record writes",
		}, []string{"store"}),

		storeReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vtlink_store_reads_total",
			Help: "Shard store record reads",
		}, []string{"store"}),

		scannedCandidates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vtlink_scanned_candidates_total",
			Help: "Candidates pulled from ranked lists",
		}),

		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vtlink_sweep_duration_seconds",
			Help:    "Duration of scheduled pipeline sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vtlink_mappings_total",
		Help: "Confirmed mappings currently indexed",
	}, func() float64 {
		return float64(counts.MappingCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vtlink_pending_tickets",
		Help: "Submitted tickets waiting for the next sweep",
	}, func() float64 {
		return float64(counts.PendingTickets())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncVerifications(_ int, _ bool)                   {}
func (n *noopMetrics) ObserveConfidence(_ float64)                      {}
func (n *noopMetrics) IncStoreWrites(_ string)                          {}
func (n *noopMetrics) IncStoreReads(_ string)                           {}
func (n *noopMetrics) IncScannedCandidates(_ int)                       {}
func (n *noopMetrics) ObserveSweepDuration(_ time.Duration)             {}
