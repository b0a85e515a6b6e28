package goGate

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts logins that wrote a session token.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected logins, timeouts included.
	MetricLoginFailure
	// MetricLoginTimeout counts logins whose directory call timed out.
	MetricLoginTimeout
	// MetricLoginDiscarded counts logins resolved after the user navigated away.
	MetricLoginDiscarded
	// MetricLogout counts logouts.
	MetricLogout
	// MetricSessionExpired counts expired tokens removed on read.
	MetricSessionExpired
	// MetricSessionMalformed counts undecodable tokens removed on read.
	MetricSessionMalformed
	// MetricStorageReadFailure counts storage reads treated as no session.
	MetricStorageReadFailure
	// MetricLoginThrottled counts logins refused by the failure throttle.
	MetricLoginThrottled
	// MetricDecisionAllow counts Allow decisions.
	MetricDecisionAllow
	// MetricDecisionLogin counts RedirectToLogin decisions.
	MetricDecisionLogin
	// MetricDecisionDenied counts RedirectToAccessDenied decisions.
	MetricDecisionDenied
	// MetricEvaluateLatency is the histogram of Engine.Evaluate latency.
	MetricEvaluateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters, one cache line each, and bucketed
// latency histograms. A nil or disabled Metrics ignores updates.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates counters per cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram of id when latency histograms are on.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricEvaluateLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricEvaluateLatency].buckets[i])
		}
		s.Histograms[MetricEvaluateLatency] = buckets
	}

	return s
}

// HistogramBucketBounds are the inclusive upper bounds of the latency
// buckets; the last bucket is unbounded.
var HistogramBucketBounds = [histBucketCount - 1]time.Duration{
	10 * time.Microsecond,
	25 * time.Microsecond,
	50 * time.Microsecond,
	100 * time.Microsecond,
	250 * time.Microsecond,
	500 * time.Microsecond,
	time.Millisecond,
}

func bucketIndex(d time.Duration) int {
	for i, bound := range HistogramBucketBounds {
		if d <= bound {
			return i
		}
	}
	return histBucketCount - 1
}
