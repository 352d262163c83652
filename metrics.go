package jwtlens

import (
	"sync/atomic"
	"time"
)

// MetricID names one in-process counter.
type MetricID uint16

const (
	// MetricDecodeCycle counts reconciliation cycles entered through the
	// encoded token surface.
	MetricDecodeCycle MetricID = iota
	// MetricEncodeCycle counts reconciliation cycles entered through a
	// decomposed surface.
	MetricEncodeCycle
	// MetricAlgorithmSwitch counts selector-driven algorithm changes.
	MetricAlgorithmSwitch
	// MetricVerifyValid counts verdicts that settled valid.
	MetricVerifyValid
	// MetricVerifyInvalid counts verdicts that settled invalid.
	MetricVerifyInvalid
	// MetricSyntaxError counts cycles aborted on unparseable surface text.
	MetricSyntaxError
	// MetricSemanticDecodeError counts tokens that split into three parts
	// but did not decode to claim objects.
	MetricSemanticDecodeError
	// MetricSigningError counts re-sign attempts the key material rejected.
	MetricSigningError
	// MetricUnknownAlgorithm counts headers naming an algorithm outside the
	// known set.
	MetricUnknownAlgorithm
	// MetricResolveApplied counts asynchronous key resolutions written to
	// the public key surface.
	MetricResolveApplied
	// MetricResolveDiscarded counts resolutions dropped because the token
	// changed while they were in flight.
	MetricResolveDiscarded
	// MetricResolveFailed counts resolver errors.
	MetricResolveFailed
	// MetricBootstrapRestored counts sessions that started from a persisted
	// record.
	MetricBootstrapRestored
	// MetricBootstrapSample counts sessions that started from the built-in
	// sample.
	MetricBootstrapSample
	// MetricPersistFailure counts best-effort saves that failed.
	MetricPersistFailure
	// MetricVerifyLatency buckets signature verification latency when
	// histograms are enabled.
	MetricVerifyLatency
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

// Metrics is the in-process counter set shared by one session. All methods
// are safe for concurrent use and safe on a nil receiver.
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

// NewMetrics creates the counter set for the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe buckets one verify latency sample.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricVerifyLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when enabled, the latency histogram.
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
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricVerifyLatency].buckets[i])
		}
		s.Histograms[MetricVerifyLatency] = buckets
	}
	return s
}

func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 50:
		return 0
	case us <= 200:
		return 1
	case us <= 1000:
		return 2
	case us <= 5000:
		return 3
	case us <= 25000:
		return 4
	case us <= 100000:
		return 5
	case us <= 500000:
		return 6
	default:
		return 7
	}
}
