package monitor

import (
	"sync"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// Metrics tracks in-memory counters for the risk engine and mirrors them
// into the Prometheus collectors.
type Metrics struct {
	mu  sync.RWMutex
	now func() time.Time

	DetectionRuns     int64 `json:"detection_runs"`
	DetectionFailures int64 `json:"detection_failures"`
	AnomaliesEmitted  int64 `json:"anomalies_emitted"`
	Assessments       int64 `json:"assessments"`
	HighRiskAssessed  int64 `json:"high_risk_assessed"`
	CacheHits         int64 `json:"cache_hits"`
	CacheMisses       int64 `json:"cache_misses"`

	lastRunAt    time.Time
	lastDuration time.Duration

	// Sliding window of detection runs
	window []windowEntry
}

type windowEntry struct {
	ts     time.Time
	failed bool
}

const windowDuration = 5 * time.Minute

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	DetectionRuns     int64      `json:"detection_runs"`
	DetectionFailures int64      `json:"detection_failures"`
	AnomaliesEmitted  int64      `json:"anomalies_emitted"`
	Assessments       int64      `json:"assessments"`
	HighRiskAssessed  int64      `json:"high_risk_assessed"`
	CacheHits         int64      `json:"cache_hits"`
	CacheMisses       int64      `json:"cache_misses"`
	CacheHitRate      float64    `json:"cache_hit_rate"`
	LastRunAt         *time.Time `json:"last_run_at,omitempty"`
	LastRunMillis     int64      `json:"last_run_ms"`
	WindowRuns        int        `json:"window_runs_5m"`
	WindowFailures    int        `json:"window_failures_5m"`
	WindowFailureRate float64    `json:"window_failure_rate_5m"`
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{now: time.Now}
}

// RecordRun records a successful detection run and the anomalies it emitted.
func (m *Metrics) RecordRun(anomalies []domain.Anomaly, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetectionRuns++
	m.AnomaliesEmitted += int64(len(anomalies))
	m.markRun(took, false)

	DetectionRunsTotal.WithLabelValues("success").Inc()
	DetectionDuration.Observe(took.Seconds())
	for _, a := range anomalies {
		AnomaliesTotal.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
}

// RecordFailure records a detection run that could not fetch its records.
func (m *Metrics) RecordFailure(took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetectionRuns++
	m.DetectionFailures++
	m.markRun(took, true)

	DetectionRunsTotal.WithLabelValues("failure").Inc()
	DetectionDuration.Observe(took.Seconds())
}

// RecordAssessment records a single risk assessment.
func (m *Metrics) RecordAssessment(level domain.RiskLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assessments++
	if level == domain.RiskHigh {
		m.HighRiskAssessed++
	}
	AssessmentsTotal.WithLabelValues(string(level)).Inc()
}

// RecordCacheHit records a record fetch served from the cache.
func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
	RecordCacheHits.Inc()
}

// RecordCacheMiss records a record fetch that reached the store.
func (m *Metrics) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
	RecordCacheMisses.Inc()
}

func (m *Metrics) markRun(took time.Duration, failed bool) {
	now := m.now()
	m.lastRunAt = now
	m.lastDuration = took
	m.window = append(m.window, windowEntry{ts: now, failed: failed})
	m.pruneWindow(now)
}

func (m *Metrics) pruneWindow(now time.Time) {
	cutoff := now.Add(-windowDuration)
	i := 0
	for i < len(m.window) && m.window[i].ts.Before(cutoff) {
		i++
	}
	m.window = m.window[i:]
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := m.now().Add(-windowDuration)
	var runs, failures int
	for _, e := range m.window {
		if e.ts.After(cutoff) {
			runs++
			if e.failed {
				failures++
			}
		}
	}

	var failureRate float64
	if runs > 0 {
		failureRate = float64(failures) / float64(runs) * 100
	}
	var hitRate float64
	if lookups := m.CacheHits + m.CacheMisses; lookups > 0 {
		hitRate = float64(m.CacheHits) / float64(lookups) * 100
	}

	snap := MetricsSnapshot{
		DetectionRuns:     m.DetectionRuns,
		DetectionFailures: m.DetectionFailures,
		AnomaliesEmitted:  m.AnomaliesEmitted,
		Assessments:       m.Assessments,
		HighRiskAssessed:  m.HighRiskAssessed,
		CacheHits:         m.CacheHits,
		CacheMisses:       m.CacheMisses,
		CacheHitRate:      hitRate,
		LastRunMillis:     m.lastDuration.Milliseconds(),
		WindowRuns:        runs,
		WindowFailures:    failures,
		WindowFailureRate: failureRate,
	}
	if !m.lastRunAt.IsZero() {
		t := m.lastRunAt
		snap.LastRunAt = &t
	}
	return snap
}
