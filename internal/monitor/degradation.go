package monitor

// FailureWatch flags the engine as degraded when too many recent detection
// runs failed to reach the record store.
type FailureWatch struct {
	metrics   *Metrics
	threshold float64 // percentage
}

// NewFailureWatch creates a watch with the given failure-rate threshold.
func NewFailureWatch(metrics *Metrics, threshold float64) *FailureWatch {
	return &FailureWatch{metrics: metrics, threshold: threshold}
}

// IsDegraded returns true if the sliding-window failure rate exceeds the threshold.
func (w *FailureWatch) IsDegraded() bool {
	return w.metrics.Snapshot().WindowFailureRate > w.threshold
}

// Report returns the current degradation state.
func (w *FailureWatch) Report() map[string]any {
	snap := w.metrics.Snapshot()
	return map[string]any{
		"degraded":        snap.WindowFailureRate > w.threshold,
		"failure_rate":    snap.WindowFailureRate,
		"threshold":       w.threshold,
		"window_runs":     snap.WindowRuns,
		"window_failures": snap.WindowFailures,
	}
}
