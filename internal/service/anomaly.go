package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/frontera-ops/crossing-risk/internal/detector"
	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/logging"
	"github.com/frontera-ops/crossing-risk/internal/monitor"
	"github.com/frontera-ops/crossing-risk/internal/storage"
	"github.com/frontera-ops/crossing-risk/internal/traces"
)

// AnomalyService runs the anomaly detectors over the record store.
type AnomalyService struct {
	repo     storage.Repository
	detector *detector.Detector
	metrics  *monitor.Metrics
	now      func() time.Time
}

// NewAnomalyService creates a new AnomalyService.
func NewAnomalyService(repo storage.Repository, det *detector.Detector, metrics *monitor.Metrics) *AnomalyService {
	return &AnomalyService{repo: repo, detector: det, metrics: metrics, now: time.Now}
}

// DetectAnomalies fetches the full record set once, runs every detector over
// it and returns the merged list ranked high to low severity.
func (s *AnomalyService) DetectAnomalies(ctx context.Context) ([]domain.Anomaly, error) {
	anomalies, _, err := s.detect(ctx)
	return anomalies, err
}

// Summary counts the current anomalies by severity and type.
func (s *AnomalyService) Summary(ctx context.Context) (*domain.AnomalySummary, error) {
	anomalies, scanned, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.AnomalySummary{
		Total:      len(anomalies),
		BySeverity: make(map[domain.Severity]int),
		ByType:     make(map[domain.AnomalyType]int),
		Records:    scanned,
		DetectedAt: s.now().UTC(),
	}
	for _, sev := range []domain.Severity{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
		summary.BySeverity[sev] = 0
	}
	for _, t := range domain.AnomalyTypes {
		summary.ByType[t] = 0
	}
	for _, a := range anomalies {
		summary.BySeverity[a.Severity]++
		summary.ByType[a.Type]++
	}
	return summary, nil
}

func (s *AnomalyService) detect(ctx context.Context) ([]domain.Anomaly, int, error) {
	ctx, span := traces.StartSpan(ctx, "service.DetectAnomalies")
	defer span.End()

	start := time.Now()
	records, err := s.fetch(ctx)
	if err != nil {
		s.metrics.RecordFailure(time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "record fetch failed")
		logging.L(ctx).Error("anomaly detection failed", "error", err)
		return nil, 0, err
	}

	anomalies := s.detector.Run(records)
	took := time.Since(start)
	s.metrics.RecordRun(anomalies, took)
	span.SetAttributes(traces.RecordCount(len(records)), traces.AnomalyCount(len(anomalies)))

	logging.L(ctx).Info("anomaly detection completed",
		"records", len(records),
		"anomalies", len(anomalies),
		"duration_ms", took.Milliseconds(),
	)
	return anomalies, len(records), nil
}

func (s *AnomalyService) fetch(ctx context.Context) ([]domain.CrossingRecord, error) {
	ctx, span := traces.StartSpan(ctx, "storage.ListCrossings")
	defer span.End()

	records, err := s.repo.ListCrossings(ctx, domain.RecordFilter{})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}
	span.SetAttributes(traces.RecordCount(len(records)))
	return records, nil
}
