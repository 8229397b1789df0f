package service

import (
	"context"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/logging"
	"github.com/frontera-ops/crossing-risk/internal/monitor"
	"github.com/frontera-ops/crossing-risk/internal/risk"
	"github.com/frontera-ops/crossing-risk/internal/traces"
)

// RiskService scores individual crossing requests.
type RiskService struct {
	metrics *monitor.Metrics
}

// NewRiskService creates a new RiskService.
func NewRiskService(metrics *monitor.Metrics) *RiskService {
	return &RiskService{metrics: metrics}
}

// Assess validates req and returns its risk assessment.
func (s *RiskService) Assess(ctx context.Context, req domain.RiskRequest) (*domain.RiskAssessment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := traces.StartSpan(ctx, "service.AssessRisk")
	defer span.End()

	a := risk.Assess(req)
	s.metrics.RecordAssessment(a.Level)
	span.SetAttributes(traces.RiskLevel(string(a.Level)))

	logging.L(ctx).Debug("risk assessed", "route", req.Route, "level", a.Level, "score", a.Score)
	return &a, nil
}
