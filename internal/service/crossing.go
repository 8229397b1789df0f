package service

import (
	"context"
	"fmt"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/storage"
)

// CrossingService exposes bounded record listings.
type CrossingService struct {
	repo storage.Repository
}

// NewCrossingService creates a new CrossingService.
func NewCrossingService(repo storage.Repository) *CrossingService {
	return &CrossingService{repo: repo}
}

// ListCrossings returns the records inside the filter, newest first.
func (s *CrossingService) ListCrossings(ctx context.Context, filter domain.RecordFilter) ([]domain.CrossingRecord, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", domain.ErrInvalidRequest)
	}
	records, err := s.repo.ListCrossings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}
	if records == nil {
		records = []domain.CrossingRecord{}
	}
	return records, nil
}
