package storage

import (
	"context"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// Repository defines the interface for crossing record storage.
type Repository interface {
	// ListCrossings returns the records inside the filter bounds (inclusive),
	// sorted by timestamp, most recent first.
	ListCrossings(ctx context.Context, filter domain.RecordFilter) ([]domain.CrossingRecord, error)

	// InsertCrossings stores records, ignoring IDs that already exist.
	InsertCrossings(ctx context.Context, records []domain.CrossingRecord) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
