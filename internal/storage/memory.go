package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// MemoryRepository is an in-memory Repository for fixtures, tests and
// local development without PostgreSQL.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []domain.CrossingRecord
	ids     map[string]struct{}
}

// NewMemoryRepository creates a MemoryRepository holding the given records.
func NewMemoryRepository(records ...domain.CrossingRecord) *MemoryRepository {
	m := &MemoryRepository{ids: make(map[string]struct{})}
	_ = m.InsertCrossings(context.Background(), records)
	return m
}

func (m *MemoryRepository) ListCrossings(_ context.Context, filter domain.RecordFilter) ([]domain.CrossingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.CrossingRecord, 0, len(m.records))
	for _, r := range m.records {
		if filter.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) InsertCrossings(_ context.Context, records []domain.CrossingRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if _, ok := m.ids[r.ID]; ok {
			continue
		}
		m.ids[r.ID] = struct{}{}
		m.records = append(m.records, r)
	}
	sort.SliceStable(m.records, func(i, j int) bool {
		return m.records[i].Timestamp.After(m.records[j].Timestamp)
	})
	return nil
}

func (m *MemoryRepository) Ping(_ context.Context) error { return nil }

// Len returns the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
