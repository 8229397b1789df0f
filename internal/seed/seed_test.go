package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontera-ops/crossing-risk/internal/detector"
	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/storage"
)

var now = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func TestRecords_Valid(t *testing.T) {
	records := Records(now)
	require.Len(t, records, 154)

	seen := make(map[string]bool)
	for _, r := range records {
		require.NoError(t, r.Validate())
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		assert.False(t, r.Timestamp.After(now), "%s is in the future", r.ID)
	}
}

func TestRecords_Deterministic(t *testing.T) {
	assert.Equal(t, Records(now), Records(now))
}

func TestRecords_CoverEveryControlPoint(t *testing.T) {
	points := make(map[domain.ControlPoint]bool)
	for _, r := range Records(now) {
		points[r.ControlPoint] = true
	}
	for _, cp := range domain.ControlPoints {
		assert.True(t, points[cp], "missing %s", cp)
	}
}

func TestRecords_TriggerDetectors(t *testing.T) {
	d := detector.New(detector.WithClock(func() time.Time { return now }))
	anomalies := d.Run(Records(now))

	byType := make(map[domain.AnomalyType][]domain.Anomaly)
	for _, a := range anomalies {
		byType[a.Type] = append(byType[a.Type], a)
	}

	assert.Len(t, byType[domain.AnomalyCrossingTime], 5)
	require.Len(t, byType[domain.AnomalyRiskConcentration], 1)
	assert.Equal(t, 5, byType[domain.AnomalyRiskConcentration][0].Metadata["count"])
	require.Len(t, byType[domain.AnomalyInspectorPerformance], 1)
	assert.Equal(t, OutlierInspector, byType[domain.AnomalyInspectorPerformance][0].RelatedID)
}

func TestLoad_IsIdempotent(t *testing.T) {
	repo := storage.NewMemoryRepository()
	ctx := context.Background()

	n, err := Load(ctx, repo, now)
	require.NoError(t, err)
	assert.Equal(t, 154, n)

	_, err = Load(ctx, repo, now)
	require.NoError(t, err)
	assert.Equal(t, 154, repo.Len())
}

func TestGenerateSQL(t *testing.T) {
	sql := GenerateSQL(now)

	assert.True(t, strings.HasPrefix(sql, "BEGIN;"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(sql), "COMMIT;"))
	assert.Equal(t, 154, strings.Count(sql, "INSERT INTO crossing_records"))
	assert.Contains(t, sql, "'Cardenal Samoré'")
	assert.Contains(t, sql, "ON CONFLICT (id) DO NOTHING")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'O''Higgins'", quote("O'Higgins"))
}
