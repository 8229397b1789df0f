package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*CachedRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)

var base = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func record(id string, at time.Time) domain.CrossingRecord {
	return domain.CrossingRecord{
		ID:                      id,
		Timestamp:               at,
		VehicleType:             domain.VehicleCargo,
		OriginCountry:           "Bolivia",
		ControlPoint:            domain.ControlColchane,
		CrossingDurationMinutes: 45,
		InspectionResult:        domain.InspectionApproved,
		RiskLevel:               domain.RiskLow,
		InspectorName:           "Ana Torres",
	}
}

func ids(records []domain.CrossingRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(
		record("a", base.Add(-2*time.Hour)),
		record("b", base),
		record("c", base.Add(-time.Hour)),
	)

	got, err := repo.ListCrossings(context.Background(), domain.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestMemoryRepository_FilterBoundsInclusive(t *testing.T) {
	repo := NewMemoryRepository(
		record("before", base.Add(-3*time.Hour)),
		record("from", base.Add(-2*time.Hour)),
		record("inside", base.Add(-time.Hour)),
		record("to", base),
		record("after", base.Add(time.Hour)),
	)

	from, to := base.Add(-2*time.Hour), base
	got, err := repo.ListCrossings(context.Background(), domain.RecordFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"to", "inside", "from"}, ids(got))
}

func TestMemoryRepository_InsertIgnoresDuplicates(t *testing.T) {
	repo := NewMemoryRepository(record("a", base))

	dup := record("a", base.Add(time.Hour))
	require.NoError(t, repo.InsertCrossings(context.Background(), []domain.CrossingRecord{dup, record("b", base)}))

	assert.Equal(t, 2, repo.Len())
	got, _ := repo.ListCrossings(context.Background(), domain.RecordFilter{})
	for _, r := range got {
		if r.ID == "a" {
			assert.Equal(t, base, r.Timestamp, "first write wins")
		}
	}
}

func TestMemoryRepository_InsertRejectsInvalid(t *testing.T) {
	repo := NewMemoryRepository()
	bad := record("bad", base)
	bad.CrossingDurationMinutes = -1

	err := repo.InsertCrossings(context.Background(), []domain.CrossingRecord{record("ok", base), bad})
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Equal(t, 0, repo.Len(), "batch is all-or-nothing")
}

// countingRepo wraps a MemoryRepository and counts list calls.
type countingRepo struct {
	*MemoryRepository
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (c *countingRepo) ListCrossings(ctx context.Context, f domain.RecordFilter) ([]domain.CrossingRecord, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.MemoryRepository.ListCrossings(ctx, f)
}

type countingObserver struct {
	hits, misses atomic.Int32
}

func (o *countingObserver) RecordCacheHit()  { o.hits.Add(1) }
func (o *countingObserver) RecordCacheMiss() { o.misses.Add(1) }

func TestCachedRepository_HitWithinTTL(t *testing.T) {
	src := &countingRepo{MemoryRepository: NewMemoryRepository(record("a", base))}
	obs := &countingObserver{}
	cache := NewCachedRepository(src, time.Minute, obs)
	now := base
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		got, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, int32(2), obs.hits.Load())
	assert.Equal(t, int32(1), obs.misses.Load())
}

func TestCachedRepository_ExpiresAfterTTL(t *testing.T) {
	src := &countingRepo{MemoryRepository: NewMemoryRepository(record("a", base))}
	cache := NewCachedRepository(src, time.Minute, nil)
	now := base
	cache.now = func() time.Time { return now }

	_, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = cache.ListCrossings(context.Background(), domain.RecordFilter{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedRepository_KeyedByRange(t *testing.T) {
	src := &countingRepo{MemoryRepository: NewMemoryRepository(record("a", base), record("b", base.Add(-48*time.Hour)))}
	cache := NewCachedRepository(src, time.Minute, nil)

	from := base.Add(-time.Hour)
	narrow, err := cache.ListCrossings(context.Background(), domain.RecordFilter{From: &from})
	require.NoError(t, err)
	all, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, ids(narrow))
	assert.Equal(t, []string{"a", "b"}, ids(all))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedRepository_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("connection refused")
	src := &countingRepo{MemoryRepository: NewMemoryRepository(record("a", base)), err: boom}
	cache := NewCachedRepository(src, time.Minute, nil)

	_, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
	require.ErrorIs(t, err, boom)

	src.err = nil
	got, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedRepository_InsertInvalidates(t *testing.T) {
	src := &countingRepo{MemoryRepository: NewMemoryRepository(record("a", base))}
	cache := NewCachedRepository(src, time.Hour, nil)
	ctx := context.Background()

	_, err := cache.ListCrossings(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	require.NoError(t, cache.InsertCrossings(ctx, []domain.CrossingRecord{record("b", base.Add(time.Minute))}))

	got, err := cache.ListCrossings(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(got))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedRepository_ReturnsCopies(t *testing.T) {
	src := NewMemoryRepository(record("a", base))
	cache := NewCachedRepository(src, time.Hour, nil)
	ctx := context.Background()

	first, err := cache.ListCrossings(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	first[0].InspectorName = "mutated"

	second, err := cache.ListCrossings(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", second[0].InspectorName)
}

func TestCachedRepository_ConcurrentMissesShareOneFetch(t *testing.T) {
	src := &countingRepo{
		MemoryRepository: NewMemoryRepository(record("a", base)),
		release:          make(chan struct{}),
	}
	cache := NewCachedRepository(src, time.Hour, nil)

	const callers = 10
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
			errs <- err
		}()
	}

	// Give every caller time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCachedRepository_CancelledCallerDoesNotFailOthers(t *testing.T) {
	src := &countingRepo{
		MemoryRepository: NewMemoryRepository(record("a", base)),
		release:          make(chan struct{}),
	}
	cache := NewCachedRepository(src, time.Hour, nil)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cache.ListCrossings(leaderCtx, domain.RecordFilter{})
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		records []domain.CrossingRecord
		err     error
	}
	follower := make(chan result, 1)
	go func() {
		records, err := cache.ListCrossings(context.Background(), domain.RecordFilter{})
		follower <- result{records, err}
	}()

	// Let the follower join the in-flight fetch, then drop the leader.
	time.Sleep(20 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(src.release)
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, []string{"a"}, ids(got.records))
	assert.Equal(t, int32(1), src.calls.Load())
}
