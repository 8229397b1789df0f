package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// CacheObserver is notified of cache hits and misses.
type CacheObserver interface {
	RecordCacheHit()
	RecordCacheMiss()
}

type cacheEntry struct {
	records   []domain.CrossingRecord
	fetchedAt time.Time
}

// CachedRepository is a read-through cache in front of a Repository.
// Entries are keyed by the query's date range and expire after ttl.
// Writes go straight to the source and drop every cached entry.
type CachedRepository struct {
	source   Repository
	ttl      time.Duration
	now      func() time.Time
	observer CacheObserver

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCachedRepository wraps source with a cache of the given TTL.
func NewCachedRepository(source Repository, ttl time.Duration, observer CacheObserver) *CachedRepository {
	return &CachedRepository{
		source:   source,
		ttl:      ttl,
		now:      time.Now,
		observer: observer,
		entries:  make(map[string]cacheEntry),
	}
}

// ListCrossings serves a cached batch when it is younger than the TTL,
// otherwise fetches from the source. Concurrent misses for the same range
// share one source call, which runs detached from any single caller's
// cancellation. Each caller still stops waiting when its own ctx is done.
func (c *CachedRepository) ListCrossings(ctx context.Context, filter domain.RecordFilter) ([]domain.CrossingRecord, error) {
	key := filter.Key()

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		c.hit()
		return cloneRecords(entry.records), nil
	}
	c.miss()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		records, err := c.source.ListCrossings(context.WithoutCancel(ctx), filter)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{records: records, fetchedAt: c.now()}
		c.mu.Unlock()
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneRecords(res.Val.([]domain.CrossingRecord)), nil
	}
}

func (c *CachedRepository) InsertCrossings(ctx context.Context, records []domain.CrossingRecord) error {
	if err := c.source.InsertCrossings(ctx, records); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *CachedRepository) Ping(ctx context.Context) error {
	return c.source.Ping(ctx)
}

// Invalidate drops every cached batch.
func (c *CachedRepository) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *CachedRepository) hit() {
	if c.observer != nil {
		c.observer.RecordCacheHit()
	}
}

func (c *CachedRepository) miss() {
	if c.observer != nil {
		c.observer.RecordCacheMiss()
	}
}

func cloneRecords(in []domain.CrossingRecord) []domain.CrossingRecord {
	out := make([]domain.CrossingRecord, len(in))
	copy(out, in)
	return out
}
