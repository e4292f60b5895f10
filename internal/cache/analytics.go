// Package cache adds a Redis read-through layer in front of the analytics
// store. Entries expire after a TTL; scans written through Scans evict the
// booth and attendee entries they touch.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

type backend interface {
	BoothStats(ctx context.Context, boothID string) (domain.EntityStats, error)
	AttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error)
	DailyHistogram(ctx context.Context, boothID string, q domain.DailyQuery) ([]domain.DailyBucket, error)
	HourlyHistogram(ctx context.Context, boothID string, q domain.HourlyQuery) ([]domain.HourlyBucket, error)
	RepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error)
	EventStats(ctx context.Context, eventID string, limit int) (domain.EventStats, error)
}

type scanWriter interface {
	CreateScan(ctx context.Context, rec domain.ScanRecord) error
	ListScans(ctx context.Context, filter domain.ScanFilter) ([]domain.ScanRecord, error)
}

// Analytics caches entity and event stats. Histograms and repeat visitors
// pass through to the backend.
type Analytics struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewAnalytics wraps base. A nil client or zero ttl disables caching.
func NewAnalytics(base backend, client *redis.Client, ttl time.Duration) *Analytics {
	if base == nil {
		panic("cache.NewAnalytics: base is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Analytics{base: base, redis: client, ttl: ttl}
}

func (c *Analytics) BoothStats(ctx context.Context, boothID string) (domain.EntityStats, error) {
	return readThrough(ctx, c, boothKey(boothID), func() (domain.EntityStats, error) {
		return c.base.BoothStats(ctx, boothID)
	})
}

func (c *Analytics) AttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error) {
	return readThrough(ctx, c, attendeeKey(attendeeID), func() (domain.EntityStats, error) {
		return c.base.AttendeeStats(ctx, attendeeID)
	})
}

func (c *Analytics) EventStats(ctx context.Context, eventID string, limit int) (domain.EventStats, error) {
	return readThrough(ctx, c, eventKey(eventID, limit), func() (domain.EventStats, error) {
		return c.base.EventStats(ctx, eventID, limit)
	})
}

func (c *Analytics) DailyHistogram(ctx context.Context, boothID string, q domain.DailyQuery) ([]domain.DailyBucket, error) {
	return c.base.DailyHistogram(ctx, boothID, q)
}

func (c *Analytics) HourlyHistogram(ctx context.Context, boothID string, q domain.HourlyQuery) ([]domain.HourlyBucket, error) {
	return c.base.HourlyHistogram(ctx, boothID, q)
}

func (c *Analytics) RepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error) {
	return c.base.RepeatVisitors(ctx, boothID)
}

// Evict drops the cached stats a new scan makes stale. Event stats are left
// to expire.
func (c *Analytics) Evict(ctx context.Context, rec domain.ScanRecord) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, boothKey(rec.BoothID), attendeeKey(rec.AttendeeID)).Result()
}

// Scans wraps a scan repository so every stored scan evicts its cached stats.
func (c *Analytics) Scans(repo scanWriter) *Scans {
	return &Scans{repo: repo, cache: c}
}

type Scans struct {
	repo  scanWriter
	cache *Analytics
}

func (s *Scans) CreateScan(ctx context.Context, rec domain.ScanRecord) error {
	if err := s.repo.CreateScan(ctx, rec); err != nil {
		return err
	}
	s.cache.Evict(ctx, rec)
	return nil
}

func (s *Scans) ListScans(ctx context.Context, filter domain.ScanFilter) ([]domain.ScanRecord, error) {
	return s.repo.ListScans(ctx, filter)
}

func readThrough[T any](ctx context.Context, c *Analytics, key string, load func() (T, error)) (T, error) {
	if v, ok := get[T](ctx, c, key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	set(ctx, c, key, v)
	return v, nil
}

func get[T any](ctx context.Context, c *Analytics, key string) (T, bool) {
	var v T
	if c.redis == nil {
		return v, false
	}
	// A redis failure is a miss; the backend answers instead.
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return v, false
	}
	return v, true
}

func set[T any](ctx context.Context, c *Analytics, key string, v T) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func boothKey(id string) string {
	return "stats:booth:" + id
}

func attendeeKey(id string) string {
	return "stats:attendee:" + id
}

func eventKey(id string, limit int) string {
	return "stats:event:" + id + ":" + strconv.Itoa(limit)
}
