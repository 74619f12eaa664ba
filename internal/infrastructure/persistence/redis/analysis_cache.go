package redis

import (
	"context"
	"errors"
	"time"

	"github.com/studypulse/studypulse/internal/domain/shared"
	"github.com/studypulse/studypulse/internal/domain/signal"
)

// ══════════════════════════════════════════════════════════════════════════════
// ANALYSIS CACHE
// Кэш последнего снимка анализа для дашбордов. Короткий TTL вместо
// инвалидации: фильтр допуска всё равно читает журнал напрямую, поэтому
// отставание кэша безопасно.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultAnalysisTTL is how long a cached snapshot stays valid.
const DefaultAnalysisTTL = 5 * time.Minute

// AnalysisCache implements signal.Cache backed by Redis.
type AnalysisCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewAnalysisCache creates a new AnalysisCache.
func NewAnalysisCache(cache *Cache, ttl time.Duration) *AnalysisCache {
	if ttl <= 0 {
		ttl = DefaultAnalysisTTL
	}
	return &AnalysisCache{cache: cache, ttl: ttl}
}

// GetLatest returns the cached snapshot, or shared.ErrCacheMiss.
func (c *AnalysisCache) GetLatest(ctx context.Context, studentID string) (*signal.Signal, error) {
	var s signal.Signal
	if err := c.cache.Get(ctx, AnalysisKey(studentID), &s); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrCacheMiss
		}
		return nil, err
	}
	return &s, nil
}

// SetLatest stores the snapshot under the student's key.
func (c *AnalysisCache) SetLatest(ctx context.Context, s *signal.Signal) error {
	return c.cache.Set(ctx, AnalysisKey(s.StudentID), s, c.ttl)
}

// Invalidate drops the cached snapshot for the student.
func (c *AnalysisCache) Invalidate(ctx context.Context, studentID string) error {
	return c.cache.Delete(ctx, AnalysisKey(studentID))
}
