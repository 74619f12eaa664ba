package redis

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// BATCH LOCK
// Распределённая блокировка на студента для батч-задач. Два воркера
// (или два запуска планировщика) не должны одновременно пересчитывать
// одного студента. TTL страхует от упавшего держателя.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultLockTTL bounds how long a crashed holder keeps the lock.
const DefaultLockTTL = 2 * time.Minute

// BatchLock acquires per-student locks via SETNX.
type BatchLock struct {
	cache *Cache
	owner string
	ttl   time.Duration
}

// NewBatchLock creates a new BatchLock. The owner tag identifies the worker
// instance in the lock value, useful when debugging stuck locks.
func NewBatchLock(cache *Cache, owner string, ttl time.Duration) *BatchLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &BatchLock{cache: cache, owner: owner, ttl: ttl}
}

// Acquire tries to take the lock for a student. Returns false when another
// holder already has it.
func (l *BatchLock) Acquire(ctx context.Context, studentID string) (bool, error) {
	return l.cache.SetNX(ctx, LockKey("student:"+studentID), l.owner, l.ttl)
}

// Release drops the lock. Releasing a lock that expired or was never held
// is harmless.
func (l *BatchLock) Release(ctx context.Context, studentID string) error {
	return l.cache.Delete(ctx, LockKey("student:"+studentID))
}
