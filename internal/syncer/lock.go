package syncer

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSyncInProgress is returned when another sync holds the account lock.
var ErrSyncInProgress = errors.New("a sync is already running for this account")

// Locker serializes syncs per account. Release must be safe to call once
// the lock has already expired.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	now   func() time.Time
	token uint64
	owner map[string]uint64
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held:  make(map[string]time.Time),
		owner: make(map[string]uint64),
		now:   time.Now,
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, ok := l.held[key]; ok && l.now().Before(expiry) {
		return nil, ErrSyncInProgress
	}

	l.token++
	token := l.token
	l.held[key] = l.now().Add(ttl)
	l.owner[key] = token

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.owner[key] == token {
			delete(l.held, key)
			delete(l.owner, key)
		}
	}, nil
}
