// Package lock provides an in-process keyed try-lock used to keep the daily
// scheduler and a manual "generate now" from running the pipeline at the same
// time.
package lock

import (
	"log/slog"
	"sync"
)

// Keyed hands out at most one holder per key. TryLock never blocks; callers
// that lose simply report the operation as busy.
type Keyed struct {
	mu     sync.Mutex
	held   map[string]bool
	logger *slog.Logger
}

func New(logger *slog.Logger) *Keyed {
	return &Keyed{
		held:   make(map[string]bool),
		logger: logger,
	}
}

// TryLock attempts to acquire the lock for key and reports whether it
// succeeded.
func (k *Keyed) TryLock(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.held[key] {
		return false
	}
	k.held[key] = true
	k.logger.Debug("Acquired lock", slog.String("key", key))
	return true
}

// Unlock releases the lock for key.
func (k *Keyed) Unlock(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.held, key)
	k.logger.Debug("Released lock", slog.String("key", key))
}
