package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fallback wraps a primary Store and degrades to an in-memory store for the
// rest of the process lifetime after the first persistence failure. The
// conversation flow must never fail because the fact store is down; state
// features silently degrade to "no memory" instead.
type Fallback struct {
	primary  Store
	memory   *MemoryStore
	logger   *zap.Logger
	degraded bool
	mu       sync.RWMutex
}

func NewFallback(primary Store, logger *zap.Logger) *Fallback {
	return &Fallback{
		primary: primary,
		memory:  NewMemoryStore(),
		logger:  logger,
	}
}

// Degraded reports whether the store has switched to in-memory mode.
func (f *Fallback) Degraded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.degraded
}

func (f *Fallback) degrade(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.degraded {
		f.degraded = true
		f.logger.Warn("fact store unavailable, switching to in-memory state for the rest of the process",
			zap.Error(err))
	}
}

func (f *Fallback) Get(ctx context.Context, key string) (string, error) {
	if !f.Degraded() {
		val, err := f.primary.Get(ctx, key)
		if err == nil || errors.Is(err, ErrNotFound) {
			return val, err
		}
		f.degrade(err)
	}
	return f.memory.Get(ctx, key)
}

func (f *Fallback) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if !f.Degraded() {
		if err := f.primary.Set(ctx, key, value, ttl); err != nil {
			f.degrade(err)
		} else {
			return nil
		}
	}
	return f.memory.Set(ctx, key, value, ttl)
}

func (f *Fallback) Delete(ctx context.Context, key string) error {
	if !f.Degraded() {
		if err := f.primary.Delete(ctx, key); err != nil {
			f.degrade(err)
		} else {
			return f.memory.Delete(ctx, key)
		}
	}
	return f.memory.Delete(ctx, key)
}

func (f *Fallback) Ping(ctx context.Context) error {
	if f.Degraded() {
		return nil
	}
	return f.primary.Ping(ctx)
}

func (f *Fallback) Close() error {
	return f.primary.Close()
}
