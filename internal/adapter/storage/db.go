package storage

import (
	"context"
	"sync"
	"time"

	"github.com/iqpremium/iqpay/internal/core/domain"
	"go.uber.org/zap"
)

// Tx is the order table as seen inside View or Update. It must not be
// retained after the callback returns.
type Tx map[string]domain.Order

// DB keeps orders in process memory. All access goes through View (shared
// lock) or Update (exclusive lock), so a single order is never observed
// half-written.
type DB struct {
	mu     sync.RWMutex
	orders Tx
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*DB)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		db.now = now
	}
}

func NewMemoryStorage(logger *zap.Logger, opts ...Option) *DB {
	db := &DB{
		orders: make(Tx),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

func (db *DB) Now() time.Time {
	return db.now()
}

func (db *DB) View(fn func(tx Tx) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.orders)
}

func (db *DB) Update(fn func(tx Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.orders)
}

func (db *DB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.orders)
}

// Evict drops orders that were last updated before the cutoff and
// returns how many were removed.
func (db *DB) Evict(cutoff time.Time) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	removed := 0
	for ref, o := range db.orders {
		if o.UpdatedAt.Before(cutoff) {
			delete(db.orders, ref)
			removed++
		}
	}
	return removed
}

// RunEviction removes orders idle for longer than ttl every interval until
// ctx is done. A zero ttl disables eviction.
func (db *DB) RunEviction(ctx context.Context, interval, ttl time.Duration) {
	if ttl <= 0 || interval <= 0 {
		db.logger.Debug("order eviction disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			db.logger.Debug("order eviction stopped")
			return
		case <-ticker.C:
			removed := db.Evict(db.now().Add(-ttl))
			if removed > 0 {
				db.logger.Info("evicted idle orders",
					zap.Int("removed", removed), zap.Int("remaining", db.Len()))
			}
		}
	}
}
