package worker

import (
	"context"
	"sync"
	"time"

	"github.com/iqpremium/iqpay/internal/adapter/config"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port"
	"go.uber.org/zap"
)

type recheck struct {
	paymentID string
	attempt   int
}

// RecheckQueue retries reconciliation of payments whose gateway lookup
// failed. Only temporary gateway failures are retried, each after the next
// delay in the configured schedule.
type RecheckQueue struct {
	logger *zap.Logger
	delays []time.Duration
	queue  chan recheck

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewRecheckQueue(cfg *config.Recheck, log *zap.Logger) *RecheckQueue {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	return &RecheckQueue{
		logger:  log,
		delays:  cfg.Delays,
		queue:   make(chan recheck, size),
		pending: make(map[string]struct{}),
	}
}

func (q *RecheckQueue) ScheduleRecheck(paymentID string) {
	q.schedule(recheck{paymentID: paymentID})
}

func (q *RecheckQueue) schedule(r recheck) {
	if r.attempt >= len(q.delays) {
		q.logger.Warn("giving up payment recheck",
			zap.String("payment_id", r.paymentID), zap.Int("attempts", r.attempt))
		return
	}

	q.mu.Lock()
	if _, ok := q.pending[r.paymentID]; ok && r.attempt == 0 {
		q.mu.Unlock()
		return
	}
	q.pending[r.paymentID] = struct{}{}
	q.mu.Unlock()

	delay := q.delays[r.attempt]
	q.logger.Debug("payment recheck scheduled",
		zap.String("payment_id", r.paymentID),
		zap.Int("attempt", r.attempt+1),
		zap.Duration("delay", delay))

	time.AfterFunc(delay, func() {
		select {
		case q.queue <- r:
		default:
			q.done(r.paymentID)
			q.logger.Warn("recheck queue full, dropping payment", zap.String("payment_id", r.paymentID))
		}
	})
}

func (q *RecheckQueue) done(paymentID string) {
	q.mu.Lock()
	delete(q.pending, paymentID)
	q.mu.Unlock()
}

// Run starts workers that reconcile queued payments until ctx is done.
func (q *RecheckQueue) Run(ctx context.Context, reconciler port.PaymentReconciler, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case r := <-q.queue:
					q.process(ctx, reconciler, r)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()
	q.logger.Debug("recheck workers finished")
}

func (q *RecheckQueue) process(ctx context.Context, reconciler port.PaymentReconciler, r recheck) {
	err := reconciler.ReconcilePayment(ctx, r.paymentID)
	if err == nil {
		q.done(r.paymentID)
		q.logger.Info("payment rechecked", zap.String("payment_id", r.paymentID), zap.Int("attempt", r.attempt+1))
		return
	}

	if !domain.IsTemporaryGatewayError(err) {
		q.done(r.paymentID)
		q.logger.Error("payment recheck failed", zap.String("payment_id", r.paymentID), zap.Error(err))
		return
	}

	q.logger.Warn("payment recheck hit gateway error",
		zap.String("payment_id", r.paymentID), zap.Int("attempt", r.attempt+1), zap.Error(err))

	next := recheck{paymentID: r.paymentID, attempt: r.attempt + 1}
	if next.attempt >= len(q.delays) {
		q.done(r.paymentID)
	}
	q.schedule(next)
}
