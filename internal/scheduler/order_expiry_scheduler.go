package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OrderExpirer cancels pending orders whose payment window elapsed.
type OrderExpirer interface {
	ExpireStalePendingOrders(olderThan time.Duration) (int, error)
}

// ExpiryObserver receives the number of orders expired per run.
type ExpiryObserver interface {
	ObserveExpired(n int)
}

// OrderExpiryScheduler periodically releases stock held by unpaid orders.
type OrderExpiryScheduler struct {
	cron       *cron.Cron
	orders     OrderExpirer
	observer   ExpiryObserver
	spec       string
	paymentTTL time.Duration
}

func NewOrderExpiryScheduler(orders OrderExpirer, observer ExpiryObserver, spec string, paymentTTL time.Duration) *OrderExpiryScheduler {
	return &OrderExpiryScheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		orders:     orders,
		observer:   observer,
		spec:       spec,
		paymentTTL: paymentTTL,
	}
}

func (s *OrderExpiryScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for order expiry", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Order expiry scheduler started", map[string]interface{}{
		"spec":        s.spec,
		"payment_ttl": s.paymentTTL.String(),
	})
	return nil
}

// RunOnce performs a single expiry pass.
func (s *OrderExpiryScheduler) RunOnce() {
	logger.Debug("Starting scheduled order expiry", nil)

	n, err := s.orders.ExpireStalePendingOrders(s.paymentTTL)
	if err != nil {
		logger.Error("Failed to expire stale orders", err, map[string]interface{}{
			"expired": n,
		})
	}
	if s.observer != nil {
		s.observer.ObserveExpired(n)
	}
	if n > 0 {
		logger.Info("Expired stale pending orders", map[string]interface{}{
			"count": n,
		})
	}
}

// Stop waits for a running job to finish or ctx to end.
func (s *OrderExpiryScheduler) Stop(ctx context.Context) {
	logger.Info("Stopping order expiry scheduler...", nil)
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logger.Warn("Order expiry job still running at shutdown", nil)
	}
	logger.Info("Order expiry scheduler stopped", nil)
}
