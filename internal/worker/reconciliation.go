package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahmentor/smi-payment-api/internal/midtrans"
	"github.com/sekolahmentor/smi-payment-api/internal/orders"
)

type OrderStore interface {
	FindStuck(ctx context.Context, olderThan time.Duration, limit int) ([]orders.Order, error)
	ApplyStatus(ctx context.Context, orderID string, next orders.Status) (orders.TransitionResult, error)
}

type StatusChecker interface {
	TransactionStatus(ctx context.Context, orderID string) (midtrans.StatusResponse, error)
}

// Reconciler menambal order yang kejebak PENDING/WAITING karena webhook
// hilang atau telat: tanya status sebenarnya ke gateway, lalu terapkan
// trust policy yang sama dengan jalur webhook.
type Reconciler struct {
	Store     OrderStore
	Gateway   StatusChecker
	Interval  time.Duration
	Threshold time.Duration
	BatchSize int
	Log       *zap.Logger
}

func (rw *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.Interval)
	defer ticker.Stop()

	rw.Log.Info("reconciliation worker started",
		zap.Duration("interval", rw.Interval),
		zap.Duration("threshold", rw.Threshold))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.process(ctx); err != nil {
				rw.Log.Error("reconciliation pass failed", zap.Error(err))
			}
		}
	}
}

func (rw *Reconciler) process(ctx context.Context) error {
	limit := rw.BatchSize
	if limit <= 0 {
		limit = 50
	}
	stuck, err := rw.Store.FindStuck(ctx, rw.Threshold, limit)
	if err != nil {
		return err
	}
	if len(stuck) == 0 {
		return nil
	}

	rw.Log.Info("found stuck orders", zap.Int("count", len(stuck)))

	for _, order := range stuck {
		st, err := rw.Gateway.TransactionStatus(ctx, order.ID)
		if err != nil {
			// skip, coba lagi di pass berikutnya
			rw.Log.Warn("gateway status check failed",
				zap.String("order_id", order.ID), zap.Error(err))
			continue
		}

		next, known := orders.FromTransactionStatus(st.TransactionStatus)
		if !known {
			rw.Log.Warn("gateway returned unknown transaction_status",
				zap.String("order_id", order.ID),
				zap.String("transaction_status", st.TransactionStatus))
			continue
		}
		if next == order.Status {
			continue
		}

		res, err := rw.Store.ApplyStatus(ctx, order.ID, next)
		if err != nil {
			rw.Log.Error("reconcile transition failed",
				zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		if res == orders.TransitionApplied {
			rw.Log.Info("reconciled order",
				zap.String("order_id", order.ID),
				zap.String("from", string(order.Status)),
				zap.String("to", string(next)))
		}
	}
	return nil
}
