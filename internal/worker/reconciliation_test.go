package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sekolahmentor/smi-payment-api/internal/midtrans"
	"github.com/sekolahmentor/smi-payment-api/internal/orders"
)

type fakeStore struct {
	stuck   []orders.Order
	applied map[string]orders.Status
}

func (s *fakeStore) FindStuck(context.Context, time.Duration, int) ([]orders.Order, error) {
	return s.stuck, nil
}

func (s *fakeStore) ApplyStatus(_ context.Context, orderID string, next orders.Status) (orders.TransitionResult, error) {
	for i := range s.stuck {
		if s.stuck[i].ID != orderID {
			continue
		}
		if s.stuck[i].Status == next {
			return orders.TransitionNoOp, nil
		}
		if !orders.CanTransition(s.stuck[i].Status, next) {
			return orders.TransitionSuperseded, nil
		}
		s.applied[orderID] = next
		return orders.TransitionApplied, nil
	}
	return orders.TransitionNoOp, orders.ErrNotFound
}

type fakeChecker struct {
	statuses map[string]string
	errs     map[string]error
}

func (c *fakeChecker) TransactionStatus(_ context.Context, orderID string) (midtrans.StatusResponse, error) {
	if err, ok := c.errs[orderID]; ok {
		return midtrans.StatusResponse{}, err
	}
	return midtrans.StatusResponse{
		OrderID:           orderID,
		TransactionStatus: c.statuses[orderID],
	}, nil
}

func TestProcess_FixesGhostOrder(t *testing.T) {
	store := &fakeStore{
		stuck: []orders.Order{
			// webhook settlement hilang: DB masih PENDING padahal gateway sudah paid
			{ID: "SMI-GHOST", Status: orders.StatusPending},
		},
		applied: map[string]orders.Status{},
	}
	gw := &fakeChecker{statuses: map[string]string{"SMI-GHOST": "settlement"}}

	rw := &Reconciler{Store: store, Gateway: gw, Threshold: time.Minute, Log: zap.NewNop()}
	require.NoError(t, rw.process(context.Background()))

	assert.Equal(t, orders.StatusPaid, store.applied["SMI-GHOST"])
}

func TestProcess_ExpiredOrderFails(t *testing.T) {
	store := &fakeStore{
		stuck:   []orders.Order{{ID: "SMI-OLD", Status: orders.StatusWaiting}},
		applied: map[string]orders.Status{},
	}
	gw := &fakeChecker{statuses: map[string]string{"SMI-OLD": "expire"}}

	rw := &Reconciler{Store: store, Gateway: gw, Threshold: time.Minute, Log: zap.NewNop()}
	require.NoError(t, rw.process(context.Background()))

	assert.Equal(t, orders.StatusFailed, store.applied["SMI-OLD"])
}

func TestProcess_GatewayErrorSkipsOrder(t *testing.T) {
	store := &fakeStore{
		stuck: []orders.Order{
			{ID: "SMI-A", Status: orders.StatusPending},
			{ID: "SMI-B", Status: orders.StatusPending},
		},
		applied: map[string]orders.Status{},
	}
	gw := &fakeChecker{
		statuses: map[string]string{"SMI-B": "settlement"},
		errs:     map[string]error{"SMI-A": errors.New("timeout")},
	}

	rw := &Reconciler{Store: store, Gateway: gw, Threshold: time.Minute, Log: zap.NewNop()}
	require.NoError(t, rw.process(context.Background()))

	// SMI-A dilewati (dicoba lagi pass berikutnya), SMI-B tetap dibereskan
	_, touched := store.applied["SMI-A"]
	assert.False(t, touched)
	assert.Equal(t, orders.StatusPaid, store.applied["SMI-B"])
}

func TestProcess_SameStatusIsNoOp(t *testing.T) {
	store := &fakeStore{
		stuck:   []orders.Order{{ID: "SMI-W", Status: orders.StatusWaiting}},
		applied: map[string]orders.Status{},
	}
	gw := &fakeChecker{statuses: map[string]string{"SMI-W": "pending"}}

	rw := &Reconciler{Store: store, Gateway: gw, Threshold: time.Minute, Log: zap.NewNop()}
	require.NoError(t, rw.process(context.Background()))
	assert.Empty(t, store.applied)
}
