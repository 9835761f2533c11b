package notify

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/sekolahmentor/smi-payment-api/internal/kafka"
	"github.com/sekolahmentor/smi-payment-api/internal/orders"
	"github.com/sekolahmentor/smi-payment-api/internal/redisx"
)

// Service mendengarkan event payment.status dan antre kuitansi untuk
// status terminal. Channel pengiriman (email/WA) eksternal; di sini cuma
// sampai record notifikasi yang durable.
type Service struct {
	Repo        *Repo
	Cache       *redisx.Cache
	ServiceName string
	Log         *zap.Logger
}

// HandlePaymentStatus dipasang sebagai handler consumer.
func (s *Service) HandlePaymentStatus(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventPaymentStatus {
		return nil // ignore
	}

	// dedup via Redis (pakai event_id)
	if seen, err := s.Cache.SeenEvent(ctx, s.ServiceName, env.EventID); err == nil && seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.PaymentStatusPayload](env.Payload)
	if err != nil {
		return err
	}

	// kuitansi hanya untuk status terminal
	if p.OrderStatus != orders.StatusPaid && p.OrderStatus != orders.StatusFailed {
		return nil
	}

	if err := s.Repo.Record(ctx, p.OrderID, string(p.OrderStatus)); err != nil {
		return err
	}
	s.Log.Info("receipt queued",
		zap.String("order_id", p.OrderID),
		zap.String("status", string(p.OrderStatus)))
	return nil
}
