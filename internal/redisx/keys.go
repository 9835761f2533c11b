package redisx

import "time"

const (
	// Cache status order: order_status:{order_id} -> {"order_id": ..., "status": ...}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Fast-path dedup notifikasi webhook: webhook:{order_id}:{transaction_status}
	// DB (payment_events) tetap jadi kebenaran; ini cuma shortcut.
	KeyWebhookSeen = "webhook:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLWebhook     = 48 * time.Hour
)
