package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated  = "OrderCreated"
	EventPaymentStatus = "PaymentStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "smi-payment-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type ItemPrice struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID     string      `json:"order_id"`
	Email       string      `json:"email"`
	Items       []ItemPrice `json:"items"`
	GrossAmount int64       `json:"gross_amount"`
}

type PaymentStatusPayload struct {
	OrderID           string `json:"order_id"`
	OrderStatus       Status `json:"order_status"`
	TransactionStatus string `json:"transaction_status"`
	GrossAmount       int64  `json:"gross_amount"`
}
