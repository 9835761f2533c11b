package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sekolahmentor/smi-payment-api/internal/catalog"
	kafkax "github.com/sekolahmentor/smi-payment-api/internal/kafka"
	"github.com/sekolahmentor/smi-payment-api/internal/midtrans"
	"github.com/sekolahmentor/smi-payment-api/internal/orders"
)

// Interface kecil-kecil di sisi consumer supaya handler gampang di-test
// tanpa Postgres/Redis/Kafka beneran.

type OrderStore interface {
	Create(ctx context.Context, o *orders.Order, items []orders.Item) error
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	ApplyStatus(ctx context.Context, orderID string, next orders.Status) (orders.TransitionResult, error)
	MarkEventProcessed(ctx context.Context, notificationKey string) (bool, error)
}

type Catalog interface {
	List(ctx context.Context) ([]catalog.Product, error)
	PriceMap(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

type Gateway interface {
	CreateTransaction(ctx context.Context, req midtrans.SnapRequest) (midtrans.SnapResponse, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type StatusCache interface {
	GetOrderStatus(ctx context.Context, orderID string) (string, error)
	SetOrderStatus(ctx context.Context, orderID string, payload []byte) error
	SeenWebhook(ctx context.Context, orderID, transactionStatus string) (bool, error)
}

type PaymentHandler struct {
	Store   OrderStore
	Catalog Catalog
	Gateway Gateway
	Cache   StatusCache

	// Satu producer per topic (tiap Producer terikat ke satu topic Kafka).
	CreatedProducer Publisher
	StatusProducer  Publisher

	// ServerKey dipakai verifikasi signature webhook. Kosong = error
	// konfigurasi per-request (500), bukan fatal process.
	ServerKey    string
	MaxCartItems int
	Service      string
	Log          *zap.Logger
}

type TokenItemReq struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	// Name & Price boleh ikut terkirim dari client tapi tidak pernah
	// dipercaya; harga selalu di-resolve ulang dari katalog server.
	Name  string `json:"name,omitempty"`
	Price int64  `json:"price,omitempty"`
}

type TokenReq struct {
	CustomerDetails orders.Customer `json:"customerDetails"`
	ItemDetails     []TokenItemReq  `json:"itemDetails"`
}

type TokenResp struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type WebhookReq struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	SignatureKey      string `json:"signature_key"`
}

type OrderStatusResp struct {
	OrderID     string        `json:"order_id"`
	Status      orders.Status `json:"status"`
	GrossAmount int64         `json:"gross_amount"`
}

func (h *PaymentHandler) Register(r *chi.Mux) {
	r.Post("/api/payment/token", h.createToken)
	r.Post("/api/payment/webhook", h.handleWebhook)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Get("/api/products", h.listProducts)
}

func (h *PaymentHandler) createToken(w http.ResponseWriter, r *http.Request) {
	var req TokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.CustomerDetails.Name) == "" ||
		!strings.Contains(req.CustomerDetails.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer name and a valid email are required"})
		return
	}

	cart := make([]orders.CartItem, 0, len(req.ItemDetails))
	ids := make([]string, 0, len(req.ItemDetails))
	for _, it := range req.ItemDetails {
		cart = append(cart, orders.CartItem{ProductID: it.ID, Qty: it.Quantity})
		ids = append(ids, it.ID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prices := map[string]catalog.Product{}
	if len(ids) > 0 {
		var err error
		prices, err = h.Catalog.PriceMap(ctx, ids)
		if err != nil {
			h.Log.Error("price lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
	}

	order, items, err := orders.Build(req.CustomerDetails, cart, prices, h.MaxCartItems)
	if err != nil {
		// validation error: pesan spesifik supaya client benar bisa koreksi
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.Store.Create(ctx, order, items); err != nil {
		h.Log.Error("order insert failed", zap.String("order_id", order.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	snapReq := midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     order.ID,
			GrossAmount: order.GrossAmount,
		},
		CustomerDetails: midtrans.CustomerDetails{
			FirstName: order.Customer.Name,
			Email:     order.Customer.Email,
			Phone:     order.Customer.Phone,
		},
	}
	for _, it := range items {
		snapReq.ItemDetails = append(snapReq.ItemDetails, midtrans.ItemDetail{
			ID:       it.ProductID,
			Price:    it.Price,
			Quantity: it.Qty,
			Name:     it.Name,
		})
	}

	snap, err := h.Gateway.CreateTransaction(ctx, snapReq)
	if err != nil {
		// detail gateway cuma buat log; client dapat pesan generik
		if errors.Is(err, midtrans.ErrNotConfigured) {
			h.Log.Error("midtrans is not configured", zap.String("order_id", order.ID))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "payment is not configured"})
			return
		}
		h.Log.Error("snap transaction failed", zap.String("order_id", order.ID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "payment gateway error"})
		return
	}

	h.cacheStatus(ctx, order.ID, order.Status, order.GrossAmount)
	h.publishOrderCreated(r, order, items)

	writeJSON(w, http.StatusCreated, TokenResp{
		Token:       snap.Token,
		RedirectURL: snap.RedirectURL,
		OrderID:     order.ID,
		GrossAmount: order.GrossAmount,
	})
}

func (h *PaymentHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	if req.OrderID == "" || req.StatusCode == "" || req.GrossAmount == "" ||
		req.TransactionStatus == "" || req.SignatureKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing fields"})
		return
	}

	if h.ServerKey == "" {
		h.Log.Error("webhook received but server key is not configured", zap.String("order_id", req.OrderID))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
		return
	}

	if !midtrans.ValidSignature(req.OrderID, req.StatusCode, req.GrossAmount, h.ServerKey, req.SignatureKey) {
		// audit trail wajib: mismatch bisa berarti percobaan forgery
		h.Log.Warn("webhook signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("transaction_status", req.TransactionStatus))
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "invalid signature"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	next, known := orders.FromTransactionStatus(req.TransactionStatus)
	if !known {
		// vocabulary baru dari gateway: ack saja, jangan ubah state
		h.Log.Warn("unknown transaction_status, ignoring",
			zap.String("order_id", req.OrderID),
			zap.String("transaction_status", req.TransactionStatus))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	order, err := h.Store.Get(ctx, req.OrderID)
	if errors.Is(err, orders.ErrNotFound) {
		h.Log.Warn("webhook for unknown order", zap.String("order_id", req.OrderID))
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "order not found"})
		return
	}
	if err != nil {
		h.Log.Error("order lookup failed", zap.String("order_id", req.OrderID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
		return
	}

	// cross-check jumlah: signature sudah mengikat gross_amount, tapi nilai
	// itu juga harus cocok dengan order yang kita simpan
	if parseAmount(req.GrossAmount) != order.GrossAmount {
		h.Log.Warn("webhook gross_amount mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("webhook_amount", req.GrossAmount),
			zap.Int64("order_amount", order.GrossAmount))
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "amount mismatch"})
		return
	}

	// fast-path dedup di Redis; best-effort, DB tetap kebenaran
	if seen, err := h.Cache.SeenWebhook(ctx, req.OrderID, req.TransactionStatus); err == nil && seen {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	first, err := h.Store.MarkEventProcessed(ctx, req.OrderID+":"+req.TransactionStatus)
	if err != nil {
		h.Log.Error("idempotency record failed", zap.String("order_id", req.OrderID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
		return
	}
	if !first {
		// redelivery: sudah pernah diproses, jangan double-apply
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	res, err := h.Store.ApplyStatus(ctx, req.OrderID, next)
	if err != nil {
		h.Log.Error("status transition failed", zap.String("order_id", req.OrderID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
		return
	}

	switch res {
	case orders.TransitionApplied:
		h.Log.Info("order status updated",
			zap.String("order_id", req.OrderID),
			zap.String("status", string(next)),
			zap.String("transaction_status", req.TransactionStatus))
		h.cacheStatus(ctx, req.OrderID, next, order.GrossAmount)
		h.publishStatusChanged(r, req.OrderID, next, req.TransactionStatus, order.GrossAmount)
	case orders.TransitionSuperseded:
		h.Log.Warn("status transition superseded by current state",
			zap.String("order_id", req.OrderID),
			zap.String("current", string(order.Status)),
			zap.String("incoming", string(next)))
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	if s, err := h.Cache.GetOrderStatus(ctx, orderID); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	// 2) fallback DB
	order, err := h.Store.Get(ctx, orderID)
	if errors.Is(err, orders.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if err != nil {
		h.Log.Error("order lookup failed", zap.String("order_id", orderID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.cacheStatus(ctx, order.ID, order.Status, order.GrossAmount)
	writeJSON(w, http.StatusOK, OrderStatusResp{
		OrderID:     order.ID,
		Status:      order.Status,
		GrossAmount: order.GrossAmount,
	})
}

func (h *PaymentHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx)
	if err != nil {
		h.Log.Error("product list failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *PaymentHandler) cacheStatus(ctx context.Context, orderID string, status orders.Status, gross int64) {
	b, _ := json.Marshal(OrderStatusResp{OrderID: orderID, Status: status, GrossAmount: gross})
	_ = h.Cache.SetOrderStatus(ctx, orderID, b)
}

func (h *PaymentHandler) publishOrderCreated(r *http.Request, order *orders.Order, items []orders.Item) {
	evItems := make([]orders.ItemPrice, 0, len(items))
	for _, it := range items {
		evItems = append(evItems, orders.ItemPrice{ProductID: it.ProductID, Qty: it.Qty, Price: it.Price})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: order.ID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:     order.ID,
			Email:       order.Customer.Email,
			Items:       evItems,
			GrossAmount: order.GrossAmount,
		}),
	}
	h.CreatedProducer.Publish(orders.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *PaymentHandler) publishStatusChanged(r *http.Request, orderID string, status orders.Status, transactionStatus string, gross int64) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventPaymentStatus,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.PaymentStatusPayload{
			OrderID:           orderID,
			OrderStatus:       status,
			TransactionStatus: transactionStatus,
			GrossAmount:       gross,
		}),
	}
	h.StatusProducer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventPaymentStatus)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// parseAmount: gateway kirim gross_amount sebagai string, kadang "50000"
// kadang "50000.00". Dibanding sebagai rupiah bulat.
func parseAmount(s string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return -1
	}
	return int64(math.Round(f))
}
