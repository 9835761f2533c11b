package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	sandboxAppBaseURL    = "https://app.sandbox.midtrans.com"
	productionAppBaseURL = "https://app.midtrans.com"
	sandboxAPIBaseURL    = "https://api.sandbox.midtrans.com"
	productionAPIBaseURL = "https://api.midtrans.com"
)

// ErrNotConfigured: server key kosong. Error konfigurasi per-request
// (500), bukan alasan mematikan proses.
var ErrNotConfigured = errors.New("midtrans server key is not configured")

// GatewayError: respons non-2xx dari gateway. Detailnya untuk log server,
// jangan diteruskan ke client.
type GatewayError struct {
	StatusCode int
	Messages   []string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("midtrans: status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
}

type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// StatusResponse: jawaban endpoint /v2/{order_id}/status. gross_amount
// berupa string (format gateway, mis. "50000.00").
type StatusResponse struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	SignatureKey      string `json:"signature_key"`
}

type Client struct {
	ServerKey  string
	AppBaseURL string // Snap (token issuance)
	APIBaseURL string // core API (status check)
	HTTPClient *http.Client
}

func New(serverKey string, production bool) *Client {
	app, api := sandboxAppBaseURL, sandboxAPIBaseURL
	if production {
		app, api = productionAppBaseURL, productionAPIBaseURL
	}
	return &Client{
		ServerKey:  serverKey,
		AppBaseURL: app,
		APIBaseURL: api,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateTransaction mendaftarkan transaksi ke Snap dan mengembalikan token
// + redirect URL yang aman dibagikan ke client. Server key cuma hidup di
// header Authorization request ini.
func (c *Client) CreateTransaction(ctx context.Context, req SnapRequest) (SnapResponse, error) {
	var out SnapResponse
	if c.ServerKey == "" {
		return out, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return out, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.AppBaseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.ServerKey, "")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("midtrans: snap request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, readGatewayError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("midtrans: decode snap response: %w", err)
	}
	return out, nil
}

// TransactionStatus menanyakan status transaksi ke core API. Dipakai
// reconciliation worker; source of truth tetap gateway.
func (c *Client) TransactionStatus(ctx context.Context, orderID string) (StatusResponse, error) {
	var out StatusResponse
	if c.ServerKey == "" {
		return out, ErrNotConfigured
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.APIBaseURL+"/v2/"+orderID+"/status", nil)
	if err != nil {
		return out, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.ServerKey, "")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("midtrans: status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, readGatewayError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("midtrans: decode status response: %w", err)
	}
	return out, nil
}

func readGatewayError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		ErrorMessages []string `json:"error_messages"`
		StatusMessage string   `json:"status_message"`
	}
	_ = json.Unmarshal(b, &e)
	msgs := e.ErrorMessages
	if len(msgs) == 0 && e.StatusMessage != "" {
		msgs = []string{e.StatusMessage}
	}
	return &GatewayError{StatusCode: resp.StatusCode, Messages: msgs}
}
