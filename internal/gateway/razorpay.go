package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"leadflow/pkg/utils"
)

type RazorpayConfig struct {
	KeyID     string // e.g. rzp_live_xxxxx
	KeySecret string // shared secret, also signs settlement callbacks
	BaseURL   string // override for sandbox; defaults to the live API
	Currency  string // ISO 4217, defaults to INR
}

type razorpayGateway struct {
	cfg    RazorpayConfig
	client *http.Client
}

func NewRazorpayGateway(cfg RazorpayConfig) (PaymentGateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("missing Razorpay credentials")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}

	return &razorpayGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *razorpayGateway) KeyID() string {
	return g.cfg.KeyID
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, receipt string, notes map[string]string) (*Order, error) {
	payload, err := json.Marshal(orderRequest{
		Amount:   amountMinor,
		Currency: g.cfg.Currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", utils.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Razorpay order creation failed (%d): %s", resp.StatusCode, body)
		return nil, fmt.Errorf("%w: order creation returned %d", utils.ErrUpstream, resp.StatusCode)
	}

	var order orderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", utils.ErrUpstream, err)
	}

	return &Order{
		ID:          order.ID,
		AmountMinor: order.Amount,
		Currency:    order.Currency,
	}, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with the key
// secret and compares in constant time, per the gateway's checkout contract.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
