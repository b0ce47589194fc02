package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/talentr-app/talentr/internal/pkg/env"
)

// Client initiates hosted checkout sessions with the payment provider.
// The provider authenticates requests with the same body-signature scheme
// it uses for webhooks, sent as headers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	merchantID string
	secret     string
}

// NewClient builds a provider client from the environment.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    env.GetEnv("PAYMENT_API_URL", "https://pay.grow-il.com/api"),
		merchantID: env.GetEnv("PAYMENT_MERCHANT_ID", ""),
		secret:     env.GetEnv("PAYMENT_WEBHOOK_SECRET", ""),
	}
}

// InitiationRequest is the outbound checkout creation body.
type InitiationRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	OrderID     string `json:"order_id"`
	Description string `json:"description,omitempty"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
	WebhookURL  string `json:"webhook_url"`
	// AdditionalData round-trips through the provider into the webhook.
	AdditionalData string `json:"additional_data"`
}

// InitiationResponse carries the hosted payment page URL.
type InitiationResponse struct {
	PaymentURL string `json:"payment_url"`
	OrderID    string `json:"order_id"`
}

// CreateCheckout opens a checkout session for a user buying a credit pack
// or a business subscription. A fresh order id is minted per attempt.
func (c *Client) CreateCheckout(userID uint, purchaseType, packLine string, amountMinor int64, currency string) (*InitiationResponse, error) {
	meta, err := json.Marshal(AdditionalData{
		UserID:   userID,
		Type:     purchaseType,
		PackLine: packLine,
	})
	if err != nil {
		return nil, err
	}

	base := env.GetEnv("APP_BASE_URL", "http://localhost:4000")
	req := InitiationRequest{
		Amount:         FormatAmountMinor(amountMinor),
		Currency:       currency,
		OrderID:        uuid.New().String(),
		SuccessURL:     base + "/payment/success",
		CancelURL:      base + "/payment/cancel",
		WebhookURL:     base + "/api/v1/payments/webhook",
		AdditionalData: string(meta),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("merchant", c.merchantID)
	httpReq.Header.Set("sign", Sign(body, c.secret))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var out InitiationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.OrderID == "" {
		out.OrderID = req.OrderID
	}
	return &out, nil
}
