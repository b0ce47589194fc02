package payments

import "encoding/json"

// WebhookPayload is the provider's inbound webhook body.
type WebhookPayload struct {
	Status         string `json:"status"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	OrderID        string `json:"order_id"`
	AdditionalData string `json:"additional_data"`
}

// AdditionalData is the JSON-encoded metadata string inside the webhook.
type AdditionalData struct {
	UserID   uint   `json:"userId"`
	Type     string `json:"type"`
	PackLine string `json:"packLine"`
}

// ParseWebhookPayload decodes the raw webhook body and its nested metadata.
func ParseWebhookPayload(raw []byte) (*WebhookPayload, *AdditionalData, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, err
	}

	var meta AdditionalData
	if payload.AdditionalData != "" {
		if err := json.Unmarshal([]byte(payload.AdditionalData), &meta); err != nil {
			return &payload, nil, err
		}
	}
	return &payload, &meta, nil
}
