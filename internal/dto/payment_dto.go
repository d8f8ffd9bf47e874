// FILE: internal/dto/payment_dto.go
package dto

type CheckoutResponse struct {
	OrderId         string `json:"order_id"`
	SnapToken       string `json:"snap_token"`
	SnapRedirectUrl string `json:"snap_redirect_url"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status" validate:"required"`
	OrderId           string `json:"order_id" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key" validate:"required"`
	StatusCode   string `json:"status_code" validate:"required"`
	GrossAmount  string `json:"gross_amount" validate:"required"`
}

// PaymentEventMessage travels over the in-process payment topic.
type PaymentEventMessage struct {
	Type          string `json:"type"`
	CorrelationId string `json:"correlation_id"`
	OrderId       string `json:"order_id"`
	GrossAmount   string `json:"gross_amount"`
}
