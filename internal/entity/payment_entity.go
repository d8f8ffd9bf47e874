// FILE: internal/entity/payment_entity.go
package entity

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentRecord is the processor-confirmed state for one checkout order.
type PaymentRecord struct {
	CorrelationId string        `json:"correlation_id"`
	OrderId       string        `json:"order_id"`
	Status        PaymentStatus `json:"status"`
	GrossAmount   string        `json:"gross_amount"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
