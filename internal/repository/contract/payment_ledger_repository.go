package contract

import (
	"context"

	"resume-roaster-be/internal/entity"
)

// PaymentLedgerRepository keeps processor-confirmed payment state keyed by order id.
type PaymentLedgerRepository interface {
	Save(ctx context.Context, record *entity.PaymentRecord) error
	FindByOrderId(ctx context.Context, orderId string) (*entity.PaymentRecord, error)
}
