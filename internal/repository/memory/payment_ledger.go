package memory

import (
	"context"
	"time"

	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// PaymentLedger is the in-process ledger used when no Redis is configured.
// Records live for 30 days, long enough for any redirect to come back.
type PaymentLedger struct {
	cache *cache.Cache
}

var _ contract.PaymentLedgerRepository = &PaymentLedger{}

func NewPaymentLedger() *PaymentLedger {
	return &PaymentLedger{
		cache: cache.New(30*24*time.Hour, time.Hour),
	}
}

func (l *PaymentLedger) Save(_ context.Context, record *entity.PaymentRecord) error {
	stored := *record
	l.cache.Set(record.OrderId, &stored, cache.DefaultExpiration)
	return nil
}

func (l *PaymentLedger) FindByOrderId(_ context.Context, orderId string) (*entity.PaymentRecord, error) {
	if x, found := l.cache.Get(orderId); found {
		record := *x.(*entity.PaymentRecord)
		return &record, nil
	}
	return nil, nil
}
