package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const ledgerKeyPrefix = "roaster:payment:order:"

// PaymentLedger shares confirmed payments between instances through Redis.
type PaymentLedger struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ contract.PaymentLedgerRepository = &PaymentLedger{}

func NewPaymentLedger(rdb redis.UniversalClient, ttl time.Duration) *PaymentLedger {
	return &PaymentLedger{rdb: rdb, ttl: ttl}
}

func (l *PaymentLedger) Save(ctx context.Context, record *entity.PaymentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal payment record: %w", err)
	}
	if err := l.rdb.Set(ctx, ledgerKeyPrefix+record.OrderId, data, l.ttl).Err(); err != nil {
		return fmt.Errorf("save payment record: %w", err)
	}
	return nil
}

func (l *PaymentLedger) FindByOrderId(ctx context.Context, orderId string) (*entity.PaymentRecord, error) {
	data, err := l.rdb.Get(ctx, ledgerKeyPrefix+orderId).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load payment record: %w", err)
	}

	var record entity.PaymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal payment record: %w", err)
	}
	return &record, nil
}
