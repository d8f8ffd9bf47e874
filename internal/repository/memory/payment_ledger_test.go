package memory

import (
	"context"
	"testing"
	"time"

	"resume-roaster-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentLedgerSaveAndFind(t *testing.T) {
	ledger := NewPaymentLedger()
	ctx := context.Background()

	missing, err := ledger.FindByOrderId(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record := &entity.PaymentRecord{CorrelationId: "a1b2c3d4e5f6", OrderId: "a1b2c3d4e5f6-1234abcd", Status: entity.PaymentStatusPaid, UpdatedAt: time.Now()}
	require.NoError(t, ledger.Save(ctx, record))

	// mutating the caller's copy must not leak into the ledger
	record.Status = entity.PaymentStatusFailed

	found, err := ledger.FindByOrderId(ctx, "a1b2c3d4e5f6-1234abcd")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.PaymentStatusPaid, found.Status)
	assert.Equal(t, "a1b2c3d4e5f6", found.CorrelationId)

	// records are per order, not per document
	other, err := ledger.FindByOrderId(ctx, "a1b2c3d4e5f6-99999999")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	s := entity.NewSession()

	repo.Save(s)
	got, ok := repo.Get(s.Id.String())
	require.True(t, ok)
	assert.Same(t, s, got)

	repo.Delete(s.Id.String())
	_, ok = repo.Get(s.Id.String())
	assert.False(t, ok)
}
