package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cuentas-api/internal/application/billing"
	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/memory"
)

func setup(t *testing.T) (*billing.PaymentUseCase, *memory.Store, *entity.Account) {
	t.Helper()
	store := memory.NewStore()
	acc := &entity.Account{Email: "m@x.com", Role: entity.RoleWholesale, PaymentStatus: entity.PaymentPending}
	require.NoError(t, store.Accounts().Create(context.Background(), acc))
	uc := billing.NewPaymentUseCase(store.Accounts(), memory.NewTxRunner(store), decimal.RequireFromString("100.00"), nil)
	return uc, store, acc
}

func TestRecordPayment_CubreCuota(t *testing.T) {
	uc, store, acc := setup(t)
	ctx := context.Background()

	resp, err := uc.RecordPayment(ctx, dto.PaymentRequest{Email: "m@x.com", Amount: decimal.RequireFromString("100"), Reference: "TX-1"})
	require.NoError(t, err)
	assert.Equal(t, "CLEARED", resp.PaymentStatus)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("100.00")))

	got, err := store.Accounts().FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCleared, got.PaymentStatus)
}

func TestRecordPayment_ParcialNoLibera(t *testing.T) {
	uc, store, acc := setup(t)
	ctx := context.Background()

	resp, err := uc.RecordPayment(ctx, dto.PaymentRequest{Email: "m@x.com", Amount: decimal.RequireFromString("40.50")})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.PaymentStatus)

	list, err := store.Payments().ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecordPayment_Errores(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.RecordPayment(ctx, dto.PaymentRequest{Email: "m@x.com", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.RecordPayment(ctx, dto.PaymentRequest{Email: "m@x.com", Amount: decimal.RequireFromString("-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.RecordPayment(ctx, dto.PaymentRequest{Email: "nadie@x.com", Amount: decimal.RequireFromString("10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
