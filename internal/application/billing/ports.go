package billing

import (
	"context"

	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de cuentas y pagos.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		payments repository.PaymentRepository,
	) error) error
}
