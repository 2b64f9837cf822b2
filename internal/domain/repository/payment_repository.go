package repository

import (
	"context"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// PaymentRepository puerto de persistencia de pagos de membresía.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByAccount(ctx context.Context, accountID string) ([]*entity.Payment, error)
}
