package repository

import (
	"context"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
type AccountRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByEmail retorna nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	// Create asigna ID si viene vacío. Email repetido -> domain.ErrDuplicate.
	Create(ctx context.Context, account *entity.Account) error
	UpdatePaymentStatus(ctx context.Context, id string, status entity.PaymentStatus) error
}
