package repository

import (
	"context"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// VerificationCodeRepository puerto de persistencia de códigos de verificación.
type VerificationCodeRepository interface {
	// LockEmail serializa las operaciones compuestas sobre un email dentro de la transacción actual.
	LockEmail(ctx context.Context, email string) error
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	// Create asigna ID y CreatedAt.
	Create(ctx context.Context, code *entity.VerificationCode) error
	FindByEmailAndCode(ctx context.Context, email, code string) (*entity.VerificationCode, error)
	// FindLatestByEmail ordena por created_at DESC, id DESC.
	FindLatestByEmail(ctx context.Context, email string) (*entity.VerificationCode, error)
	// MarkConsumed solo marca filas no consumidas; false si otra llamada ganó.
	MarkConsumed(ctx context.Context, id int64) (bool, error)
}
