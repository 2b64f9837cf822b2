package verification

import (
	"context"

	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de códigos atado a esa tx.
// Si fn retorna error se hace Rollback.
type TxRunner interface {
	RunVerification(ctx context.Context, fn func(codes repository.VerificationCodeRepository) error) error
}
