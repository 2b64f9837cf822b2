package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cuentas-api/internal/application/billing"
	"github.com/jhoicas/cuentas-api/internal/application/verification"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var (
	_ verification.TxRunner   = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
)

// TxBeginner *pgxpool.Pool o pgxmock.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool TxBeginner) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunVerification tx con el repositorio de códigos (issue: lock + delete + insert).
func (r *TxRunner) RunVerification(ctx context.Context, fn func(codes repository.VerificationCodeRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewVerificationCodeRepository(tx))
	})
}

// RunBilling tx con cuentas y pagos (registrar pago + liberar cuenta).
func (r *TxRunner) RunBilling(ctx context.Context, fn func(accounts repository.AccountRepository, payments repository.PaymentRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewAccountRepository(tx), NewPaymentRepository(tx))
	})
}
