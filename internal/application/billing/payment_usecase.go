package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// PaymentUseCase registra pagos de membresía y libera cuentas mayoristas.
type PaymentUseCase struct {
	accounts     repository.AccountRepository
	txRunner     BillingTxRunner
	wholesaleFee decimal.Decimal
	log          *logger.Logger
	now          func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(accounts repository.AccountRepository, txRunner BillingTxRunner, wholesaleFee decimal.Decimal, log *logger.Logger) *PaymentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{
		accounts:     accounts,
		txRunner:     txRunner,
		wholesaleFee: wholesaleFee,
		log:          log.Named("billing"),
		now:          time.Now,
	}
}

// RecordPayment persiste el pago y, si cubre la cuota, marca la cuenta como CLEARED (misma tx).
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount debe ser mayor que cero", domain.ErrValidation)
	}
	account, err := uc.accounts.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	payment := &entity.Payment{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Amount:    in.Amount.Round(2),
		Reference: strings.TrimSpace(in.Reference),
		CreatedAt: uc.now().UTC(),
	}
	status := account.PaymentStatus
	err = uc.txRunner.RunBilling(ctx, func(accounts repository.AccountRepository, payments repository.PaymentRepository) error {
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		if status != entity.PaymentCleared && payment.Amount.GreaterThanOrEqual(uc.wholesaleFee) {
			if err := accounts.UpdatePaymentStatus(ctx, account.ID, entity.PaymentCleared); err != nil {
				return err
			}
			status = entity.PaymentCleared
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("account_id", account.ID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("payment_status", string(status)).
		Msg("pago registrado")

	return &dto.PaymentResponse{
		ID:            payment.ID,
		AccountID:     payment.AccountID,
		Amount:        payment.Amount,
		Reference:     payment.Reference,
		PaymentStatus: string(status),
		CreatedAt:     payment.CreatedAt,
	}, nil
}
