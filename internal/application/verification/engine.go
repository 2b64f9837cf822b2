package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Config parámetros del motor de verificación.
type Config struct {
	CodeLength int
	Expiration time.Duration
}

// Engine emite, verifica y consulta códigos de verificación por email.
type Engine struct {
	codes    repository.VerificationCodeRepository
	tx       TxRunner
	notifier ports.Notifier
	log      *logger.Logger

	codeLength int
	expiration time.Duration

	now      func() time.Time
	generate func(length int) (string, error)
}

// NewEngine construye el motor. codes se usa para lecturas fuera de transacción.
func NewEngine(codes repository.VerificationCodeRepository, tx TxRunner, notifier ports.Notifier, cfg Config, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		codes:      codes,
		tx:         tx,
		notifier:   notifier,
		log:        log.Named("verification"),
		codeLength: cfg.CodeLength,
		expiration: cfg.Expiration,
		now:        time.Now,
		generate:   GenerateNumericCode,
	}
}

// WithClock reemplaza el reloj (tests).
func (e *Engine) WithClock(clock func() time.Time) {
	if clock != nil {
		e.now = clock
	}
}

// WithCodeGenerator reemplaza el generador de códigos (tests).
func (e *Engine) WithCodeGenerator(gen func(length int) (string, error)) {
	if gen != nil {
		e.generate = gen
	}
}

// Issue reemplaza cualquier código previo del email por uno nuevo y solicita su entrega.
// La entrega es asíncrona: un fallo de envío nunca llega al llamador.
func (e *Engine) Issue(ctx context.Context, email string) (string, error) {
	code, err := e.generate(e.codeLength)
	if err != nil {
		return "", err
	}
	now := e.now()
	record := &entity.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(e.expiration),
		CreatedAt: now,
	}

	err = e.tx.RunVerification(ctx, func(codes repository.VerificationCodeRepository) error {
		if err := codes.LockEmail(ctx, email); err != nil {
			return err
		}
		if n, err := codes.DeleteByEmail(ctx, email); err != nil {
			e.log.Warn().Err(err).Str("email", logger.MaskEmail(email)).Msg("no se pudieron borrar códigos previos")
		} else if n > 0 {
			e.log.Debug().Int64("deleted", n).Str("email", logger.MaskEmail(email)).Msg("códigos previos reemplazados")
		}
		return codes.Create(ctx, record)
	})
	if err != nil {
		return "", fmt.Errorf("emitir código: %w", err)
	}

	e.log.Info().
		Str("email", logger.MaskEmail(email)).
		Str("code", logger.MaskCode(code)).
		Time("expires_at", record.ExpiresAt).
		Msg("código de verificación emitido")

	e.notifier.Dispatch(ctx, ports.Notification{To: email, Code: code, Expiration: e.expiration})
	return code, nil
}

// Verify consume el código si coincide con el email y sigue vigente.
// Código inexistente, expirado o ya consumido retornan false sin error.
func (e *Engine) Verify(ctx context.Context, email, code string) (bool, error) {
	record, err := e.codes.FindByEmailAndCode(ctx, email, code)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	if !record.IsValid(e.now()) {
		e.log.Debug().
			Str("email", logger.MaskEmail(email)).
			Bool("consumed", record.Consumed).
			Bool("expired", record.IsExpired(e.now())).
			Msg("código no vigente")
		return false, nil
	}
	ok, err := e.codes.MarkConsumed(ctx, record.ID)
	if err != nil {
		return false, err
	}
	if ok {
		e.log.Info().Str("email", logger.MaskEmail(email)).Msg("email verificado")
	}
	return ok, nil
}

// IsVerified refleja solo el código más reciente del email.
func (e *Engine) IsVerified(ctx context.Context, email string) (bool, error) {
	latest, err := e.codes.FindLatestByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return latest != nil && latest.Consumed, nil
}
