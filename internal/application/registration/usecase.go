package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Verifier subconjunto del motor de verificación que usa el registro.
type Verifier interface {
	Issue(ctx context.Context, email string) (string, error)
	IsVerified(ctx context.Context, email string) (bool, error)
}

const initiatedMessage = "Código de verificación enviado a su email."

// UseCase orquesta el registro en dos pasos: initiate (emite código) y finalize (crea la cuenta).
type UseCase struct {
	accounts repository.AccountRepository
	verifier Verifier
	hasher   ports.PasswordHasher
	events   ports.EventPublisher
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. events puede ser nil.
func NewUseCase(accounts repository.AccountRepository, verifier Verifier, hasher ports.PasswordHasher, events ports.EventPublisher, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		accounts: accounts,
		verifier: verifier,
		hasher:   hasher,
		events:   events,
		log:      log.Named("registration"),
		now:      time.Now,
	}
}

// Initiate emite un código para el email. Si la cuenta existe y el email ya está verificado
// retorna ErrAlreadyRegistered; una cuenta a medio registrar recibe un código nuevo.
func (uc *UseCase) Initiate(ctx context.Context, in dto.RegisterRequest) (*dto.InitiateRegistrationResponse, error) {
	if err := dto.ValidateFields(in, "Email", "Password"); err != nil {
		return nil, err
	}
	exists, err := uc.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		verified, err := uc.verifier.IsVerified(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if verified {
			return nil, domain.ErrAlreadyRegistered
		}
	}
	if _, err := uc.verifier.Issue(ctx, in.Email); err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", logger.MaskEmail(in.Email)).Bool("existing", exists).Msg("registro iniciado")
	return &dto.InitiateRegistrationResponse{Email: in.Email, Message: initiatedMessage}, nil
}

// SendCode reenvía un código. Para una cuenta ya registrada y verificada no emite nada
// (REGISTERED no vuelve a CODE_ISSUED) pero responde igual, sin revelar si el email existe.
func (uc *UseCase) SendCode(ctx context.Context, email string) error {
	if err := dto.Validate(dto.SendCodeRequest{Email: email}); err != nil {
		return err
	}
	exists, err := uc.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		verified, err := uc.verifier.IsVerified(ctx, email)
		if err != nil {
			return err
		}
		if verified {
			uc.log.Info().Str("email", logger.MaskEmail(email)).Msg("reenvío omitido: cuenta ya registrada")
			return nil
		}
	}
	_, err = uc.verifier.Issue(ctx, email)
	return err
}

// Finalize crea la cuenta cuando el email ya fue verificado.
func (uc *UseCase) Finalize(ctx context.Context, in dto.RegisterRequest) (*dto.AccountResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	exists, err := uc.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}
	verified, err := uc.verifier.IsVerified(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, domain.ErrNotVerified
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	now := uc.now().UTC()
	role := entity.Role(in.Role)
	account := &entity.Account{
		ID:            uuid.New().String(),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          role,
		PaymentStatus: entity.DefaultPaymentStatus(role),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		// La verificación previa no es segura ante carreras: el índice único decide.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}
	uc.log.Info().
		Str("account_id", account.ID).
		Str("email", logger.MaskEmail(account.Email)).
		Str("role", string(account.Role)).
		Msg("cuenta registrada")

	uc.publishRegistered(ctx, account)
	return dto.ToAccountResponse(account), nil
}

func (uc *UseCase) publishRegistered(ctx context.Context, a *entity.Account) {
	if uc.events == nil {
		return
	}
	evt := ports.AccountRegisteredEvent{
		AccountID:  a.ID,
		Email:      a.Email,
		Role:       string(a.Role),
		OccurredAt: a.CreatedAt,
	}
	if err := uc.events.PublishAccountRegistered(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Str("account_id", a.ID).Msg("no se pudo publicar AccountRegistered")
	}
}
