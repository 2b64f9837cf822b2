package auth

import (
	"context"
	"sync"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// AuthUseCase casos de uso de autenticación: login y perfil.
type AuthUseCase struct {
	accounts repository.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	log      *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(accounts repository.AccountRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{accounts: accounts, hasher: hasher, tokens: tokens, log: log.Named("auth")}
}

// Login verifica email/password y emite el token. Email desconocido y password incorrecto
// devuelven el mismo ErrInvalidCredentials; el bloqueo por pago solo aplica tras validar el password.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	account, err := uc.accounts.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		// Mismo costo que una comparación real.
		uc.hasher.Compare(uc.dummy(), in.Password)
		uc.log.Info().Str("email", logger.MaskEmail(in.Email)).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Compare(account.PasswordHash, in.Password) {
		uc.log.Info().Str("email", logger.MaskEmail(in.Email)).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if account.RequiresPayment() {
		uc.log.Warn().Str("account_id", account.ID).Msg("cuenta mayorista con pago pendiente")
		return nil, domain.ErrPaymentRequired
	}
	token, err := uc.tokens.IssueToken(account)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", account.ID).Msg("login correcto")
	return &dto.LoginResponse{
		Account: *dto.ToAccountResponse(account),
		Token:   token,
	}, nil
}

// Me retorna el perfil de la cuenta autenticada.
func (uc *AuthUseCase) Me(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	account, err := uc.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToAccountResponse(account), nil
}

func (uc *AuthUseCase) dummy() string {
	uc.dummyOnce.Do(func() {
		h, err := uc.hasher.Hash("cuentas-api-dummy-password")
		if err == nil {
			uc.dummyHash = h
		}
	})
	return uc.dummyHash
}
