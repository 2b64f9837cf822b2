package security

import (
	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

var (
	_ ports.TokenIssuer  = (*JWTIssuer)(nil)
	_ ports.TokenParser  = (*JWTIssuer)(nil)
	_ ports.TokenService = PlaceholderIssuer{}
)

// JWTIssuer emite y valida tokens HS256.
type JWTIssuer struct {
	cfg JWTConfig
}

func NewJWTIssuer(cfg JWTConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

func (i *JWTIssuer) IssueToken(a *entity.Account) (string, error) {
	return jwt.Generate(i.cfg.Secret, a.ID, a.Email, string(a.Role), i.cfg.Issuer, i.cfg.ExpMinutes)
}

func (i *JWTIssuer) ParseToken(token string) (string, error) {
	accountID, _, _, err := jwt.Parse(i.cfg.Secret, token)
	return accountID, err
}

// PlaceholderIssuer token no firmado para entornos sin JWT_SECRET. Solo emite;
// las rutas con Bearer quedan cerradas.
type PlaceholderIssuer struct{}

const placeholderPrefix = "simulated-jwt-token-"

func (PlaceholderIssuer) IssueToken(a *entity.Account) (string, error) {
	return placeholderPrefix + a.ID, nil
}

// ParseToken siempre rechaza: sin secreto no hay forma de validar un token.
func (PlaceholderIssuer) ParseToken(string) (string, error) {
	return "", domain.ErrUnauthorized
}

// NewTokenIssuer elige JWT cuando hay secreto y el simulado en caso contrario.
func NewTokenIssuer(cfg JWTConfig) ports.TokenService {
	if cfg.Secret == "" {
		return PlaceholderIssuer{}
	}
	return NewJWTIssuer(cfg)
}
