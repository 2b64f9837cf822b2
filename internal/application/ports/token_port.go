package ports

import "github.com/jhoicas/cuentas-api/internal/domain/entity"

// TokenIssuer emite el token de sesión opaco para una cuenta autenticada.
type TokenIssuer interface {
	IssueToken(account *entity.Account) (string, error)
}

// TokenParser valida un token de sesión y devuelve el ID de la cuenta.
type TokenParser interface {
	ParseToken(token string) (accountID string, err error)
}

// TokenService emite y valida tokens.
type TokenService interface {
	TokenIssuer
	TokenParser
}

// PasswordHasher hash irreversible con sal.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
