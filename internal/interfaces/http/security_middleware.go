package http

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/ports"
)

// LocalAccountID clave en c.Locals para el ID de la cuenta autenticada.
const LocalAccountID = "account_id"

// PublicPrefixes rutas que no requieren Bearer token. Billing usa su propia clave.
var PublicPrefixes = []string{
	"/health",
	"/metrics",
	"/docs",
	"/api/v1/auth/",
	"/api/v1/verification/",
	"/api/v1/billing/",
}

// IsPublic indica si la ruta coincide con algún prefijo de la lista.
func IsPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SecurityMiddleware deja pasar las rutas públicas y exige Bearer token en el resto.
func SecurityMiddleware(tokens ports.TokenParser, public []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || IsPublic(c.Path(), public) {
			return c.Next()
		}
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		accountID, err := tokens.ParseToken(tokenString)
		if err != nil || accountID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalAccountID, accountID)
		return c.Next()
	}
}

// GetAccountID devuelve el ID de la cuenta (después de SecurityMiddleware).
func GetAccountID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAccountID).(string)
	return s
}

// BillingKeyHeader cabecera con el secreto compartido del colaborador de facturación.
const BillingKeyHeader = "X-Billing-Key"

// RequireBillingKey compara en tiempo constante. Secreto vacío deshabilita la ruta.
func RequireBillingKey(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ruta no disponible"})
		}
		got := c.Get(BillingKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "clave de facturación inválida"})
		}
		return c.Next()
	}
}
