package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

type errorCase struct {
	target error
	status int
	code   string
	// withDetail expone err.Error() (solo errores de validación).
	withDetail bool
}

// errorCases se evalúa en orden; lo que no coincide es 500 con mensaje genérico.
var errorCases = []errorCase{
	{target: domain.ErrValidation, status: fiber.StatusBadRequest, code: "VALIDATION", withDetail: true},
	{target: domain.ErrAlreadyRegistered, status: fiber.StatusConflict, code: "ALREADY_REGISTERED"},
	{target: domain.ErrDuplicate, status: fiber.StatusConflict, code: "ALREADY_REGISTERED"},
	{target: domain.ErrNotVerified, status: fiber.StatusForbidden, code: "EMAIL_NOT_VERIFIED"},
	{target: domain.ErrInvalidCode, status: fiber.StatusBadRequest, code: "INVALID_CODE"},
	{target: domain.ErrInvalidCredentials, status: fiber.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
	{target: domain.ErrPaymentRequired, status: fiber.StatusPaymentRequired, code: "PAYMENT_REQUIRED"},
	{target: domain.ErrUnauthorized, status: fiber.StatusUnauthorized, code: "UNAUTHORIZED"},
	{target: domain.ErrNotFound, status: fiber.StatusNotFound, code: "NOT_FOUND"},
}

const internalMessage = "error interno, intente más tarde"

// writeError traduce errores de dominio a dto.ErrorResponse.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, ec := range errorCases {
		if !errors.Is(err, ec.target) {
			continue
		}
		msg := ec.target.Error()
		if ec.withDetail {
			msg = err.Error()
		}
		return c.Status(ec.status).JSON(dto.ErrorResponse{Code: ec.code, Message: msg})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
