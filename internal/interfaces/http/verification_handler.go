package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Verifier operaciones del motor de verificación expuestas por HTTP.
type Verifier interface {
	Verify(ctx context.Context, email, code string) (bool, error)
	IsVerified(ctx context.Context, email string) (bool, error)
}

// CodeSender reenvío de códigos; decide si la cuenta admite uno nuevo.
type CodeSender interface {
	SendCode(ctx context.Context, email string) error
}

// VerificationHandler envío, verificación y estado de códigos.
type VerificationHandler struct {
	verifier Verifier
	sender   CodeSender
	log      *logger.Logger
}

func NewVerificationHandler(v Verifier, sender CodeSender, log *logger.Logger) *VerificationHandler {
	return &VerificationHandler{verifier: v, sender: sender, log: log}
}

// Send godoc
// @Summary      Enviar código de verificación
// @Tags         verification
// @Accept       json
// @Param        body  body  dto.SendCodeRequest  true  "email"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/verification/send [post]
func (h *VerificationHandler) Send(c *fiber.Ctx) error {
	var in dto.SendCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.sender.SendCode(c.UserContext(), in.Email); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Verify godoc
// @Summary      Verificar código
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyCodeRequest  true  "email, code"
// @Success      200   {object}  dto.VerifyCodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/verification/verify [post]
func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, h.log, err)
	}
	ok, err := h.verifier.Verify(c.UserContext(), in.Email, in.Code)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !ok {
		return writeError(c, h.log, domain.ErrInvalidCode)
	}
	return c.JSON(dto.VerifyCodeResponse{Verified: true})
}

// Status godoc
// @Summary      Estado de verificación de un email
// @Tags         verification
// @Produce      json
// @Param        email  query  string  true  "email"
// @Success      200   {object}  dto.VerificationStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/verification/status [get]
func (h *VerificationHandler) Status(c *fiber.Ctx) error {
	email := c.Query("email")
	if err := dto.Validate(dto.SendCodeRequest{Email: email}); err != nil {
		return writeError(c, h.log, err)
	}
	verified, err := h.verifier.IsVerified(c.UserContext(), email)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.VerificationStatusResponse{Email: email, Verified: verified})
}
