package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/billing"
	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// BillingHandler webhook del colaborador de facturación.
type BillingHandler struct {
	uc  *billing.PaymentUseCase
	log *logger.Logger
}

func NewBillingHandler(uc *billing.PaymentUseCase, log *logger.Logger) *BillingHandler {
	return &BillingHandler{uc: uc, log: log}
}

// RecordPayment godoc
// @Summary      Registrar pago de membresía
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Billing-Key  header  string  true  "secreto compartido"
// @Param        body  body  dto.PaymentRequest  true  "email, amount, reference"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/billing/payments [post]
func (h *BillingHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordPayment(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
