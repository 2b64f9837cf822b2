package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/auth"
	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/registration"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// AuthHandler maneja registro en dos pasos, login y perfil.
type AuthHandler struct {
	registration *registration.UseCase
	auth         *auth.AuthUseCase
	log          *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(reg *registration.UseCase, authUC *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{registration: reg, auth: authUC, log: log}
}

// InitiateRegister godoc
// @Summary      Iniciar registro (envía código al email)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, firstName, lastName, role"
// @Success      200   {object}  dto.InitiateRegistrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/initiate-register [post]
func (h *AuthHandler) InitiateRegister(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.registration.Initiate(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Completar registro (requiere email verificado)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, firstName, lastName, role"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	account, err := h.registration.Finalize(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Cuenta autenticada
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.AccountResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/accounts/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	account, err := h.auth.Me(c.UserContext(), GetAccountID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(account)
}
