package dto

import (
	"time"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// RegisterRequest entrada compartida por initiate-register y register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"notblank,email"`
	Password  string `json:"password" validate:"notblank"`
	FirstName string `json:"firstName" validate:"notblank,max=100"`
	LastName  string `json:"lastName" validate:"notblank,max=100"`
	Role      string `json:"role" validate:"oneof=RETAIL WHOLESALE"`
}

// InitiateRegistrationResponse respuesta de initiate-register (nunca incluye el código).
type InitiateRegistrationResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// AccountResponse salida de una cuenta (sin password).
type AccountResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          string    `json:"role"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// LoginResponse cuenta + token de sesión.
type LoginResponse struct {
	Account AccountResponse `json:"account"`
	Token   string          `json:"token"`
}

// ToAccountResponse proyecta la cuenta sin el hash de contraseña.
func ToAccountResponse(a *entity.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Role:          string(a.Role),
		PaymentStatus: string(a.PaymentStatus),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
