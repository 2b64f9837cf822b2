package entity

import "time"

// Role tipo de cuenta.
type Role string

// Roles válidos para Account.
const (
	RoleRetail    Role = "RETAIL"
	RoleWholesale Role = "WHOLESALE"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	return r == RoleRetail || r == RoleWholesale
}

// PaymentStatus estado de pago de la membresía.
type PaymentStatus string

const (
	PaymentCleared PaymentStatus = "CLEARED"
	PaymentPending PaymentStatus = "PENDING"
)

// DefaultPaymentStatus mayoristas nacen pendientes de pago; el resto, al día.
func DefaultPaymentStatus(r Role) PaymentStatus {
	if r == RoleWholesale {
		return PaymentPending
	}
	return PaymentCleared
}

// Account representa una cuenta de usuario.
type Account struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string // único, sensible a mayúsculas tal como se guardó
	PasswordHash  string // bcrypt, nunca texto plano
	Role          Role
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentCleared indica si la cuenta no tiene pagos pendientes.
func (a *Account) IsPaymentCleared() bool {
	return a.PaymentStatus == PaymentCleared
}

// RequiresPayment aplica solo a mayoristas con el pago pendiente.
func (a *Account) RequiresPayment() bool {
	return a.Role == RoleWholesale && !a.IsPaymentCleared()
}
