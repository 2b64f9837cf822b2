package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest notificación de pago enviada por el colaborador de facturación.
type PaymentRequest struct {
	Email     string          `json:"email" validate:"notblank,email"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" validate:"max=120"`
}

// PaymentResponse pago registrado y estado resultante de la cuenta.
type PaymentResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}
