package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment pago de membresía registrado por el colaborador de facturación.
type Payment struct {
	ID        string
	AccountID string
	Amount    decimal.Decimal
	Reference string
	CreatedAt time.Time
}
