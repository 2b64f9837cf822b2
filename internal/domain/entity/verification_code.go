package entity

import "time"

// VerificationCode código de un solo uso asociado a un email (no a una cuenta).
type VerificationCode struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

// IsValid: no consumido y now antes de la expiración.
func (c *VerificationCode) IsValid(now time.Time) bool {
	return !c.Consumed && now.Before(c.ExpiresAt)
}

// IsExpired indica si la ventana de validez ya pasó.
func (c *VerificationCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
