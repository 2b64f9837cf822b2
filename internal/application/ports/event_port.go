package ports

import (
	"context"
	"time"
)

// AccountRegisteredEvent se publica tras finalizar un registro.
type AccountRegisteredEvent struct {
	AccountID  string    `json:"accountId"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher puerto de eventos de dominio.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, evt AccountRegisteredEvent) error
}
