package ports

import (
	"context"
	"time"
)

// Notification mensaje con el código de verificación para un email.
type Notification struct {
	To         string
	Code       string
	Expiration time.Duration
}

// Notifier define el puerto de salida para la entrega de códigos.
// Dispatch no bloquea ni retorna error: la entrega es best-effort y sus fallos
// solo se observan en logs y métricas.
type Notifier interface {
	Dispatch(ctx context.Context, n Notification)
}
