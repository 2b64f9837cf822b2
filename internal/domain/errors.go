package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound  = errors.New("recurso no encontrado")
	ErrDuplicate = errors.New("recurso duplicado")

	ErrValidation         = errors.New("entrada inválida")
	ErrAlreadyRegistered  = errors.New("el email ya está registrado, intente iniciar sesión")
	ErrNotVerified        = errors.New("el email no ha sido verificado")
	ErrInvalidCode        = errors.New("código de verificación inválido o expirado")
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrPaymentRequired    = errors.New("la cuenta mayorista requiere el pago de la membresía")
	ErrDelivery           = errors.New("no se pudo entregar la notificación")
	ErrUnauthorized       = errors.New("no autorizado")
)
