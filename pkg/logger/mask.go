package logger

import "strings"

// MaskEmail oculta la parte local del email salvo el primer carácter: "ana@x.com" -> "a**@x.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return mask(email, 1)
	}
	return mask(email[:at], 1) + email[at:]
}

// MaskCode deja visibles solo los dos primeros dígitos: "123456" -> "12****".
func MaskCode(code string) string {
	return mask(code, 2)
}

func mask(s string, visible int) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= visible {
		return strings.Repeat("*", len(r))
	}
	return string(r[:visible]) + strings.Repeat("*", len(r)-visible)
}
