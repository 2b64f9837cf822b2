package dto

// SendCodeRequest entrada de verification/send.
type SendCodeRequest struct {
	Email string `json:"email" validate:"notblank,email"`
}

// VerifyCodeRequest entrada de verification/verify.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"notblank"`
	Code  string `json:"code" validate:"notblank"`
}

// VerifyCodeResponse resultado de la verificación.
type VerifyCodeResponse struct {
	Verified bool `json:"verified"`
}

// VerificationStatusResponse estado de verificación de un email.
type VerificationStatusResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}
