package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jhoicas/cuentas-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank: rechaza cadenas con solo espacios.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Validate valida la estructura completa; el error envuelve domain.ErrValidation.
func Validate(s any) error {
	return wrap(validate.Struct(s))
}

// ValidateFields valida solo los campos indicados (nombres de campo Go).
func ValidateFields(s any, fields ...string) error {
	return wrap(validate.StructPartial(s, fields...))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required", "notblank":
		return field + " es obligatorio"
	case "email":
		return field + " no es un email válido"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de [%s]", field, fe.Param())
	case "numeric", "len":
		return field + " tiene un formato inválido"
	default:
		return fmt.Sprintf("%s no cumple la regla %s", field, fe.Tag())
	}
}
