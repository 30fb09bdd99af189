package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/selinay/moraled/internal/app/models/dto"
)

// BindingErrorDetail converts a ShouldBindJSON error into the standard
// validation error payload, with per-field messages when the failure came
// from struct validation.
func BindingErrorDetail(err error) *dto.ErrorDetail {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			messages = append(messages, formatValidationError(fieldErr))
		}
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(messages)
	}

	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gtfield":
		return e.Field() + " must be greater than " + e.Param()
	default:
		return e.Field() + " failed " + e.Tag() + " validation"
	}
}
