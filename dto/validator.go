package dto

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("strong_password", validateStrongPassword)
}

func GetValidator() *validator.Validate {
	return validate
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 {
		return false
	}

	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	return hasUpper && hasLower && hasNumber
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var out []ValidationError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}

	for _, fieldErr := range validationErrors {
		msg := "Invalid value"
		switch fieldErr.Tag() {
		case "required":
			msg = "This field is required"
		case "email":
			msg = "Must be a valid email address"
		case "min":
			msg = "Value is too small"
		case "max":
			msg = "Value is too large"
		case "oneof":
			msg = "Value is not one of the allowed options"
		case "strong_password":
			msg = "Password must contain upper case, lower case and a number"
		}
		out = append(out, ValidationError{Field: fieldErr.Field(), Message: msg})
	}

	return out
}
