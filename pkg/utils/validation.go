package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct based on its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatFieldError(e))
		}
		return fmt.Errorf("%s", strings.Join(messages, "; "))
	}
	return err
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits, '.', '_' and '-'", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// usernamePattern matches 3-20 characters of letters, digits, dot,
// underscore, and hyphen.
func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) < 3 || len(value) > 20 {
			return false
		}
		for _, r := range value {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			case r == '.', r == '_', r == '-':
			default:
				return false
			}
		}
		return true
	}))
}
