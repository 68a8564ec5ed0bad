package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const (
	ErrRequired        = "is required"
	ErrGreaterThan     = "must be greater than %s"
	ErrMaxLength       = "must be at most %s characters long"
	ErrBookingCategory = "must be one of Normal VIP"
	ErrDefaultInvalid  = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterValidation("notblank", validators.NotBlank)
	validator.RegisterValidation("booking_category", validateBookingCategory)

	return validator
}

// jsonFieldName reports fields under their wire name.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}

	return name
}

func validateBookingCategory(fl validator.FieldLevel) bool {
	_, ok := domain.ParseBookingCategory(fl.Field().String())
	return ok
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return ErrRequired
	case "gt":
		return fmt.Sprintf(ErrGreaterThan, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "booking_category":
		return ErrBookingCategory
	default:
		return ErrDefaultInvalid
	}
}
