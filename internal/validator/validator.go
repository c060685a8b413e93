package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
)

// Validator wraps go-playground/validator and adds the country tag.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("country", validateCountry)

	return &Validator{validate: v}
}

// ValidateStruct validates a struct based on its tags. Failures wrap
// derr.ErrInvalidInput.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, describe(fe))
		}
		return fmt.Errorf("validation failed: %s: %w", strings.Join(parts, "; "), derr.ErrInvalidInput)
	}

	return fmt.Errorf("validation failed: %w", errors.Join(derr.ErrInvalidInput, err))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "country":
		return field + " must be one of UK, USA, Canada"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid url"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lt", "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func validateCountry(fl validator.FieldLevel) bool {
	_, ok := models.ParseCountry(fl.Field().String())
	return ok
}
