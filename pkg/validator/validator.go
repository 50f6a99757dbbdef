package validator

import (
	"reflect"
	"strings"

	"clinic-portal/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("repeat_schedule", func(fl validator.FieldLevel) bool {
		return entity.RepeatSchedule(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("refill_schedule", func(fl validator.FieldLevel) bool {
		return entity.RefillSchedule(fl.Field().String()).IsValid()
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ValidateField checks a single value against tag and returns the
// formatted messages keyed by name, or nil when the value passes.
func (cv *CustomValidator) ValidateField(name string, value interface{}, tag string) map[string]string {
	err := cv.validator.Var(value, tag)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors[name] = message(name, e)
		}
	}
	if len(errors) == 0 {
		errors[name] = name + " is invalid"
	}
	return errors
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors[e.Field()] = message(e.Field(), e)
		}
	}

	return errors
}

func message(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "gt":
		return field + " must be greater than " + e.Param()
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "repeat_schedule":
		return field + " must be one of: none, weekly, monthly"
	case "refill_schedule":
		return field + " must be one of: weekly, monthly, quarterly"
	default:
		return field + " is invalid"
	}
}
