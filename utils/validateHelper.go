package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input structs carry their rules in `binding` tags.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// ValidateInput runs struct-tag validation over an input struct and folds
// the failures into one ValidationError with a field list.
func ValidateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fieldErr.Field())
	}
	return NewValidationError("INVALID_INPUT", "invalid fields: "+strings.Join(fields, ", "))
}
