package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

var validate = validator.New()

// Validate checks struct tags and converts failures into a validation
// error carrying per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		details[strings.ToLower(fieldErr.Field())] = "failed " + fieldErr.Tag() + " validation"
	}
	return apperrors.NewValidationError("invalid payload", details)
}
