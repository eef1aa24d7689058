package validator

import (
	"errors"
	"sharely/pkg/logger"
	"sharely/pkg/model"
	"sharely/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ItemValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewItemValidator(log *logger.Logger) *ItemValidator {
	return &ItemValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ItemValidator) Validate(item *model.Item) error {
	if err := v.validate.Struct(item); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

// ValidatePatch checks only the fields present in a partial update.
func (v *ItemValidator) ValidatePatch(patch *model.ItemPatch) error {
	if err := v.validate.Struct(patch); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if patch.Name == nil && patch.Description == nil && patch.Available == nil {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "patch",
				Message: "at least one field must be set",
			},
		}
	}

	return nil
}
