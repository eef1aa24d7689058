package validator

import (
	"errors"
	"sharely/pkg/logger"
	"sharely/pkg/model"
	"sharely/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *UserValidator) Validate(user *model.User) error {
	if err := v.validate.Struct(user); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

// ValidatePatch checks only the fields present in a partial update.
func (v *UserValidator) ValidatePatch(patch *model.UserPatch) error {
	if err := v.validate.Struct(patch); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if patch.Name == nil && patch.Email == nil {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "patch",
				Message: "at least one field must be set",
			},
		}
	}

	return nil
}
