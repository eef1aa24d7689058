package validator

import (
	"errors"
	"sharely/pkg/logger"
	"sharely/pkg/model"
	"sharely/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate enforces the struct tags plus the intake rule that both ends of
// the window lie in the future.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	now := time.Now().UTC()
	var fieldErrs validation.FieldErrors
	if !booking.Start.After(now) {
		fieldErrs = append(fieldErrs, validation.FieldError{
			Field:   "Start",
			Message: "Start must be in the future",
		})
	}
	if !booking.End.After(now) {
		fieldErrs = append(fieldErrs, validation.FieldError{
			Field:   "End",
			Message: "End must be in the future",
		})
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	return nil
}
